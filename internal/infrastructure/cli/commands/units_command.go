package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/notecalc/internal/app"
	"github.com/doeshing/notecalc/internal/units"
)

// NewUnitsCommand creates the units command with all subcommands
func NewUnitsCommand(container *app.Container) *cobra.Command {
	unitsCmd := &cobra.Command{
		Use:   "units",
		Short: "List units and convert between them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCategories(cmd.OutOrStdout(), container.UnitResolver)
		},
	}

	unitsCmd.AddCommand(
		&cobra.Command{
			Use:   "categories",
			Short: "List unit categories",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listCategories(cmd.OutOrStdout(), container.UnitResolver)
			},
		},
		&cobra.Command{
			Use:   "list <category>",
			Short: "List the units of a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return listUnits(cmd.OutOrStdout(), container.UnitResolver, args[0])
			},
		},
		&cobra.Command{
			Use:     "convert <value> <from> [to] <to>",
			Short:   "Convert a value between two units",
			Example: "  notecalc units convert 10 km to mi\n  notecalc units convert 100 f c",
			Args:    cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				result, err := container.UnitResolver.Convert(strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result)
				return nil
			},
		},
	)

	return unitsCmd
}

func listCategories(out io.Writer, resolver *units.Resolver) error {
	for _, name := range resolver.Categories() {
		fmt.Fprintln(out, name)
	}
	return nil
}

func listUnits(out io.Writer, resolver *units.Resolver, category string) error {
	aliases := resolver.UnitsInCategory(category)
	if aliases == nil {
		return fmt.Errorf("unknown category %q (have %s)", category, strings.Join(resolver.Categories(), ", "))
	}
	fmt.Fprintln(out, strings.Join(aliases, ", "))
	return nil
}
