package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/notecalc/internal/application/notebook"
	"github.com/doeshing/notecalc/internal/units"
)

// NewAnalyzeCommand creates the analyze command. Each subcommand reads a
// file, or stdin for "-".
func NewAnalyzeCommand() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the numbers and text of a note",
	}

	analyzeCmd.AddCommand(
		newAnalyzeSubcommand("sum", "Total every number in the text", notebook.FormatSum),
		newAnalyzeSubcommand("avg", "Average every number in the text", notebook.FormatAverage),
		newAnalyzeSubcommand("count", "Count items, words and sentences with readability scores", notebook.FormatCount),
		newAnalyzeSubcommand("min", "Smallest number in the text", func(text string) string {
			return "Min: " + units.FormatNumber(notebook.Min(text))
		}),
		newAnalyzeSubcommand("max", "Largest number in the text", func(text string) string {
			return "Max: " + units.FormatNumber(notebook.Max(text))
		}),
	)

	return analyzeCmd
}

func newAnalyzeSubcommand(name, short string, format func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <file|->",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), format(text))
			return nil
		},
	}
}

func readText(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
