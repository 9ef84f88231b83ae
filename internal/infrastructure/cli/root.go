package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/notecalc/internal/app"
	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// rootState carries global flags and the container built from them.
type rootState struct {
	container  *app.Container
	configPath string
	verbose    bool
	noColor    bool
}

// renderer returns a renderer for w honouring --no-color and the configured
// colour preference.
func (s *rootState) renderer(w io.Writer) *Renderer {
	if s.noColor {
		return NewRenderer(w, domain.ColorNever)
	}
	return NewRenderer(w, s.container.Config.ColorMode())
}

// Execute builds the root command, runs it and releases the container
// whether or not the command succeeded.
func Execute(ctx context.Context, opts Options) error {
	root, container := newRoot(ctx, opts)
	return runRoot(root, container)
}

// runRoot executes root and always closes container. A close error is
// reported only when the command itself succeeded.
func runRoot(root *cobra.Command, container *app.Container) (err error) {
	defer func() {
		if closeErr := container.Close(); err == nil {
			err = closeErr
		}
	}()
	return root.Execute()
}

// newRoot builds the command tree. The container is filled in once flags are
// parsed, so subcommands receive a pointer that is populated before they run.
func newRoot(ctx context.Context, opts Options) (*cobra.Command, *app.Container) {
	state := &rootState{container: &app.Container{}, verbose: opts.Verbose}
	container := state.container

	calcCmd := newCalcCommand(state)

	root := &cobra.Command{
		Use:   "notecalc [expression]",
		Short: "notecalc - notebook calculator",
		Long: "notecalc evaluates arithmetic, unit conversions and currency conversions " +
			"line by line. Run without arguments to start an interactive session.",
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := app.BuildContainer(cmd.Context(), app.Options{
				ConfigPath: state.configPath,
				Verbose:    state.verbose,
			})
			if err != nil {
				return err
			}
			*container = *built
			container.Prompter = NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runREPL(cmd, state)
			}
			return calcCmd.RunE(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&state.configPath, "config", "", "Path to config file (default ~/.notecalc/config.yaml)")
	flags.BoolVarP(&state.verbose, "verbose", "v", opts.Verbose, "Enable debug logging")
	flags.BoolVar(&state.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(calcCmd)
	root.AddCommand(newNoteCommand(state))
	root.AddCommand(newRatesCommand(state))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewUnitsCommand(container))
	root.AddCommand(commands.NewAnalyzeCommand())
	root.AddCommand(commands.NewVersionCommand())

	root.SetContext(ctx)
	return root, container
}
