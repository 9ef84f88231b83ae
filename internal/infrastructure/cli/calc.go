package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/notecalc/internal/app"
	"github.com/doeshing/notecalc/internal/calc"
	"github.com/doeshing/notecalc/internal/application/notebook"
	"github.com/doeshing/notecalc/internal/domain"
)

const replPrompt = "> "

func newCalcCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "calc <expression>",
		Short: "Evaluate a single line",
		Example: "  notecalc calc '2 + 3 * 4'\n" +
			"  notecalc calc 10 km to mi\n" +
			"  notecalc calc 100 USD to EUR",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container := state.container
			awaitRefresh(cmd, container)

			line := strings.Join(args, " ")
			ann := container.NewNotebook().AnnotateLine(line)
			value, ok := resultText(ann)
			if !ok {
				return fmt.Errorf("cannot evaluate %q", line)
			}
			state.renderer(cmd.OutOrStdout()).Result(value)
			return nil
		},
	}
}

func newNoteCommand(state *rootState) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "note <file|->",
		Short: "Annotate every line of a note with its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container := state.container
			path := args[0]
			if write && path == "-" {
				return fmt.Errorf("--write needs a file, not stdin")
			}

			text, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			awaitRefresh(cmd, container)

			annotated := container.NewNotebook().AnnotateNote(text)
			if !write {
				fmt.Fprint(cmd.OutOrStdout(), annotated)
				if !strings.HasSuffix(annotated, "\n") {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			}
			return writeNote(path, annotated)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the annotated note back to the file")
	return cmd
}

// runREPL reads lines until EOF or :quit. On a terminal only the result is
// printed; piped input is echoed with its suffix like note does.
func runREPL(cmd *cobra.Command, state *rootState) error {
	container := state.container
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	renderer := state.renderer(out)
	nb := container.NewNotebook()
	interactive := isTerminal(cmd.InOrStdin())

	if container.Config.Currency.RefreshDue(time.Now()) {
		wait := container.RefreshIfDue(ctx)
		defer func() {
			spinner := NewSpinner(cmd.ErrOrStderr(), "Finishing rate refresh...")
			spinner.Start()
			wait()
			spinner.Stop()
		}()
	}

	if interactive {
		renderer.Plain("notecalc (base currency %s). Type :help for commands.", container.Config.Currency.GetBaseCurrency())
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			fmt.Fprint(out, replPrompt)
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if quit := runREPLCommand(renderer, nb, strings.TrimSpace(line)); quit {
				return nil
			}
			continue
		}

		ann := nb.AnnotateLine(line)
		if !interactive {
			renderer.Annotation(ann)
			continue
		}
		if value, ok := resultText(ann); ok && ann.Kind != domain.LineAssignment {
			renderer.Result("= " + value)
		}
	}
	return scanner.Err()
}

func runREPLCommand(renderer *Renderer, nb *notebook.Service, line string) (quit bool) {
	switch line {
	case ":q", ":quit", ":exit":
		return true
	case ":vars":
		vars := nb.Variables()
		if len(vars) == 0 {
			renderer.Plain("No variables defined.")
		}
		for _, v := range vars {
			renderer.Plain("%s = %s", v.Name, notebook.FormatResult(v.Value))
		}
	case ":history":
		results := nb.Results()
		if len(results) == 0 {
			renderer.Plain("No results yet.")
		}
		for i, v := range results {
			renderer.Plain("%3d  %s", i+1, notebook.FormatResult(v))
		}
	case ":clear":
		nb.Reset()
		renderer.Notice("Session cleared.")
	case ":help":
		renderer.Plain(":vars     list variables")
		renderer.Plain(":history  list results of this session")
		renderer.Plain(":clear    forget variables and results")
		renderer.Plain(":quit     leave")
		renderer.Plain("functions: %s", strings.Join(calc.FunctionNames(), ", "))
	default:
		renderer.Error(fmt.Errorf("unknown command %s", line))
	}
	return false
}

// awaitRefresh refreshes rates before a one-shot evaluation when the
// configured interval has elapsed.
func awaitRefresh(cmd *cobra.Command, container *app.Container) {
	if !container.Config.Currency.RefreshDue(time.Now()) {
		return
	}
	spinner := NewSpinner(cmd.ErrOrStderr(), "Refreshing exchange rates...")
	spinner.Start()
	container.RefreshIfDue(cmd.Context())()
	spinner.Stop()
}

// resultText returns the value shown for ann without the " = " separator.
func resultText(ann domain.Annotation) (string, bool) {
	if ann.Kind == domain.LineAssignment {
		return notebook.FormatResult(ann.Value), true
	}
	if !ann.Annotated() {
		return "", false
	}
	return strings.TrimPrefix(strings.TrimSpace(ann.Suffix), "= "), true
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func writeNote(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
