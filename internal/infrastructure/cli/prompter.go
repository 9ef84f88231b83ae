package cli

import (
	"bufio"
	"io"
	"os"

	"github.com/doeshing/notecalc/internal/infrastructure/cli/helpers"
	"github.com/doeshing/notecalc/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: isTerminal(in),
	}
}

// Enabled reports whether input comes from a terminal. Non-interactive
// callers must pass --yes to destructive commands.
func (p *Prompter) Enabled() bool {
	return p.interactive
}

// Confirm asks a yes/no question, defaulting to no.
func (p *Prompter) Confirm(question string) (bool, error) {
	return helpers.PromptForConfirmation(p.out, p.in, question)
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
