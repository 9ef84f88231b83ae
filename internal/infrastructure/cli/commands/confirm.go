package commands

import (
	"errors"

	"github.com/doeshing/notecalc/internal/app"
)

// confirmAction returns true when the user agreed or passed --yes. Without a
// terminal the action is refused.
func confirmAction(container *app.Container, assumeYes bool, question string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if container.Prompter == nil || !container.Prompter.Enabled() {
		return false, errors.New(ErrConfirmationRequired)
	}
	return container.Prompter.Confirm(question)
}
