package prompts

import (
	"io"

	"github.com/charmbracelet/huh"
)

// PromptConfirm prompts for yes/no confirmation. The prompt is drawn on out
// so it never mixes with data written to stdout.
func PromptConfirm(out io.Writer, message string, defaultValue bool) (bool, error) {
	confirm := defaultValue

	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(message).
			Affirmative("Yes").
			Negative("No").
			Value(&confirm),
	)).WithOutput(out).Run()

	return confirm, err
}
