package errhandler

import (
	"errors"
	"os"
	"unicode"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
)

// HandleError reports err on stderr and exits. A prompt aborted by the user
// is not a failure.
func HandleError(err error) {
	if errors.Is(err, huh.ErrUserAborted) {
		pterm.Warning.WithWriter(os.Stderr).Println("Operation Cancelled")
		os.Exit(0)
	}

	printer := pterm.Error.WithWriter(os.Stderr)
	printer.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}
	printer.Println(Capitalize(err.Error()))
	os.Exit(1)
}

func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
