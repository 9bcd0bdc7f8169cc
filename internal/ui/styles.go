package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

func PrintTitle(w io.Writer, format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.FgCyan, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	fmt.Fprintln(w, style.Sprint(fmt.Sprintf("# %s   ", text)))
}
