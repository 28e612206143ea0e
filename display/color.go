package display

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// SetColor turns colored terminal output on or off
func SetColor(enabled bool) {
	if enabled {
		pterm.EnableColor()
		return
	}
	pterm.DisableColor()
}

// Failure writes a red diagnostic line to w
func Failure(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, pterm.Red(fmt.Sprintf(format, args...)))
}

// Warning writes a yellow diagnostic line to w
func Warning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, pterm.Yellow(fmt.Sprintf(format, args...)))
}

// DiffLine colors one line of a unified diff: removals red, additions
// green, hunk headers cyan. File headers are left plain.
func DiffLine(line string) string {
	switch {
	case len(line) >= 3 && (line[:3] == "---" || line[:3] == "+++"):
		return pterm.Bold.Sprint(line)
	case len(line) > 0 && line[0] == '-':
		return pterm.Red(line)
	case len(line) > 0 && line[0] == '+':
		return pterm.Green(line)
	case len(line) >= 2 && line[:2] == "@@":
		return pterm.Cyan(line)
	}
	return line
}
