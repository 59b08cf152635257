package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the server start banner, colored when the terminal supports it.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`  ___  __ ___   _____ ___ _____ __ _ _____ ___ `, "#34d399"},
		{` (_-< / _' \ V / -_|_-<  _/ _' |  _/ -_)`, "#2dd4bf"},
		{` /__/ \__,_|\_/\___/__/\__\__,_|\__\___|`, "#22d3ee"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
