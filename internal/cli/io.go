package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/savestate/internal/presentation/report"
	"github.com/aretw0/savestate/internal/presentation/tui"
	"github.com/aretw0/savestate/pkg/savegame"
	"golang.org/x/term"
)

// Stdio names the standard streams in file arguments.
const Stdio = "-"

// ReadSave loads the save at path, or from stdin when path is "-".
func (a *App) ReadSave(path string, stdin io.Reader) (*savegame.SavedGame, error) {
	if path == Stdio {
		return a.Engine.Load(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open save: %w", err)
	}
	defer f.Close()

	sg, err := a.Engine.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sg, nil
}

// WriteSave encodes sg to path, or to stdout when path is empty or "-".
func (a *App) WriteSave(sg *savegame.SavedGame, path string, stdout io.Writer) error {
	if path == "" || path == Stdio {
		return a.Engine.Encode(stdout, sg)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := a.Engine.Encode(f, sg); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Inspect writes the summary of sg. On a terminal it is rendered with glamour, elsewhere
// the Markdown is written as is.
func Inspect(w io.Writer, sg *savegame.SavedGame) error {
	md := report.Summary(sg)

	width, ok := terminalWidth(w)
	if !ok {
		_, err := io.WriteString(w, md)
		return err
	}

	render, err := tui.NewRenderer(width)
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// PrintSystemMessage prints a standardized system message.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, true
	}
	return width, true
}
