package display

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/zbxboard/internal/board"
	"github.com/rileyhilliard/zbxboard/internal/errors"
)

// TUIOptions configures the full-screen display.
type TUIOptions struct {
	Title    string
	Handlers Handlers

	// Input is where key presses come from. Nil disables keyboard input.
	Input io.Reader

	// Output receives the rendered screen. Nil means stdout.
	Output io.Writer

	// AltScreen takes over the whole terminal and restores it on exit.
	AltScreen bool
}

// TUI is a board.Display backed by a bubbletea program. Run blocks on the
// calling goroutine; Render may be called from any other goroutine and
// forwards frames with Program.Send.
type TUI struct {
	program *tea.Program
	done    chan struct{}
}

var _ board.Display = (*TUI)(nil)

// NewTUI builds the program without starting it.
func NewTUI(opts TUIOptions) *TUI {
	progOpts := []tea.ProgramOption{tea.WithInput(opts.Input)}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	return &TUI{
		program: tea.NewProgram(NewModel(opts.Title, opts.Handlers), progOpts...),
		done:    make(chan struct{}),
	}
}

// Run shows the dashboard until Quit is called or the user quits.
func (t *TUI) Run() error {
	defer close(t.done)
	if _, err := t.program.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrDisplay,
			"The dashboard exited with an error",
			"Try --display log if this terminal can't run full-screen apps.")
	}
	return nil
}

// Render hands the frame to the program. It fails once the program exited.
func (t *TUI) Render(frame board.Frame) error {
	select {
	case <-t.done:
		return errors.New(errors.ErrDisplay,
			"The dashboard window is closed",
			"Restart zbxboard to bring it back.")
	default:
	}
	t.program.Send(frameMsg{frame: frame})
	return nil
}

// Done is closed when Run returns.
func (t *TUI) Done() <-chan struct{} {
	return t.done
}

// Quit asks the program to exit. Run restores the terminal before returning.
func (t *TUI) Quit() {
	t.program.Quit()
}
