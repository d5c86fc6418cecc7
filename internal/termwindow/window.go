// Package termwindow implements interfaces.Window against a real
// terminal: every Screen/GPU paint is turned into raw ANSI truecolor
// escape sequences written to an io.Writer (typically os.Stdout).
// Grounded in the teacher's internal/egg.VTerm, which uses the same
// github.com/charmbracelet/x/vt emulator and the same raw
// fmt.Fprintf("\x1b[%d;%dH", ...) cursor-restore style for its own
// Snapshot method — here the emulator runs in reverse: instead of
// parsing PTY output into a grid, Blit synthesizes the escape
// sequences for each changed cell, feeds them through the emulator so
// Render() can still produce a correct full repaint, and writes the
// same bytes straight to the terminal.
package termwindow

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/vt"

	"github.com/occore/occore/internal/interfaces"
)

// Window is a terminal-backed interfaces.Window. Its vt.Emulator is
// the terminal's state of record: Blit writes the same escape bytes
// into both the emulator and the real terminal so a later Resize can
// still produce a correct full repaint via Render().
type Window struct {
	mu   sync.Mutex
	out  io.Writer
	emu  *vt.Emulator
	cols int
	rows int
}

// NewWindow creates a Window that paints into out, starting at cols x
// rows. out is usually os.Stdout for an interactive session.
func NewWindow(out io.Writer, cols, rows int) *Window {
	return &Window{
		out:  out,
		emu:  vt.NewEmulator(cols, rows),
		cols: cols,
		rows: rows,
	}
}

// Resize grows or shrinks the terminal's tracked grid and repaints it
// in full, since cells outside the new bounds are gone and anything
// newly in bounds needs its color/content re-established.
func (w *Window) Resize(cols, rows int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.emu.Resize(cols, rows)
	w.cols, w.rows = cols, rows
	io.WriteString(w.out, w.emu.Render())
}

// Blit paints the given cells, in one write, to both the tracked
// emulator and the real terminal.
func (w *Window) Blit(cells []interfaces.Cell) {
	if len(cells) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	var buf strings.Builder
	for _, c := range cells {
		writeCell(&buf, c)
	}
	data := buf.String()
	w.emu.Write([]byte(data))
	io.WriteString(w.out, data)
}

// Clear blanks the terminal and homes the cursor.
func (w *Window) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	const seq = "\x1b[2J\x1b[H"
	w.emu.Write([]byte(seq))
	io.WriteString(w.out, seq)
}

// Close releases the underlying emulator.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.emu.Close()
}

// writeCell appends the escape sequence that positions the cursor at
// (c.X, c.Y), sets 24-bit foreground/background color, and writes the
// cell's codepoint, 1-based per ANSI cursor addressing.
func writeCell(buf *strings.Builder, c interfaces.Cell) {
	fmt.Fprintf(buf, "\x1b[%d;%dH", c.Y+1, c.X+1)
	fg := c.Foreground
	bg := c.Background
	fmt.Fprintf(buf, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm",
		(fg>>16)&0xff, (fg>>8)&0xff, fg&0xff,
		(bg>>16)&0xff, (bg>>8)&0xff, bg&0xff)
	if c.Codepoint == 0 {
		buf.WriteByte(' ')
	} else {
		buf.WriteRune(c.Codepoint)
	}
}

var _ interfaces.Window = (*Window)(nil)
