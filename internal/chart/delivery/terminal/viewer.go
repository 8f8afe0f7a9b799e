// Package terminal drives the chart interactively in a text terminal.
package terminal

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"time"

	"workflow-runchart/internal/chart/adapter"
	"workflow-runchart/internal/chart/pagination"
	"workflow-runchart/internal/chart/render"
	"workflow-runchart/internal/entity"
)

const clearScreen = "\x1b[H\x1b[2J"

// Key is a decoded keyboard command.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyQuit
)

// ReadKey reads one command from r. Arrow keys arrive as ESC [ D / ESC [ C.
func ReadKey(r *bufio.Reader) (Key, error) {
	b, err := r.ReadByte()
	if err != nil {
		return KeyNone, err
	}
	switch b {
	case 0x1b:
		// A terminal writes a whole escape sequence at once, so a lone ESC has
		// nothing buffered behind it. The following key is left unread.
		if r.Buffered() < 2 {
			return KeyNone, nil
		}
		if next, _ := r.Peek(1); next[0] != '[' {
			return KeyNone, nil
		}
		_, _ = r.ReadByte()
		code, err := r.ReadByte()
		if err != nil {
			return KeyNone, err
		}
		switch code {
		case 'D':
			return KeyLeft, nil
		case 'C':
			return KeyRight, nil
		}
	case 'h', 'a':
		return KeyLeft, nil
	case 'l', 'd':
		return KeyRight, nil
	case 'q', 0x03, 0x04:
		return KeyQuit, nil
	}
	return KeyNone, nil
}

// Viewer owns the cursor for one terminal session.
type Viewer struct {
	records   []entity.RunRecord
	paginator *pagination.Paginator
	renderer  render.Renderer
	opts      adapter.Options
	out       io.Writer
	clear     bool
}

// NewViewer creates a viewer on the latest page. When raw is true output lines are
// terminated with CRLF and the screen is cleared before each redraw.
func NewViewer(records []entity.RunRecord, pageSize int, loc *time.Location, out io.Writer, raw bool) *Viewer {
	if raw {
		out = crlfWriter{w: out}
	}
	return &Viewer{
		records:   records,
		paginator: pagination.New(len(records), pageSize),
		renderer:  render.NewTerminal(),
		opts:      adapter.Options{Location: loc},
		out:       out,
		clear:     raw,
	}
}

// Cursor returns the current cursor.
func (v *Viewer) Cursor() int { return v.paginator.Cursor() }

// Draw renders the current window.
func (v *Viewer) Draw() error {
	if v.clear {
		if _, err := io.WriteString(v.out, clearScreen); err != nil {
			return err
		}
	}
	return v.renderer.Render(v.out, adapter.Build(v.records, v.paginator, v.opts))
}

// Run draws the initial page and then applies one pagination step per key until
// quit or end of input. Each step redraws only when the cursor moved.
func (v *Viewer) Run(in io.Reader) error {
	if err := v.Draw(); err != nil {
		return err
	}
	r := bufio.NewReader(in)
	for {
		key, err := ReadKey(r)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		before := v.paginator.Cursor()
		switch key {
		case KeyQuit:
			return nil
		case KeyLeft:
			v.paginator.Backward()
		case KeyRight:
			v.paginator.Forward()
		default:
			continue
		}
		if v.paginator.Cursor() == before {
			continue
		}
		if err := v.Draw(); err != nil {
			return err
		}
	}
}

// crlfWriter translates LF to CRLF for terminals in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
