package client

import (
	"io"
	"time"

	"github.com/tomz197/spacerocks/internal/draw"
	"github.com/tomz197/spacerocks/internal/input"
)

// Frontend is the terminal presentation and input adapter used by a Client.
type Frontend interface {
	// Init prepares the terminal (cursor, mouse reporting, screen clear).
	Init() error
	// Close restores the terminal.
	Close() error
	// Size returns the terminal size in cells.
	Size() (cols, rows int, err error)
	// Events returns input received since the last call. ok is false once
	// the input has ended.
	Events(now time.Time) (events []input.Event, ok bool)
	// Present shows the canvas and its labels.
	Present(c *draw.Canvas) error
}

// ANSIFrontend drives a terminal through escape sequences over a plain
// reader/writer pair, e.g. a raw local terminal or an SSH channel.
type ANSIFrontend struct {
	writer       io.Writer
	chunkWriter  *draw.ChunkWriter
	inputStream  *input.Stream
	keys         *input.Tracker
	termSizeFunc draw.TermSizeFunc

	// Geometry of the last presented frame; a change needs a full clear.
	lastWidth, lastHeight int
	lastCol, lastRow      int
}

// NewANSIFrontend creates a frontend reading input from r and writing frames to w.
func NewANSIFrontend(r io.Reader, w io.Writer, termSizeFunc draw.TermSizeFunc, keys *input.Tracker) *ANSIFrontend {
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	return &ANSIFrontend{
		writer:       w,
		chunkWriter:  draw.NewChunkWriter(w),
		inputStream:  input.StartStream(r, keys),
		keys:         keys,
		termSizeFunc: termSizeFunc,
	}
}

func (f *ANSIFrontend) Init() error {
	draw.HideCursor(f.writer)
	draw.EnableMouse(f.writer)
	draw.ClearScreen(f.writer)
	return nil
}

func (f *ANSIFrontend) Close() error {
	f.inputStream.Stop()
	draw.DisableMouse(f.writer)
	draw.ResetStyle(f.writer)
	draw.ClearScreen(f.writer)
	draw.ShowCursor(f.writer)
	return nil
}

func (f *ANSIFrontend) Size() (int, int, error) {
	return f.termSizeFunc()
}

func (f *ANSIFrontend) Events(now time.Time) ([]input.Event, bool) {
	events := f.inputStream.Poll(now)
	return events, !f.inputStream.Closed()
}

// Present renders the canvas. When the render area moved or changed size the
// terminal is cleared first to remove residual pixels outside the new canvas.
func (f *ANSIFrontend) Present(c *draw.Canvas) error {
	if c.TerminalWidth() != f.lastWidth || c.TerminalHeight() != f.lastHeight ||
		c.OffsetCol() != f.lastCol || c.OffsetRow() != f.lastRow {
		f.chunkWriter.WriteString("\033[0m\033[H\033[2J")
		f.lastWidth, f.lastHeight = c.TerminalWidth(), c.TerminalHeight()
		f.lastCol, f.lastRow = c.OffsetCol(), c.OffsetRow()
	}

	if err := c.Render(f.chunkWriter); err != nil {
		return err
	}
	if err := c.RenderBorder(f.chunkWriter); err != nil {
		return err
	}
	return f.chunkWriter.Flush()
}

var _ Frontend = (*ANSIFrontend)(nil)
