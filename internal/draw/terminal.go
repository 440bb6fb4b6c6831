package draw

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ChunkWriter collects a whole frame and writes it in chunks of at most
// maxChunkSize bytes.
type ChunkWriter struct {
	buf  strings.Builder
	bufw *bufio.Writer
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{bufw: bufio.NewWriterSize(w, 8192)}
}

// Write implements io.Writer for use with Canvas.Render.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer. Uses the same chunk size as Canvas.Render.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Escape sequences written by the terminal frontends.
const (
	seqClearScreen = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
	seqMouseOn     = "\033[?1000h\033[?1006h"
	seqMouseOff    = "\033[?1006l\033[?1000l"
	seqResetStyle  = "\033[0m"
)

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) { _, _ = io.WriteString(w, seqClearScreen) }

func HideCursor(w io.Writer) { _, _ = io.WriteString(w, seqHideCursor) }

func ShowCursor(w io.Writer) { _, _ = io.WriteString(w, seqShowCursor) }

// EnableMouse turns on button press reporting in SGR (1006) format.
func EnableMouse(w io.Writer) { _, _ = io.WriteString(w, seqMouseOn) }

func DisableMouse(w io.Writer) { _, _ = io.WriteString(w, seqMouseOff) }

// ResetStyle restores the default colours.
func ResetStyle(w io.Writer) { _, _ = io.WriteString(w, seqResetStyle) }
