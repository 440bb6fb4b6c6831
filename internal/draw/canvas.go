package draw

import (
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/tomz197/spacerocks/internal/asset"
	"github.com/tomz197/spacerocks/internal/physics"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Pixels whose brightest channel is below this (0..1) are left empty so that
// dim backgrounds do not flood the terminal.
const darkThreshold = 0.12

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
// Canvas implements object.Renderer.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []uint8 // Flat slice: [y * termWidth + x] - xterm-256 colour, 0 if empty

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area inside a larger terminal.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	labels []label

	// Reusable buffer to reduce allocations
	renderBuf strings.Builder
}

// label is text drawn over the pixels.
type label struct {
	col, row int // 1-based, relative to the canvas
	text     string
	color    uint8
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	subPixelHeight := termHeight * 2

	// Reallocate if size changed
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]uint8, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	// Update scale factors
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels and text in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
	c.labels = c.labels[:0]
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col uint8) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// pixel returns the colour at actual terminal coordinates, 0 if empty.
func (c *Canvas) pixel(x, y int) uint8 {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return 0
}

// DrawImage samples the srcSize region of img around srcCenter into the
// dstSize rectangle centred on dst, rotated clockwise by rotation radians.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawImage(img *asset.Image, srcCenter, srcSize, dst, dstSize physics.Vector, rotation float64) {
	if img == nil || img.Src == nil || dstSize.X <= 0 || dstSize.Y <= 0 {
		return
	}

	// Bounding box of the (possibly rotated) destination in pixel space.
	rx, ry := dstSize.X/2, dstSize.Y/2
	if rotation != 0 {
		rx = math.Hypot(dstSize.X, dstSize.Y) / 2
		ry = rx
	}
	x0 := max(int(math.Floor((dst.X-rx)*c.scaleX)), 0)
	x1 := min(int(math.Ceil((dst.X+rx)*c.scaleX)), c.termWidth)
	y0 := max(int(math.Floor((dst.Y-ry)*c.scaleY)), 0)
	y1 := min(int(math.Ceil((dst.Y+ry)*c.scaleY)), c.subPixelHeight)

	cos, sin := math.Cos(rotation), math.Sin(rotation)
	ratioX := srcSize.X / dstSize.X
	ratioY := srcSize.Y / dstSize.Y
	halfW, halfH := dstSize.X/2, dstSize.Y/2
	left := srcCenter.X - srcSize.X/2
	top := srcCenter.Y - srcSize.Y/2
	bounds := img.Src.Bounds()

	for py := y0; py < y1; py++ {
		ly := (float64(py)+0.5)/c.scaleY - dst.Y
		for px := x0; px < x1; px++ {
			lx := (float64(px)+0.5)/c.scaleX - dst.X

			// Undo the rotation to find the unrotated destination offset.
			ux := lx*cos + ly*sin
			uy := -lx*sin + ly*cos
			if math.Abs(ux) >= halfW || math.Abs(uy) >= halfH {
				continue
			}

			sx := srcCenter.X + ux*ratioX
			sy := srcCenter.Y + uy*ratioY
			if sx < left || sx >= left+srcSize.X || sy < top || sy >= top+srcSize.Y {
				continue
			}
			u := bounds.Min.X + int(math.Floor(sx))
			v := bounds.Min.Y + int(math.Floor(sy))
			if u < bounds.Min.X || u >= bounds.Max.X || v < bounds.Min.Y || v >= bounds.Max.Y {
				continue
			}

			if col, ok := cellColor(img.Src.At(u, v)); ok {
				c.setPixel(px, py, col)
			}
		}
	}
}

// DrawText queues text whose baseline starts at pos. The size is ignored;
// terminal text always takes one row.
func (c *Canvas) DrawText(text string, pos physics.Vector, size float64, colorName string) {
	col, row := c.LogicalToTerminal(pos.X, pos.Y)
	// The baseline sits at the bottom of the text, so use the row above it.
	if row > 1 {
		row--
	}

	rgba, ok := colornames.Map[strings.ToLower(colorName)]
	if !ok {
		rgba = colornames.White
	}
	c.labels = append(c.labels, label{col: col, row: row, text: text, color: rgbTo256(rgba.R, rgba.G, rgba.B)})
}

// Label queues white text at a 1-based canvas cell.
func (c *Canvas) Label(col, row int, text string) {
	c.labels = append(c.labels, label{col: col, row: row, text: text, color: rgbTo256(0xff, 0xff, 0xff)})
}

// cellColor converts an image colour to a terminal colour. Transparent and
// very dark pixels are reported as empty.
func cellColor(c color.Color) (uint8, bool) {
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return 0, false
	}
	// Undo alpha premultiplication.
	r = r * 0xffff / a
	g = g * 0xffff / a
	b = b * 0xffff / a

	if float64(max(r, g, b))/0xffff < darkThreshold {
		return 0, false
	}
	return rgbTo256(uint8(r>>8), uint8(g>>8), uint8(b>>8)), true
}

// rgbTo256 maps a colour onto the xterm 6x6x6 colour cube (16..231).
// The result is never 0, which marks empty pixels.
func rgbTo256(r, g, b uint8) uint8 {
	level := func(v uint8) int {
		return int(math.Round(float64(v) / 255 * 5))
	}
	return uint8(16 + 36*level(r) + 6*level(g) + level(b))
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// cellStyle is the foreground and background of a cell, 0 meaning default.
type cellStyle struct {
	fg, bg uint8
}

func (s cellStyle) write(b *strings.Builder) {
	b.WriteString("\033[0")
	if s.fg != 0 {
		b.WriteString(";38;5;")
		b.WriteString(strconv.Itoa(int(s.fg)))
	}
	if s.bg != 0 {
		b.WriteString(";48;5;")
		b.WriteString(strconv.Itoa(int(s.bg)))
	}
	b.WriteByte('m')
}

// Render outputs the canvas to the writer using coloured half-block characters.
// Every cell is written, so no screen clear is needed between frames.
func (c *Canvas) Render(w io.Writer) error {
	b := &c.renderBuf
	b.Reset()
	b.Grow(c.termWidth * c.termHeight * 4)

	for row := 0; row < c.termHeight; row++ {
		moveCursor(b, c.offsetCol+1, c.offsetRow+row+1)
		current := cellStyle{}
		current.write(b)

		for col := 0; col < c.termWidth; col++ {
			top := c.pixel(col, row*2)
			bottom := c.pixel(col, row*2+1)

			var ch rune
			var style cellStyle
			switch {
			case top == 0 && bottom == 0:
				ch = ' '
			case top == bottom:
				ch, style = BlockFull, cellStyle{fg: top}
			case bottom == 0:
				ch, style = BlockUpperHalf, cellStyle{fg: top}
			case top == 0:
				ch, style = BlockLowerHalf, cellStyle{fg: bottom}
			default:
				ch, style = BlockUpperHalf, cellStyle{fg: top, bg: bottom}
			}

			// Blank cells only care about the background.
			if ch == ' ' && current.bg == 0 {
				b.WriteByte(' ')
				continue
			}
			if style != current {
				style.write(b)
				current = style
			}
			b.WriteRune(ch)
		}
	}

	for _, l := range c.labels {
		if l.row < 1 || l.row > c.termHeight || l.col > c.termWidth {
			continue
		}
		text := l.text
		col := l.col
		if col < 1 {
			text = text[min(1-col, len(text)):]
			col = 1
		}
		if room := c.termWidth - col + 1; len(text) > room {
			text = text[:room]
		}
		moveCursor(b, c.offsetCol+col, c.offsetRow+l.row)
		cellStyle{fg: l.color}.write(b)
		b.WriteString(text)
	}
	b.WriteString("\033[0m")

	// Write output in chunks for optimal network flow
	data := b.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// RenderBorder draws a box border around the canvas area when the terminal
// is larger than the render area on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	line := strings.Repeat("─", c.termWidth)

	if hasV {
		if hasH {
			// Full top and bottom: ┌───┐ └───┘
			moveCursor(&buf, left, top)
			buf.WriteString("┌" + line + "┐")
			moveCursor(&buf, left, bottom)
			buf.WriteString("└" + line + "┘")
		} else {
			moveCursor(&buf, c.offsetCol+1, top)
			buf.WriteString(line)
			moveCursor(&buf, c.offsetCol+1, bottom)
			buf.WriteString(line)
		}
	}

	if hasH {
		// Side borders: │ ... │
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			moveCursor(&buf, left, row)
			buf.WriteString("│")
			moveCursor(&buf, right, row)
			buf.WriteString("│")
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

// moveCursor appends an ANSI cursor position sequence (1-based).
func moveCursor(b *strings.Builder, col, row int) {
	b.WriteString("\033[")
	b.WriteString(strconv.Itoa(row))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(col))
	b.WriteByte('H')
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based canvas position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts a 0-based terminal cell (offset included) to the
// logical coordinates at the centre of that cell.
func (c *Canvas) TerminalToLogical(col, row int) physics.Vector {
	col -= c.offsetCol
	row -= c.offsetRow
	return physics.Vec(
		(float64(col)+0.5)/c.scaleX,
		(float64(row*2)+1)/c.scaleY,
	)
}

// Cell returns the glyph and colours Render would produce for a canvas cell
// (0-based). Used by frontends that draw cells themselves.
func (c *Canvas) Cell(col, row int) (ch rune, fg, bg uint8) {
	top := c.pixel(col, row*2)
	bottom := c.pixel(col, row*2+1)
	switch {
	case top == 0 && bottom == 0:
		return ' ', 0, 0
	case top == bottom:
		return BlockFull, top, 0
	case bottom == 0:
		return BlockUpperHalf, top, 0
	case top == 0:
		return BlockLowerHalf, bottom, 0
	default:
		return BlockUpperHalf, top, bottom
	}
}

// Labels calls fn for every queued text, in canvas cells (1-based).
func (c *Canvas) Labels(fn func(col, row int, text string, color uint8)) {
	for _, l := range c.labels {
		fn(l.col, l.row, l.text, l.color)
	}
}
