// Package desktop hosts the game in an ebiten window.
package desktop

import (
	"image/color"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/tomz197/spacerocks/internal/asset"
	"github.com/tomz197/spacerocks/internal/object"
	"github.com/tomz197/spacerocks/internal/physics"
)

// Command is one recorded draw call. Text is empty for image draws.
type Command struct {
	Image     *asset.Image
	SrcCenter physics.Vector
	SrcSize   physics.Vector
	Dst       physics.Vector
	DstSize   physics.Vector
	Rotation  float64

	Text     string
	Pos      physics.Vector
	TextSize float64
	Color    color.RGBA
}

// Recorder collects the draw calls of one frame. ebiten only allows drawing
// to the screen inside Draw, while the game advances in Update, so frames are
// recorded during Update and replayed during Draw.
type Recorder struct {
	commands []Command
}

// Reset drops the recorded frame, keeping the backing storage.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// Commands returns the recorded frame in draw order.
func (r *Recorder) Commands() []Command {
	return r.commands
}

func (r *Recorder) DrawImage(img *asset.Image, srcCenter, srcSize, dst, dstSize physics.Vector, rotation float64) {
	if img == nil || img.Src == nil {
		return
	}
	r.commands = append(r.commands, Command{
		Image:     img,
		SrcCenter: srcCenter,
		SrcSize:   srcSize,
		Dst:       dst,
		DstSize:   dstSize,
		Rotation:  rotation,
	})
}

func (r *Recorder) DrawText(text string, pos physics.Vector, size float64, colorName string) {
	r.commands = append(r.commands, Command{
		Text:     text,
		Pos:      pos,
		TextSize: size,
		Color:    namedColor(colorName),
	})
}

// namedColor looks up an SVG colour name, case-insensitively. Unknown names
// fall back to white.
func namedColor(name string) color.RGBA {
	if c, ok := colornames.Map[strings.ToLower(name)]; ok {
		return c
	}
	return colornames.White
}

var _ object.Renderer = (*Recorder)(nil)
