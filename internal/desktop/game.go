package desktop

import (
	"fmt"
	"image"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/tomz197/spacerocks/internal/asset"
	"github.com/tomz197/spacerocks/internal/input"
	"github.com/tomz197/spacerocks/internal/loop"
	"github.com/tomz197/spacerocks/internal/loop/config"
	"github.com/tomz197/spacerocks/internal/physics"
)

// binding maps a physical key to a game key.
type binding struct {
	key  ebiten.Key
	game input.Key
}

var bindings = []binding{
	{ebiten.KeyArrowLeft, input.KeyLeft},
	{ebiten.KeyA, input.KeyLeft},
	{ebiten.KeyArrowRight, input.KeyRight},
	{ebiten.KeyD, input.KeyRight},
	{ebiten.KeyArrowUp, input.KeyUp},
	{ebiten.KeyW, input.KeyUp},
	{ebiten.KeySpace, input.KeySpace},
	{ebiten.KeyEnter, input.KeyEnter},
	{ebiten.KeyEscape, input.KeyQuit},
	{ebiten.KeyQ, input.KeyQuit},
}

// Game adapts a loop.Game to ebiten. The simulation runs in Update at the
// ebiten tick rate; Draw replays the frame recorded by the last Update.
type Game struct {
	game     *loop.Game
	recorder Recorder
	spawn    spawnTimer
	now      func() time.Time
	logger   *log.Logger

	images map[*asset.Image]*ebiten.Image
	font   *opentype.Font
	faces  map[float64]font.Face
}

// New creates an ebiten host for game.
func New(game *loop.Game, logger *log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Game{
		game:   game,
		spawn:  spawnTimer{interval: config.SpawnInterval},
		now:    time.Now,
		logger: logger,
		images: make(map[*asset.Image]*ebiten.Image),
		font:   tt,
		faces:  make(map[float64]font.Face),
	}, nil
}

// Update handles input, drives the spawn timer and advances the game.
func (g *Game) Update() error {
	for _, b := range bindings {
		switch {
		case inpututil.IsKeyJustPressed(b.key):
			if err := g.keyDown(b.game); err != nil {
				return err
			}
		case inpututil.IsKeyJustReleased(b.key):
			g.game.KeyUp(b.game)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.game.Click(physics.Vec(float64(x), float64(y)))
	}

	g.spawnTick()

	g.recorder.Reset()
	g.game.Tick(&g.recorder)
	return nil
}

// keyDown dispatches a key press. Enter clicks the middle of the field,
// quit ends the ebiten loop.
func (g *Game) keyDown(k input.Key) error {
	switch k {
	case input.KeyQuit:
		g.logger.Info("window closed", "stats", g.game.Snapshot())
		return ebiten.Termination
	case input.KeyEnter:
		g.game.Click(g.game.Field().Center())
	default:
		g.game.KeyDown(k)
	}
	return nil
}

// spawnTick runs the spawner when its timer is due and reports whether a
// rock was added.
func (g *Game) spawnTick() bool {
	if !g.spawn.due(g.now()) {
		return false
	}
	return g.game.SpawnRock()
}

// spawnTimer fires on wall-clock time, independent of the tick rate.
type spawnTimer struct {
	interval time.Duration
	next     time.Time
}

// due reports whether the timer fired by now. The first call arms it. After a
// stall (window dragged, machine asleep) it fires once and re-arms from now
// rather than catching up.
func (t *spawnTimer) due(now time.Time) bool {
	if t.next.IsZero() {
		t.next = now.Add(t.interval)
		return false
	}
	if now.Before(t.next) {
		return false
	}
	t.next = t.next.Add(t.interval)
	if !t.next.After(now) {
		t.next = now.Add(t.interval)
	}
	return true
}

// Draw replays the recorded frame onto the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	for _, cmd := range g.recorder.Commands() {
		if cmd.Text != "" {
			text.Draw(screen, cmd.Text, g.face(cmd.TextSize), int(cmd.Pos.X), int(cmd.Pos.Y), cmd.Color)
			continue
		}
		g.drawImage(screen, cmd)
	}
}

// Layout keeps the logical screen at field size; ebiten scales the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.FieldWidth, config.FieldHeight
}

func (g *Game) drawImage(screen *ebiten.Image, cmd Command) {
	img := g.image(cmd.Image)
	rect := sourceRect(cmd.SrcCenter, cmd.SrcSize)
	if rect.Empty() || cmd.SrcSize.X <= 0 || cmd.SrcSize.Y <= 0 {
		return
	}
	frame := img.SubImage(rect).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-cmd.SrcSize.X/2, -cmd.SrcSize.Y/2)
	op.GeoM.Scale(cmd.DstSize.X/cmd.SrcSize.X, cmd.DstSize.Y/cmd.SrcSize.Y)
	op.GeoM.Rotate(cmd.Rotation)
	op.GeoM.Translate(cmd.Dst.X, cmd.Dst.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(frame, op)
}

// sourceRect is the pixel rectangle of size centred on center.
func sourceRect(center, size physics.Vector) image.Rectangle {
	minX := int(math.Round(center.X - size.X/2))
	minY := int(math.Round(center.Y - size.Y/2))
	return image.Rect(minX, minY, minX+int(math.Round(size.X)), minY+int(math.Round(size.Y)))
}

// image returns the GPU copy of img, uploading it on first use.
func (g *Game) image(img *asset.Image) *ebiten.Image {
	if e, ok := g.images[img]; ok {
		return e
	}
	e := ebiten.NewImageFromImage(img.Src)
	g.images[img] = e
	return e
}

// face returns a Go Regular face of the given size, falling back to the
// fixed 7x13 face.
func (g *Game) face(size float64) font.Face {
	if f, ok := g.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(g.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		g.logger.Warn("font face", "size", size, "err", err)
		f = basicfont.Face7x13
	}
	g.faces[size] = f
	return f
}

var _ ebiten.Game = (*Game)(nil)
