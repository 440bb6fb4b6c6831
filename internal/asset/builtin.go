package asset

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"

	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/tomz197/spacerocks/internal/audio"
)

// Frame counts and sizes of the generated sprite sheets.
const (
	ExplosionFrames = 24
	explosionSize   = 128
	shipSize        = 90
	rockSize        = 90
	missileSize     = 10
)

// BuiltinLoader generates every asset procedurally, so the game runs without
// any media files. Paths are the same as for the file and HTTP loaders.
type BuiltinLoader struct {
	out *audio.Output
}

// NewBuiltinLoader creates a procedural loader. Sounds are played through out.
func NewBuiltinLoader(out *audio.Output) *BuiltinLoader {
	return &BuiltinLoader{out: out}
}

// LoadImage renders the image registered for path.
func (l *BuiltinLoader) LoadImage(path string) (*Image, error) {
	var img image.Image
	switch path {
	case ShipImage:
		img = shipSheet()
	case MissileImage:
		img = missileImage()
	case RockImage:
		img = rockImage()
	case ShipExplosionImage:
		img = explosionSheet(colornames.Orange, colornames.Yellow)
	case RockExplosionImage:
		img = explosionSheet(colornames.Deepskyblue, colornames.Lightcyan)
	case SplashImage:
		img = splashImage()
	case NebulaImage:
		img = nebulaImage()
	case DebrisImage:
		img = debrisImage()
	default:
		return nil, fmt.Errorf("load image %q: %w", path, ErrUnknownAsset)
	}
	return &Image{Path: path, Src: img}, nil
}

// LoadSound synthesizes the sound registered for path.
func (l *BuiltinLoader) LoadSound(path string) (Sound, error) {
	rate := l.out.SampleRate()
	switch path {
	case MissileSound:
		return l.out.NewClip(audio.MissileSound(rate)), nil
	case ThrustSound:
		return l.out.NewClip(audio.ThrustSound(rate)), nil
	case ExplosionSound:
		return l.out.NewClip(audio.ExplosionSound(rate)), nil
	case Soundtrack:
		return l.out.NewClip(audio.Soundtrack(rate)), nil
	}
	return nil, fmt.Errorf("load sound %q: %w", path, ErrUnknownAsset)
}

type point struct{ x, y float64 }

// fillPolygon rasterizes a closed polygon into dst, offset by (ox, oy).
func fillPolygon(dst draw.Image, ox, oy float64, pts []point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(ox+pts[0].x), float32(oy+pts[0].y))
	for _, p := range pts[1:] {
		z.LineTo(float32(ox+p.x), float32(oy+p.y))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// circle approximates a circle with n segments.
func circle(cx, cy, r float64, n int) []point {
	pts := make([]point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

// shipSheet has two frames side by side: coasting and thrusting.
// The ship points along +X, which is angle 0.
func shipSheet() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2*shipSize, shipSize))
	hull := []point{{80, 45}, {18, 14}, {30, 45}, {18, 76}}
	cockpit := []point{{62, 45}, {42, 37}, {42, 53}}
	flame := []point{{26, 36}, {4, 45}, {26, 54}}

	for frame := 0; frame < 2; frame++ {
		ox := float64(frame * shipSize)
		if frame == 1 {
			fillPolygon(img, ox, 0, flame, colornames.Orange)
		}
		fillPolygon(img, ox, 0, hull, colornames.Lightsteelblue)
		fillPolygon(img, ox, 0, cockpit, colornames.Steelblue)
	}
	return img
}

func missileImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, missileSize, missileSize))
	fillPolygon(img, 0, 0, circle(5, 5, 4.5, 12), colornames.Lightyellow)
	return img
}

// rockImage is a lumpy polygon with a fixed outline.
func rockImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, rockSize, rockSize))
	rng := rand.New(rand.NewSource(7))

	const n = 14
	pts := make([]point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / n
		r := 34 + rng.Float64()*9
		pts[i] = point{45 + r*math.Cos(a), 45 + r*math.Sin(a)}
	}
	fillPolygon(img, 0, 0, pts, colornames.Slategray)
	for i := 0; i < 4; i++ {
		cx, cy := 25+rng.Float64()*40, 25+rng.Float64()*40
		fillPolygon(img, 0, 0, circle(cx, cy, 4+rng.Float64()*5, 10), colornames.Dimgray)
	}
	return img
}

// explosionSheet has ExplosionFrames frames of a growing, fading fireball.
func explosionSheet(outer, inner color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ExplosionFrames*explosionSize, explosionSize))
	for frame := 0; frame < ExplosionFrames; frame++ {
		t := float64(frame) / float64(ExplosionFrames-1)
		ox := float64(frame * explosionSize)
		fade := 1 - t

		r := 8 + t*54
		fillPolygon(img, ox, 0, circle(64, 64, r, 24), scaleAlpha(outer, fade))
		if r > 10 {
			fillPolygon(img, ox, 0, circle(64, 64, r*0.55, 18), scaleAlpha(inner, fade))
		}
	}
	return img
}

func splashImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{10, 14, 40, 230}), image.Point{}, draw.Src)

	border := image.NewUniform(colornames.Lightsteelblue)
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 400, 3), image.Rect(0, 297, 400, 300),
		image.Rect(0, 0, 3, 300), image.Rect(397, 0, 400, 300),
	} {
		draw.Draw(img, r, border, image.Point{}, draw.Src)
	}

	drawCenteredText(img, "SPACEROCKS", 120, colornames.White)
	drawCenteredText(img, "click to start", 170, colornames.Lightsteelblue)
	drawCenteredText(img, "arrows: turn and thrust   space: fire", 200, colornames.Gray)
	return img
}

func drawCenteredText(dst draw.Image, s string, y int, c color.Color) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P((dst.Bounds().Dx()-w)/2, y),
	}
	d.DrawString(s)
}

// nebulaImage is a dark field with scattered stars and faint clouds.
func nebulaImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{4, 6, 22, 255}), image.Point{}, draw.Src)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 6; i++ {
		cx, cy := rng.Float64()*800, rng.Float64()*600
		fillPolygon(img, 0, 0, circle(cx, cy, 60+rng.Float64()*90, 32), color.RGBA{12, 20, 60, 60})
	}
	for i := 0; i < 300; i++ {
		x, y := rng.Intn(800), rng.Intn(600)
		v := uint8(120 + rng.Intn(136))
		img.Set(x, y, color.RGBA{v, v, v, 255})
	}
	return img
}

// debrisImage is a transparent layer of small brown fragments.
func debrisImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 80; i++ {
		cx, cy := rng.Float64()*640, rng.Float64()*480
		fillPolygon(img, 0, 0, circle(cx, cy, 1+rng.Float64()*2.5, 6), colornames.Saddlebrown)
	}
	return img
}

func scaleAlpha(c color.RGBA, f float64) color.RGBA {
	// color.RGBA is alpha-premultiplied, so every channel scales.
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: uint8(float64(c.A) * f),
	}
}
