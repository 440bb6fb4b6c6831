package object

import (
	"math"

	"github.com/tomz197/spacerocks/internal/asset"
	"github.com/tomz197/spacerocks/internal/physics"
)

// Renderer is the drawing surface objects paint onto. Coordinates are field
// coordinates; implementations scale them to their own output.
type Renderer interface {
	// DrawImage draws the srcSize region of img centred on srcCenter, scaled to
	// dstSize, centred on dst and rotated clockwise by rotation radians.
	// A nil img draws nothing.
	DrawImage(img *asset.Image, srcCenter, srcSize, dst, dstSize physics.Vector, rotation float64)

	// DrawText draws text with its baseline starting at pos.
	DrawText(text string, pos physics.Vector, size float64, color string)
}

// Body is anything that takes part in collisions.
type Body interface {
	Position() physics.Vector
	CollisionRadius() float64
}

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the object for removal on the next compaction.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// ImageInfo describes how an archetype looks and behaves.
type ImageInfo struct {
	Center   physics.Vector // Centre of the first frame in the image
	Size     physics.Vector // Size of one frame
	Radius   float64        // Collision radius
	Lifespan float64        // Ticks before expiry, +Inf for none
	Animated bool           // Frames advance with age instead of rotating
}

var infinite = math.Inf(1)

// Archetypes used by the game.
var (
	ShipInfo      = ImageInfo{Center: physics.Vec(45, 45), Size: physics.Vec(90, 90), Radius: 35, Lifespan: infinite}
	MissileInfo   = ImageInfo{Center: physics.Vec(5, 5), Size: physics.Vec(10, 10), Radius: 3, Lifespan: 50}
	RockInfo      = ImageInfo{Center: physics.Vec(45, 45), Size: physics.Vec(90, 90), Radius: 40, Lifespan: infinite}
	ExplosionInfo = ImageInfo{Center: physics.Vec(64, 64), Size: physics.Vec(128, 128), Radius: 17, Lifespan: 24, Animated: true}
	SplashInfo    = ImageInfo{Center: physics.Vec(200, 150), Size: physics.Vec(400, 300), Lifespan: infinite}
	NebulaInfo    = ImageInfo{Center: physics.Vec(400, 300), Size: physics.Vec(800, 600), Lifespan: infinite}
	DebrisInfo    = ImageInfo{Center: physics.Vec(320, 240), Size: physics.Vec(640, 480), Lifespan: infinite}
)

// drawWrapped draws an image at every position it occupies on the torus,
// so objects crossing an edge show up on both sides.
func drawWrapped(r Renderer, field physics.Field, img *asset.Image, center, size, pos physics.Vector, angle float64) {
	if r == nil || img == nil {
		return
	}

	// Rotated frames can reach out to the half diagonal.
	h := math.Hypot(size.X, size.Y) / 2
	copies := field.WrappedCopies(pos, physics.Vec(h, h))
	for i := 0; i < copies.Count; i++ {
		r.DrawImage(img, center, size, copies.Positions[i], size, angle)
	}
}
