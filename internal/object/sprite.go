package object

import (
	"github.com/tomz197/spacerocks/internal/asset"
	"github.com/tomz197/spacerocks/internal/physics"
)

// Sprite is a drifting object: rock, missile or explosion.
type Sprite struct {
	Pos      physics.Vector // Unwrapped position
	Vel      physics.Vector // Displacement per tick
	Angle    float64        // Rotation in radians
	AngleVel float64        // Rotation per tick
	Radius   float64        // Collision radius
	Age      int            // Ticks since creation
	Lifespan float64        // Age at which the sprite expires
	Animated bool           // Advance sheet frames instead of rotating

	Image *asset.Image
	Info  ImageInfo

	field     physics.Field
	destroyed bool
}

// NewSprite creates a sprite from an archetype. When sound is set it is
// rewound and played, so every new missile or explosion is heard.
func NewSprite(field physics.Field, pos, vel physics.Vector, angle, angleVel float64, img *asset.Image, info ImageInfo, sound asset.Sound) *Sprite {
	s := &Sprite{
		Pos:      pos,
		Vel:      vel,
		Angle:    angle,
		AngleVel: angleVel,
		Radius:   info.Radius,
		Lifespan: info.Lifespan,
		Animated: info.Animated,
		Image:    img,
		Info:     info,
		field:    field,
	}
	if s.Lifespan == 0 {
		s.Lifespan = infinite
	}

	if sound != nil {
		sound.Rewind()
		sound.Play()
	}
	return s
}

// Update advances the sprite by one tick. Returns true once the sprite has
// reached its lifespan and should be removed.
func (s *Sprite) Update() (expired bool) {
	s.Angle += s.AngleVel
	s.Pos = s.Pos.Add(s.Vel)
	s.Age++
	return float64(s.Age) >= s.Lifespan
}

// Position returns the unwrapped position.
func (s *Sprite) Position() physics.Vector {
	return s.Pos
}

// CollisionRadius returns the collision radius.
func (s *Sprite) CollisionRadius() float64 {
	return s.Radius
}

// WrappedPosition returns the position mapped into the field.
func (s *Sprite) WrappedPosition() physics.Vector {
	return s.field.Wrap(s.Pos)
}

// DistanceTo returns the distance between the wrapped positions of s and b.
func (s *Sprite) DistanceTo(b Body) float64 {
	return s.field.WrappedDistance(s.Pos, b.Position())
}

// CollidesWith reports whether the two bodies overlap.
func (s *Sprite) CollidesWith(b Body) bool {
	return s.DistanceTo(b) < s.Radius+b.CollisionRadius()
}

// MarkDestroyed flags the sprite for removal.
func (s *Sprite) MarkDestroyed() {
	s.destroyed = true
}

// IsDestroyed reports whether the sprite was flagged for removal.
func (s *Sprite) IsDestroyed() bool {
	return s.destroyed
}

// Draw renders the current frame. Animated sprites pick the sheet frame by
// age and are never rotated.
func (s *Sprite) Draw(r Renderer) {
	center := s.Info.Center
	angle := s.Angle
	if s.Animated {
		center.X += float64(s.Age) * s.Info.Size.X
		angle = 0
	}
	drawWrapped(r, s.field, s.Image, center, s.Info.Size, s.Pos, angle)
}
