package object

import (
	"github.com/tomz197/spacerocks/internal/asset"
	"github.com/tomz197/spacerocks/internal/physics"
)

// Ship handling, per tick.
const (
	ShipDrag       = 0.991 // Velocity kept each tick
	ShipThrust     = 17.0  // Forward vector is divided by this while thrusting
	ShipTurnSpeed  = 0.06  // Radians per tick while a turn key is held
	MissileSpeed   = 2.5   // Added to the ship velocity along its heading
	MissileVolume  = 0.5
	shipStartAngle = 0
)

// Ship is the player-controlled spaceship. It is never destroyed, only reset.
type Ship struct {
	Pos      physics.Vector // Unwrapped position
	Vel      physics.Vector // Displacement per tick
	Angle    float64        // Heading in radians (0 = pointing right)
	AngleVel float64        // Set directly by the turn keys
	Thrust   bool           // Engine on
	Exploded bool           // Set while the ship's explosion is being spawned
	Radius   float64

	Missiles *Group

	Image        *asset.Image
	Info         ImageInfo
	missileImage *asset.Image
	missileSound asset.Sound
	field        physics.Field
}

// NewShip creates a ship resting at the centre of the field.
func NewShip(field physics.Field, img, missileImage *asset.Image, missileSound asset.Sound) *Ship {
	if missileSound != nil {
		missileSound.SetVolume(MissileVolume)
	}
	s := &Ship{
		Radius:       ShipInfo.Radius,
		Missiles:     NewGroup(),
		Image:        img,
		Info:         ShipInfo,
		missileImage: missileImage,
		missileSound: missileSound,
		field:        field,
	}
	s.Reset()
	return s
}

// Reset puts the ship back at the centre at rest and drops its missiles.
func (s *Ship) Reset() {
	s.Pos = s.field.Center()
	s.Vel = physics.Vector{}
	s.Angle = shipStartAngle
	s.AngleVel = 0
	s.Thrust = false
	s.Exploded = false
	s.Missiles.Clear()
}

// Update rotates and moves the ship, then applies drag and thrust.
func (s *Ship) Update() {
	s.Angle += s.AngleVel
	s.Pos = s.Pos.Add(s.Vel)
	s.Vel = s.Vel.Scale(ShipDrag)
	if s.Thrust {
		s.Vel = s.Vel.Add(s.Forward().Scale(1 / ShipThrust))
	}
}

// Forward returns the unit heading vector.
func (s *Ship) Forward() physics.Vector {
	return physics.FromAngle(s.Angle)
}

// Shoot fires a missile from the nose of the ship.
func (s *Ship) Shoot() *Sprite {
	forward := s.Forward()
	pos := s.Pos.Add(forward.Scale(s.Info.Size.X / 2))
	vel := s.Vel.Add(forward.Scale(MissileSpeed))

	m := NewSprite(s.field, pos, vel, s.Angle, 0, s.missileImage, MissileInfo, s.missileSound)
	s.Missiles.Add(m)
	return m
}

// Position returns the unwrapped position.
func (s *Ship) Position() physics.Vector {
	return s.Pos
}

// CollisionRadius returns the collision radius.
func (s *Ship) CollisionRadius() float64 {
	return s.Radius
}

// WrappedPosition returns the position mapped into the field.
func (s *Ship) WrappedPosition() physics.Vector {
	return s.field.Wrap(s.Pos)
}

// Draw renders the ship; the second frame of the sheet shows the engine flame.
func (s *Ship) Draw(r Renderer) {
	center := physics.Vec(s.Info.Size.X/2, s.Info.Center.Y)
	if s.Thrust {
		center.X += s.Info.Size.X
	}
	drawWrapped(r, s.field, s.Image, center, s.Info.Size, s.Pos, s.Angle)
}
