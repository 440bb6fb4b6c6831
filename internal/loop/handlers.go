package loop

import (
	"github.com/tomz197/spacerocks/internal/input"
	"github.com/tomz197/spacerocks/internal/object"
	"github.com/tomz197/spacerocks/internal/physics"
)

// KeyDown handles a key press. Unknown keys are ignored.
func (g *Game) KeyDown(k input.Key) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch k {
	case input.KeyLeft:
		g.ship.AngleVel = -object.ShipTurnSpeed
	case input.KeyRight:
		g.ship.AngleVel = object.ShipTurnSpeed
	case input.KeyUp:
		g.ship.Thrust = true
		if s := g.assets.ThrustSound; s != nil {
			s.Rewind()
			s.Play()
		}
	case input.KeySpace:
		g.ship.Shoot()
	}
}

// KeyUp handles a key release. Unknown keys are ignored.
func (g *Game) KeyUp(k input.Key) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch k {
	case input.KeyLeft, input.KeyRight:
		g.ship.AngleVel = 0
	case input.KeyUp:
		g.ship.Thrust = false
		if s := g.assets.ThrustSound; s != nil {
			s.Pause()
			s.Rewind()
		}
	}
}

// Click handles a mouse click in field coordinates. It only matters on the
// splash screen, where a click inside the splash image starts a game.
func (g *Game) Click(p physics.Vector) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == GameStatePlaying || !g.splashContains(p) {
		return
	}
	g.start()
}

// splashContains reports whether p lies strictly inside the splash image.
func (g *Game) splashContains(p physics.Vector) bool {
	center := g.field.Center()
	half := object.SplashInfo.Size.Scale(0.5)
	return center.X-half.X < p.X && p.X < center.X+half.X &&
		center.Y-half.Y < p.Y && p.Y < center.Y+half.Y
}
