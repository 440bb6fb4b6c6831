// Package loop provides the game state machine and its per-frame cycle.
package loop

import (
	"github.com/tomz197/spacerocks/internal/object"
)

// Tick advances the game by one frame and draws it onto r. A nil renderer
// advances the game without drawing.
//
// Order within a frame: background and HUD, ship, rocks, missiles and
// explosions (drawn, moved, expired ones pruned), ship collisions, missile
// collisions, game over check, splash screen.
func (g *Game) Tick(r object.Renderer) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.time++
	g.drawBackground(r)

	g.ship.Draw(r)
	g.ship.Update()

	g.rocks.Advance(r)
	g.ship.Missiles.Advance(r)
	g.explosions.Advance(r)

	if g.groupCollide(g.rocks, g.ship, false) {
		g.shipExplode()
	}
	g.rocksCollideMissiles()

	if g.lives == 0 && g.state == GameStatePlaying {
		g.stop()
	}

	if g.state != GameStatePlaying {
		g.drawSplash(r)
	}
}
