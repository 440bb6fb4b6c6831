package loop

import (
	"math"
	"strconv"

	"github.com/tomz197/spacerocks/internal/loop/config"
	"github.com/tomz197/spacerocks/internal/object"
	"github.com/tomz197/spacerocks/internal/physics"
)

// start leaves the splash screen and begins a fresh game.
func (g *Game) start() {
	g.score = 0
	g.lives = config.InitialLives
	g.maxRockSpeed = config.BaseMaxRockSpeed
	if g.ship.Thrust {
		if s := g.assets.ThrustSound; s != nil {
			s.Pause()
			s.Rewind()
		}
	}
	g.ship.Reset()
	g.rocks.Clear()
	g.explosions.Clear()

	g.state = GameStatePlaying
	if s := g.assets.Soundtrack; s != nil {
		s.Play()
	}
	g.logger.Info("game started")
}

// stop ends the game and returns to the splash screen.
func (g *Game) stop() {
	g.state = GameStateSplash
	if s := g.assets.Soundtrack; s != nil {
		s.Pause()
		s.Rewind()
	}
	g.rocks.Clear()
	g.logger.Info("game over", "score", g.score)
}

// drawBackground draws the nebula, two scrolling debris layers and the HUD.
func (g *Game) drawBackground(r object.Renderer) {
	if r == nil {
		return
	}
	w, h := g.field.Width, g.field.Height
	full := physics.Vec(w, h)

	nebula := object.NebulaInfo
	r.DrawImage(g.assets.Nebula, nebula.Center, nebula.Size, g.field.Center(), full, 0)

	debris := object.DebrisInfo
	scroll := math.Mod(g.time/config.DebrisPeriod, w)
	r.DrawImage(g.assets.Debris, debris.Center, debris.Size, physics.Vec(scroll-w/2, h/2), full, 0)
	r.DrawImage(g.assets.Debris, debris.Center, debris.Size, physics.Vec(scroll+w/2, h/2), full, 0)

	g.drawStats(r)
}

// drawStats draws lives on the left and score on the right.
func (g *Game) drawStats(r object.Renderer) {
	w := g.field.Width
	r.DrawText("Lives:", physics.Vec(50, 50), config.HUDTextSize, config.HUDTextColor)
	r.DrawText("Score:", physics.Vec(w-150, 50), config.HUDTextSize, config.HUDTextColor)
	r.DrawText(strconv.Itoa(g.lives), physics.Vec(50, 80), config.HUDTextSize, config.HUDTextColor)
	r.DrawText(strconv.Itoa(g.score), physics.Vec(w-150, 80), config.HUDTextSize, config.HUDTextColor)
}

// drawSplash draws the splash image in the middle of the field.
func (g *Game) drawSplash(r object.Renderer) {
	if r == nil {
		return
	}
	splash := object.SplashInfo
	r.DrawImage(g.assets.Splash, splash.Center, splash.Size, g.field.Center(), splash.Size, 0)
}
