package loop

import (
	"github.com/tomz197/spacerocks/internal/loop/config"
	"github.com/tomz197/spacerocks/internal/object"
	"github.com/tomz197/spacerocks/internal/physics"
)

// SpawnRock tries to add one rock. Hosts call it on a fixed real-time interval
// (config.SpawnInterval). It does nothing on the splash screen or when the
// field is full, and drops the rock without retrying if it would appear too
// close to the ship. Returns true if a rock was added.
func (g *Game) SpawnRock() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GameStatePlaying || g.rocks.Len() >= config.MaxRocks {
		return false
	}

	pos := physics.Vec(
		float64(g.rng.Intn(config.FieldWidth)),
		float64(g.rng.Intn(config.FieldHeight)),
	)
	vel := physics.Vec(g.randomRockSpeed(), g.randomRockSpeed())
	spin := config.RockSpinStep * float64(g.uniformInt(-config.RockSpinSteps, config.RockSpinSteps))

	if !g.canSpawnAt(pos) {
		g.logger.Debug("rock spawn rejected", "x", pos.X, "y", pos.Y)
		return false
	}

	g.rocks.Add(object.NewSprite(g.field, pos, vel, 0, spin, g.assets.Rock, object.RockInfo, nil))
	g.logger.Debug("rock spawned", "x", pos.X, "y", pos.Y, "rocks", g.rocks.Len())
	return true
}

// canSpawnAt reports whether pos is far enough from the ship.
func (g *Game) canSpawnAt(pos physics.Vector) bool {
	return g.field.WrappedDistance(pos, g.ship.Pos) > config.SafeSpawnRadii*g.ship.Radius
}

// randomRockSpeed returns a random per-axis speed with random sign, up to
// the current cap (in tenths).
func (g *Game) randomRockSpeed() float64 {
	sign := 1.0
	if g.rng.Intn(2) == 0 {
		sign = -1.0
	}
	return sign * float64(g.uniformInt(1, g.maxRockSpeed)) / 10
}

// uniformInt returns a uniform integer in [lo, hi].
func (g *Game) uniformInt(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}
