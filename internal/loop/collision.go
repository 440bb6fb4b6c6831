package loop

import (
	"github.com/tomz197/spacerocks/internal/asset"
	"github.com/tomz197/spacerocks/internal/loop/config"
	"github.com/tomz197/spacerocks/internal/object"
	"github.com/tomz197/spacerocks/internal/physics"
)

// groupCollide tests every live member of group against b. Each hit spawns a
// rock explosion at the member; consumed members are removed. Returns true if
// any member collided.
func (g *Game) groupCollide(group *object.Group, b object.Body, consume bool) bool {
	hit := false
	group.Each(func(s *object.Sprite) {
		if g.collideMember(s, b, consume) {
			hit = true
		}
	})
	group.Compact()
	return hit
}

// collideMember resolves a single member against b.
func (g *Game) collideMember(s *object.Sprite, b object.Body, consume bool) bool {
	if !s.CollidesWith(b) {
		return false
	}
	g.explode(s.Pos, g.assets.RockExplosion)
	if consume {
		s.MarkDestroyed()
	}
	return true
}

// rocksCollideMissiles destroys every rock hit by at least one missile. All
// missiles touching the rock are consumed and each destroyed rock scores one
// point.
//
// Missiles are indexed in a spatial grid so each rock only tests its
// neighbours. The cell size exceeds the largest rock-missile interaction
// distance, so the result matches testing every pair.
func (g *Game) rocksCollideMissiles() {
	missiles := g.ship.Missiles.Members()
	if len(missiles) == 0 {
		return
	}

	g.grid.Clear()
	for i, m := range missiles {
		g.grid.Insert(m.Pos, i)
	}

	g.rocks.Each(func(rock *object.Sprite) {
		hit := false
		g.grid.QueryAround(rock.Pos, func(i int) bool {
			m := missiles[i]
			if !m.IsDestroyed() && g.collideMember(m, rock, true) {
				hit = true
			}
			return false
		})
		if hit {
			rock.MarkDestroyed()
			g.addScore()
		}
	})

	g.ship.Missiles.Compact()
	g.rocks.Compact()
}

// addScore adds a point and raises the rock speed cap at breakpoints.
func (g *Game) addScore() {
	g.score++
	g.maxRockSpeed = maxRockSpeedFor(g.score, g.maxRockSpeed)
}

// maxRockSpeedFor returns the speed cap once score is reached. Scores between
// breakpoints keep the current cap.
func maxRockSpeedFor(score, current int) int {
	for _, bp := range config.SpeedBreakpoints {
		if score == bp.Score {
			return bp.MaxSpeed
		}
	}
	return current
}

// shipExplode costs a life and leaves an explosion where the ship is.
func (g *Game) shipExplode() {
	if g.lives > 0 {
		g.lives--
	}
	g.logger.Debug("ship hit", "lives", g.lives)

	g.ship.Exploded = true
	g.explode(g.ship.Pos, g.assets.ShipExplosion)
	g.ship.Exploded = false
}

// explode adds an explosion at pos.
func (g *Game) explode(pos physics.Vector, img *asset.Image) {
	e := object.NewSprite(g.field, pos, physics.Vector{}, 0, 0, img, object.ExplosionInfo, g.assets.ExplosionSound)
	g.explosions.Add(e)
}
