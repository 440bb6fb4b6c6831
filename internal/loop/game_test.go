package loop

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/spacerocks/internal/asset"
	"github.com/tomz197/spacerocks/internal/audio"
	"github.com/tomz197/spacerocks/internal/input"
	"github.com/tomz197/spacerocks/internal/object"
	"github.com/tomz197/spacerocks/internal/physics"
)

type fakeSound struct {
	plays, pauses, rewinds int
}

func (f *fakeSound) Play() { f.plays++ }
func (f *fakeSound) Pause() { f.pauses++ }
func (f *fakeSound) Rewind() { f.rewinds++ }
func (f *fakeSound) SetVolume(float64) {}

type imageCall struct {
	path string
	dst  physics.Vector
}

type recorder struct {
	images []imageCall
	texts  []string
}

func (r *recorder) DrawImage(img *asset.Image, srcCenter, srcSize, dst, dstSize physics.Vector, rotation float64) {
	path := ""
	if img != nil {
		path = img.Path
	}
	r.images = append(r.images, imageCall{path: path, dst: dst})
}

func (r *recorder) DrawText(text string, pos physics.Vector, size float64, color string) {
	r.texts = append(r.texts, text)
}

func (r *recorder) drew(path string) bool {
	for _, c := range r.images {
		if c.path == path {
			return true
		}
	}
	return false
}

func testAssets() *Assets {
	img := func(path string) *asset.Image { return &asset.Image{Path: path} }
	return &Assets{
		Ship:           img(asset.ShipImage),
		Missile:        img(asset.MissileImage),
		Rock:           img(asset.RockImage),
		ShipExplosion:  img(asset.ShipExplosionImage),
		RockExplosion:  img(asset.RockExplosionImage),
		Splash:         img(asset.SplashImage),
		Nebula:         img(asset.NebulaImage),
		Debris:         img(asset.DebrisImage),
		MissileSound:   &fakeSound{},
		ThrustSound:    &fakeSound{},
		ExplosionSound: &fakeSound{},
		Soundtrack:     &fakeSound{},
	}
}

func newTestGame(t *testing.T) (*Game, *Assets) {
	t.Helper()
	a := testAssets()
	return NewGame(a, WithRand(rand.New(rand.NewSource(1)))), a
}

func startGame(t *testing.T, g *Game) {
	t.Helper()
	g.Click(g.Field().Center())
	if !g.Snapshot().Started() {
		t.Fatal("Expected game to start on a centre click")
	}
}

func addRock(g *Game, pos physics.Vector) *object.Sprite {
	rock := object.NewSprite(g.field, pos, physics.Vector{}, 0, 0, g.assets.Rock, object.RockInfo, nil)
	g.rocks.Add(rock)
	return rock
}

func addMissile(g *Game, pos physics.Vector) *object.Sprite {
	m := object.NewSprite(g.field, pos, physics.Vector{}, 0, 0, g.assets.Missile, object.MissileInfo, nil)
	g.ship.Missiles.Add(m)
	return m
}

func TestNewGame(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.Snapshot()

	if s.Started() || s.Lives != 3 || s.Score != 0 || s.MaxRockSpeed != 10 || s.Time != 0.5 {
		t.Errorf("Unexpected initial stats: %+v", s)
	}
	if g.ship.Pos != g.Field().Center() {
		t.Errorf("Expected ship in the centre, got %v", g.ship.Pos)
	}
}

func TestClickStartsGame(t *testing.T) {
	g, a := newTestGame(t)
	soundtrack := a.Soundtrack.(*fakeSound)

	// The splash box spans (200,150)-(600,450); the edges are outside.
	for _, p := range []physics.Vector{
		physics.Vec(200, 300), physics.Vec(600, 300),
		physics.Vec(400, 150), physics.Vec(400, 450), physics.Vec(10, 10),
	} {
		g.Click(p)
		if g.Snapshot().Started() {
			t.Fatalf("Expected click at %v to be ignored", p)
		}
	}

	g.Click(physics.Vec(201, 449))
	if !g.Snapshot().Started() {
		t.Fatal("Expected click inside the splash to start the game")
	}
	if soundtrack.plays != 1 {
		t.Errorf("Expected soundtrack to play once, got %d", soundtrack.plays)
	}

	// Clicks while playing do nothing.
	g.score = 5
	g.Click(g.Field().Center())
	if g.Snapshot().Score != 5 || soundtrack.plays != 1 {
		t.Error("Expected click while playing to be ignored")
	}
}

func TestStartResetsState(t *testing.T) {
	g, _ := newTestGame(t)
	g.score = 42
	g.lives = 0
	g.maxRockSpeed = 25
	addRock(g, physics.Vec(10, 10))
	addMissile(g, physics.Vec(10, 10))
	g.explode(physics.Vec(10, 10), g.assets.RockExplosion)
	g.ship.Pos = physics.Vec(123, 45)
	g.ship.Vel = physics.Vec(1, -1)
	g.ship.Angle = 2
	g.ship.AngleVel = 0.06

	startGame(t, g)
	s := g.Snapshot()
	if s.Score != 0 || s.Lives != 3 || s.MaxRockSpeed != 10 || s.Rocks != 0 || s.Missiles != 0 || s.Explosions != 0 {
		t.Errorf("Expected fresh game, got %+v", s)
	}
	if g.ship.Pos != g.Field().Center() || g.ship.Vel != (physics.Vector{}) || g.ship.Angle != 0 || g.ship.AngleVel != 0 {
		t.Errorf("Expected ship back at the centre at rest, got pos %v vel %v angle %v spin %v",
			g.ship.Pos, g.ship.Vel, g.ship.Angle, g.ship.AngleVel)
	}
}

func TestShipHitByRock(t *testing.T) {
	g, a := newTestGame(t)
	startGame(t, g)
	rock := addRock(g, g.ship.Pos)

	g.Tick(nil)

	s := g.Snapshot()
	if s.Lives != 2 {
		t.Errorf("Expected lives 3->2, got %d", s.Lives)
	}
	if s.Rocks != 1 || rock.IsDestroyed() {
		t.Error("Expected the rock to survive hitting the ship")
	}
	if s.Score != 0 {
		t.Errorf("Expected score unchanged, got %d", s.Score)
	}
	// One explosion at the rock, one at the ship.
	if s.Explosions != 2 {
		t.Errorf("Expected 2 explosions, got %d", s.Explosions)
	}
	if a.ExplosionSound.(*fakeSound).plays != 2 {
		t.Errorf("Expected explosion sound per explosion, got %d", a.ExplosionSound.(*fakeSound).plays)
	}
	if g.ship.Exploded {
		t.Error("Expected exploded flag to be cleared")
	}

	var shipExplosion bool
	g.explosions.Each(func(e *object.Sprite) {
		if e.Image == a.ShipExplosion {
			shipExplosion = true
		}
	})
	if !shipExplosion {
		t.Error("Expected a ship explosion")
	}
}

func TestShipHitBySeveralRocks(t *testing.T) {
	g, a := newTestGame(t)
	startGame(t, g)
	first := addRock(g, g.ship.Pos)
	second := addRock(g, g.ship.Pos.Add(physics.Vec(30, 0)))

	g.Tick(nil)

	s := g.Snapshot()
	if s.Lives != 2 {
		t.Errorf("Expected one life lost per tick, got lives %d", s.Lives)
	}
	if s.Rocks != 2 || first.IsDestroyed() || second.IsDestroyed() {
		t.Errorf("Expected both rocks to survive, got %d rocks", s.Rocks)
	}
	// One explosion per rock plus the ship's.
	if s.Explosions != 3 {
		t.Errorf("Expected 3 explosions, got %d", s.Explosions)
	}
	var rockExplosions int
	g.explosions.Each(func(e *object.Sprite) {
		if e.Image == a.RockExplosion {
			rockExplosions++
		}
	})
	if rockExplosions != 2 {
		t.Errorf("Expected an explosion at each rock, got %d", rockExplosions)
	}
}

func TestGameOver(t *testing.T) {
	g, a := newTestGame(t)
	startGame(t, g)
	addRock(g, g.ship.Pos)

	for i := 0; i < 10; i++ {
		g.Tick(nil)
		s := g.Snapshot()
		if s.Lives < 0 || s.Lives > 3 {
			t.Fatalf("Lives out of range: %d", s.Lives)
		}
		if s.Lives == 0 && s.Started() {
			t.Fatal("Expected zero lives to end the game in the same tick")
		}
	}

	s := g.Snapshot()
	if s.Lives != 0 || s.Started() || s.Rocks != 0 {
		t.Errorf("Expected game over with rocks cleared, got %+v", s)
	}
	soundtrack := a.Soundtrack.(*fakeSound)
	if soundtrack.pauses != 1 || soundtrack.rewinds != 1 {
		t.Errorf("Expected soundtrack paused and rewound once, got pauses=%d rewinds=%d", soundtrack.pauses, soundtrack.rewinds)
	}
}

func TestMissileExpires(t *testing.T) {
	g, _ := newTestGame(t)
	startGame(t, g)

	g.KeyDown(input.KeySpace)
	for i := 0; i < 49; i++ {
		g.Tick(nil)
	}
	if n := g.Snapshot().Missiles; n != 1 {
		t.Fatalf("Expected missile alive after 49 ticks, got %d", n)
	}

	g.Tick(nil)
	s := g.Snapshot()
	if s.Missiles != 0 {
		t.Errorf("Expected missile gone after 50 ticks, got %d", s.Missiles)
	}
	if s.Score != 0 {
		t.Errorf("Expected score unchanged, got %d", s.Score)
	}
}

func TestBreakpointOnExactTick(t *testing.T) {
	g, _ := newTestGame(t)
	startGame(t, g)
	g.score = 19

	rock := addRock(g, physics.Vec(100, 100))
	m := addMissile(g, physics.Vec(100, 100))

	g.Tick(nil)
	s := g.Snapshot()
	if s.Score != 20 || s.MaxRockSpeed != 13 {
		t.Errorf("Expected score 20 and speed 13, got %d and %d", s.Score, s.MaxRockSpeed)
	}
	if !rock.IsDestroyed() || s.Rocks != 0 {
		t.Error("Expected the rock to be destroyed")
	}
	if !m.IsDestroyed() || s.Missiles != 0 {
		t.Error("Expected the missile to be consumed")
	}
}

func TestMissileConsumption(t *testing.T) {
	g, _ := newTestGame(t)
	startGame(t, g)

	// Two missiles on one rock: both consumed, one point.
	addRock(g, physics.Vec(100, 100))
	addMissile(g, physics.Vec(100, 100))
	addMissile(g, physics.Vec(110, 100))

	// One missile touching two rocks: only one rock is destroyed.
	addRock(g, physics.Vec(600, 100))
	addRock(g, physics.Vec(650, 100))
	addMissile(g, physics.Vec(625, 100))

	g.Tick(nil)
	s := g.Snapshot()
	if s.Score != 2 {
		t.Errorf("Expected score 2, got %d", s.Score)
	}
	if s.Missiles != 0 {
		t.Errorf("Expected all missiles consumed, got %d", s.Missiles)
	}
	if s.Rocks != 1 {
		t.Errorf("Expected 1 surviving rock, got %d", s.Rocks)
	}
}

func TestCollisionAcrossWrappedPositions(t *testing.T) {
	g, _ := newTestGame(t)
	startGame(t, g)

	// Both objects sit on the same spot once wrapped.
	addRock(g, physics.Vec(100+800, 100-600))
	addMissile(g, physics.Vec(100, 100))

	g.Tick(nil)
	if s := g.Snapshot(); s.Score != 1 {
		t.Errorf("Expected the wrapped rock to be hit, score %d", s.Score)
	}
}

func TestMaxRockSpeedMonotone(t *testing.T) {
	g, _ := newTestGame(t)
	prev := g.maxRockSpeed
	for i := 0; i < 150; i++ {
		g.addScore()
		if g.maxRockSpeed < prev {
			t.Fatalf("Speed decreased at score %d: %d -> %d", g.score, prev, g.maxRockSpeed)
		}
		prev = g.maxRockSpeed
		if g.score >= 100 && g.maxRockSpeed != 45 {
			t.Errorf("Expected speed 45 at score %d, got %d", g.score, g.maxRockSpeed)
		}
		if g.score < 20 && g.maxRockSpeed != 10 {
			t.Errorf("Expected base speed at score %d, got %d", g.score, g.maxRockSpeed)
		}
	}
}

func TestSpawnRock(t *testing.T) {
	g, _ := newTestGame(t)

	if g.SpawnRock() {
		t.Fatal("Expected no spawn on the splash screen")
	}

	startGame(t, g)
	for i := 0; i < 1000; i++ {
		g.SpawnRock()
		if n := g.rocks.Len(); n > 12 {
			t.Fatalf("Rock cap exceeded: %d", n)
		}
	}
	if n := g.rocks.Len(); n != 12 {
		t.Errorf("Expected the field to fill up to 12 rocks, got %d", n)
	}

	minDist := 6 * g.ship.Radius
	g.rocks.Each(func(r *object.Sprite) {
		if d := g.field.WrappedDistance(r.Pos, g.ship.Pos); d <= minDist {
			t.Errorf("Rock spawned %f from the ship", d)
		}
		if r.Pos.X != math.Trunc(r.Pos.X) || r.Pos.Y != math.Trunc(r.Pos.Y) || !g.field.Contains(r.Pos) {
			t.Errorf("Expected integer position inside the field, got %v", r.Pos)
		}
		for _, v := range []float64{r.Vel.X, r.Vel.Y} {
			if math.Abs(v) < 0.1-1e-9 || math.Abs(v) > 1.0+1e-9 {
				t.Errorf("Velocity component out of range: %f", v)
			}
		}
		if math.Abs(r.AngleVel) > 0.2+1e-9 {
			t.Errorf("Spin out of range: %f", r.AngleVel)
		}
	})
}

func TestCanSpawnAt(t *testing.T) {
	g, _ := newTestGame(t)
	c := g.Field().Center()

	if g.canSpawnAt(c.Add(physics.Vec(210, 0))) {
		t.Error("Expected exactly 6 radii to be too close")
	}
	if !g.canSpawnAt(c.Add(physics.Vec(211, 0))) {
		t.Error("Expected beyond 6 radii to be allowed")
	}

	// The ship's stored position is unwrapped; it sits at the centre.
	g.ship.Pos = physics.Vec(1200, 300)
	if g.canSpawnAt(physics.Vec(400, 300)) {
		t.Error("Expected the ship's wrapped spot to be rejected")
	}
	if g.canSpawnAt(physics.Vec(400, 300+100)) {
		t.Error("Expected a spot near the ship's wrapped position to be rejected")
	}
	if !g.canSpawnAt(physics.Vec(400+211, 300)) {
		t.Error("Expected beyond 6 radii of the wrapped ship to be allowed")
	}
}

func TestKeys(t *testing.T) {
	g, a := newTestGame(t)
	thrust := a.ThrustSound.(*fakeSound)

	g.KeyDown(input.KeyLeft)
	if g.ship.AngleVel != -0.06 {
		t.Errorf("Expected -0.06 on left, got %f", g.ship.AngleVel)
	}
	g.KeyDown(input.KeyRight)
	if g.ship.AngleVel != 0.06 {
		t.Errorf("Expected 0.06 on right, got %f", g.ship.AngleVel)
	}
	g.KeyUp(input.KeyLeft)
	if g.ship.AngleVel != 0 {
		t.Errorf("Expected 0 after release, got %f", g.ship.AngleVel)
	}

	g.KeyDown(input.KeyUp)
	if !g.ship.Thrust || thrust.rewinds != 1 || thrust.plays != 1 {
		t.Errorf("Expected thrust on with sound restarted, thrust=%v rewinds=%d plays=%d", g.ship.Thrust, thrust.rewinds, thrust.plays)
	}
	g.KeyUp(input.KeyUp)
	if g.ship.Thrust || thrust.pauses != 1 || thrust.rewinds != 2 {
		t.Errorf("Expected thrust off with sound paused and rewound, thrust=%v pauses=%d rewinds=%d", g.ship.Thrust, thrust.pauses, thrust.rewinds)
	}

	g.KeyDown(input.KeyUnknown)
	g.KeyUp(input.KeySpace)
	if g.ship.AngleVel != 0 || g.ship.Thrust || g.ship.Missiles.Len() != 0 {
		t.Error("Expected unknown keys and space release to be ignored")
	}
}

func TestTickDraws(t *testing.T) {
	g, _ := newTestGame(t)

	r := &recorder{}
	g.Tick(r)
	if len(r.images) == 0 || r.images[0].path != asset.NebulaImage {
		t.Fatalf("Expected the nebula first, got %+v", r.images)
	}
	if r.images[1].dst.X != 1.5/4-400 || r.images[2].dst.X != 1.5/4+400 {
		t.Errorf("Unexpected debris positions %v and %v", r.images[1].dst, r.images[2].dst)
	}
	expected := []string{"Lives:", "Score:", "3", "0"}
	for i, s := range expected {
		if i >= len(r.texts) || r.texts[i] != s {
			t.Fatalf("Expected HUD texts %v, got %v", expected, r.texts)
		}
	}
	if !r.drew(asset.ShipImage) {
		t.Error("Expected the ship to be drawn")
	}
	if last := r.images[len(r.images)-1]; last.path != asset.SplashImage {
		t.Errorf("Expected the splash last, got %q", last.path)
	}

	startGame(t, g)
	r = &recorder{}
	g.Tick(r)
	if r.drew(asset.SplashImage) {
		t.Error("Expected no splash while playing")
	}
	if s := g.Snapshot(); s.Time != 2.5 {
		t.Errorf("Expected time 2.5 after two ticks, got %f", s.Time)
	}
}

type failingLoader struct {
	asset.Loader
	fail string
}

func (l failingLoader) LoadImage(path string) (*asset.Image, error) {
	if path == l.fail {
		return nil, asset.ErrUnknownAsset
	}
	return l.Loader.LoadImage(path)
}

func TestLoadAssets(t *testing.T) {
	builtin := asset.NewBuiltinLoader(audio.NewSilentOutput(audio.DefaultSampleRate))

	a, err := LoadAssets(builtin)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a.Ship == nil || a.Debris == nil || a.Soundtrack == nil || a.ThrustSound == nil {
		t.Errorf("Expected every asset loaded, got %+v", a)
	}

	_, err = LoadAssets(failingLoader{Loader: builtin, fail: asset.SplashImage})
	if !errors.Is(err, asset.ErrUnknownAsset) {
		t.Errorf("Expected ErrUnknownAsset, got %v", err)
	}
}
