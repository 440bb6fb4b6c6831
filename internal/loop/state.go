package loop

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spacerocks/internal/asset"
	"github.com/tomz197/spacerocks/internal/loop/config"
	"github.com/tomz197/spacerocks/internal/object"
	"github.com/tomz197/spacerocks/internal/physics"
)

// GameState represents the current game phase.
type GameState int

const (
	GameStateSplash  GameState = iota // Title screen, waiting for a click
	GameStatePlaying                  // Active gameplay
)

func (s GameState) String() string {
	if s == GameStatePlaying {
		return "playing"
	}
	return "splash"
}

// gridCellSize bounds the largest rock-missile interaction distance.
const gridCellSize = 100

// Assets holds every image and sound the game uses.
type Assets struct {
	Ship          *asset.Image
	Missile       *asset.Image
	Rock          *asset.Image
	ShipExplosion *asset.Image
	RockExplosion *asset.Image
	Splash        *asset.Image
	Nebula        *asset.Image
	Debris        *asset.Image

	MissileSound   asset.Sound
	ThrustSound    asset.Sound
	ExplosionSound asset.Sound
	Soundtrack     asset.Sound
}

// LoadAssets resolves every asset through l. Any failure is returned and
// should be treated as fatal.
func LoadAssets(l asset.Loader) (*Assets, error) {
	a := &Assets{}

	images := []struct {
		path string
		dst  **asset.Image
	}{
		{asset.ShipImage, &a.Ship},
		{asset.MissileImage, &a.Missile},
		{asset.RockImage, &a.Rock},
		{asset.ShipExplosionImage, &a.ShipExplosion},
		{asset.RockExplosionImage, &a.RockExplosion},
		{asset.SplashImage, &a.Splash},
		{asset.NebulaImage, &a.Nebula},
		{asset.DebrisImage, &a.Debris},
	}
	for _, img := range images {
		loaded, err := l.LoadImage(img.path)
		if err != nil {
			return nil, err
		}
		*img.dst = loaded
	}

	sounds := []struct {
		path string
		dst  *asset.Sound
	}{
		{asset.MissileSound, &a.MissileSound},
		{asset.ThrustSound, &a.ThrustSound},
		{asset.ExplosionSound, &a.ExplosionSound},
		{asset.Soundtrack, &a.Soundtrack},
	}
	for _, snd := range sounds {
		loaded, err := l.LoadSound(snd.path)
		if err != nil {
			return nil, err
		}
		*snd.dst = loaded
	}

	return a, nil
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source used by the spawner.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithLogger sets the logger for state transitions.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// Game owns the ship, the rock and explosion groups, and the score.
// Every exported method is safe for concurrent use.
type Game struct {
	mu sync.Mutex

	field      physics.Field
	assets     *Assets
	ship       *object.Ship
	rocks      *object.Group
	explosions *object.Group
	grid       *physics.SpatialGrid

	state        GameState
	lives        int
	score        int
	maxRockSpeed int
	time         float64 // Scroll clock, drives the debris layers only

	rng    *rand.Rand
	logger *log.Logger
}

// NewGame creates a game on the splash screen.
func NewGame(assets *Assets, opts ...Option) *Game {
	if assets == nil {
		assets = &Assets{}
	}
	field := physics.Field{Width: config.FieldWidth, Height: config.FieldHeight}

	g := &Game{
		field:        field,
		assets:       assets,
		ship:         object.NewShip(field, assets.Ship, assets.Missile, assets.MissileSound),
		rocks:        object.NewGroup(),
		explosions:   object.NewGroup(),
		grid:         physics.NewSpatialGrid(field, gridCellSize),
		state:        GameStateSplash,
		lives:        config.InitialLives,
		maxRockSpeed: config.BaseMaxRockSpeed,
		time:         config.StartTime,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	return g
}

// Field returns the play field.
func (g *Game) Field() physics.Field {
	return g.field
}

// Stats is a read-only view of the game state.
type Stats struct {
	State        GameState
	Score        int
	Lives        int
	MaxRockSpeed int
	Rocks        int
	Missiles     int
	Explosions   int
	Time         float64
}

// Started reports whether a game is in progress.
func (s Stats) Started() bool {
	return s.State == GameStatePlaying
}

func (s Stats) String() string {
	return fmt.Sprintf("%s score=%d lives=%d rocks=%d", s.State, s.Score, s.Lives, s.Rocks)
}

// Snapshot returns the current stats.
func (g *Game) Snapshot() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Stats{
		State:        g.state,
		Score:        g.score,
		Lives:        g.lives,
		MaxRockSpeed: g.maxRockSpeed,
		Rocks:        g.rocks.Len(),
		Missiles:     g.ship.Missiles.Len(),
		Explosions:   g.explosions.Len(),
		Time:         g.time,
	}
}
