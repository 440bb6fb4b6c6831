// Package asset loads the images and sounds the game draws and plays.
package asset

import (
	"errors"
	"image"
)

// Asset paths, relative to the asset root. They match the layout of the
// classic CodeSkulptor media host so that ASSET_URL can point straight at it.
const (
	ShipImage          = "lathrop/double_ship.png"
	MissileImage       = "lathrop/shot2.png"
	RockImage          = "lathrop/asteroid_blue.png"
	ShipExplosionImage = "lathrop/explosion_alpha.png"
	RockExplosionImage = "lathrop/explosion_blue2.png"
	SplashImage        = "lathrop/splash.png"
	NebulaImage        = "lathrop/nebula_blue.s2014.png"
	DebrisImage        = "lathrop/debris3_brown.png"

	MissileSound   = "sounddogs/missile.mp3"
	ThrustSound    = "sounddogs/thrust.mp3"
	ExplosionSound = "sounddogs/explosion.mp3"
	Soundtrack     = "sounddogs/soundtrack.mp3"
)

// DefaultMediaHost is where the original game's media lives.
const DefaultMediaHost = "http://commondatastorage.googleapis.com/codeskulptor-assets/"

// ErrUnknownAsset is returned when a loader has no asset for the given path.
var ErrUnknownAsset = errors.New("unknown asset")

// Image is an opaque image handle. Renderers read Src; the game never does.
type Image struct {
	Path string
	Src  image.Image
}

// Sound is a playable sound handle.
type Sound interface {
	Play()
	Pause()
	Rewind()
	SetVolume(level float64)
}

// Loader resolves asset paths into handles. Loading happens once at startup.
type Loader interface {
	LoadImage(path string) (*Image, error)
	LoadSound(path string) (Sound, error)
}
