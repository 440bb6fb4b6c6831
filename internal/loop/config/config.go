// Package config centralizes all tunable game parameters.
package config

import "time"

// Play field in logical units. Positions wrap around both axes.
const (
	FieldWidth  = 800
	FieldHeight = 600
)

// Player
const (
	InitialLives = 3
)

// Spawning
const (
	MaxRocks         = 12          // Rocks on the field before the spawner idles
	SpawnInterval    = time.Second // Real time between spawn attempts
	SafeSpawnRadii   = 6           // Minimum spawn distance from the ship, in ship radii
	BaseMaxRockSpeed = 10          // Tenths of a unit per tick at score 0
	RockSpinStep     = 0.1         // Angular velocity granularity of new rocks
	RockSpinSteps    = 2           // New rocks spin at up to ±RockSpinSteps*RockSpinStep
)

// SpeedBreakpoints raise the maximum rock speed once the score reaches them.
// Entries are sorted by score.
var SpeedBreakpoints = []struct {
	Score    int
	MaxSpeed int
}{
	{20, 13},
	{30, 17},
	{40, 21},
	{50, 25},
	{60, 29},
	{70, 33},
	{80, 37},
	{90, 41},
	{100, 45},
}

// Background
const (
	StartTime    = 0.5 // Initial value of the scroll clock
	DebrisPeriod = 4   // Ticks per unit of debris scroll
)

// HUD
const (
	HUDTextSize  = 24
	HUDTextColor = "White"
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS

	// Max render resolution in terminal cells (160x120 sub-pixels keeps 4:3).
	MaxTermWidth  = 160
	MaxTermHeight = 60
)

// Terminal input
const (
	DefaultKeyDelay = 550 * time.Millisecond // Held after the first press, covers the keyboard repeat delay
	DefaultKeyHold  = 150 * time.Millisecond // Key-up is synthesized after this long without a repeat
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)

// Shutdown
const (
	ShutdownDisplay = 5 * time.Second // How long the shutdown notice stays up before disconnecting
)
