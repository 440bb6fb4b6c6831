// Package app builds the pieces every host binary shares: the logger, the
// audio output and a game with its assets, all configured from the environment.
package app

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spacerocks/internal/asset"
	"github.com/tomz197/spacerocks/internal/audio"
	"github.com/tomz197/spacerocks/internal/config"
	"github.com/tomz197/spacerocks/internal/input"
	"github.com/tomz197/spacerocks/internal/loop"
	loopconfig "github.com/tomz197/spacerocks/internal/loop/config"
)

// NewLogger creates a stderr logger. The level comes from LOG_LEVEL.
func NewLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		logger.Warn("invalid LOG_LEVEL, using info", "err", err)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// NewOutput opens the speaker when GAME_AUDIO is set (defaulting to
// enabled), otherwise a silent output.
func NewOutput(enabledByDefault bool) (*audio.Output, error) {
	if !config.GetEnvBool("GAME_AUDIO", enabledByDefault) {
		return audio.NewSilentOutput(audio.DefaultSampleRate), nil
	}
	out, err := audio.NewSpeakerOutput(audio.DefaultSampleRate)
	if err != nil {
		return nil, fmt.Errorf("open speaker: %w", err)
	}
	return out, nil
}

// LoadAssets resolves the game's assets from ASSET_DIR, ASSET_URL or the
// builtin pack, in that order.
func LoadAssets(out *audio.Output, logger *log.Logger) (*loop.Assets, error) {
	dir := config.GetEnv("ASSET_DIR", "")
	url := config.GetEnv("ASSET_URL", "")
	loader, err := asset.NewLoader(dir, url, out)
	if err != nil {
		return nil, err
	}
	logger.Debug("loading assets", "loader", fmt.Sprintf("%T", loader), "dir", dir, "url", url)
	return loop.LoadAssets(loader)
}

// NewGame creates a game. GAME_SEED fixes the random source, 0 seeds from
// the clock.
func NewGame(assets *loop.Assets, logger *log.Logger) *loop.Game {
	opts := []loop.Option{loop.WithLogger(logger)}
	if seed := config.GetEnvInt("GAME_SEED", 0); seed != 0 {
		opts = append(opts, loop.WithRand(rand.New(rand.NewSource(int64(seed)))))
	}
	return loop.NewGame(assets, opts...)
}

// NewKeyTracker creates the key-up synthesizer for terminal hosts, tuned
// by KEY_DELAY and KEY_HOLD.
func NewKeyTracker() *input.Tracker {
	return input.NewTracker(
		config.GetEnvDuration("KEY_DELAY", loopconfig.DefaultKeyDelay),
		config.GetEnvDuration("KEY_HOLD", loopconfig.DefaultKeyHold),
	)
}
