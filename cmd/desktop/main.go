package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/spacerocks/internal/app"
	"github.com/tomz197/spacerocks/internal/desktop"
	"github.com/tomz197/spacerocks/internal/loop/config"
)

func main() {
	logger := app.NewLogger("desktop")

	out, err := app.NewOutput(true)
	if err != nil {
		logger.Fatal("failed to open audio", "err", err)
	}
	defer out.Close()

	assets, err := app.LoadAssets(out, logger)
	if err != nil {
		logger.Fatal("failed to load assets", "err", err)
	}

	g, err := desktop.New(app.NewGame(assets, logger), logger)
	if err != nil {
		logger.Fatal("failed to create window", "err", err)
	}

	ebiten.SetWindowSize(config.FieldWidth, config.FieldHeight)
	ebiten.SetWindowTitle("Spacerocks")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.ClientTargetFPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
}
