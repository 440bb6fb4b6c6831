package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/spacerocks/internal/app"
	"github.com/tomz197/spacerocks/internal/config"
	"github.com/tomz197/spacerocks/internal/draw"
	"github.com/tomz197/spacerocks/internal/loop/client"
)

func main() {
	logger := app.NewLogger("game")
	if err := run(logger); err != nil {
		logger.SetOutput(os.Stderr)
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	out, err := app.NewOutput(true)
	if err != nil {
		return err
	}
	defer out.Close()

	assets, err := app.LoadAssets(out, logger)
	if err != nil {
		return err
	}
	game := app.NewGame(assets, logger)

	var fe client.Frontend
	switch mode := config.GetEnv("GAME_FRONTEND", "ansi"); mode {
	case "tcell":
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		fe = client.NewTcellFrontend(screen, app.NewKeyTracker())
	case "ansi":
		fd := int(os.Stdin.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("enable raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(fd, oldState)
		}()
		fe = client.NewANSIFrontend(bufio.NewReader(os.Stdin), os.Stdout, draw.DefaultTermSizeFunc, app.NewKeyTracker())
	default:
		return fmt.Errorf("unknown GAME_FRONTEND %q", mode)
	}

	// stderr shares the terminal with the game; only keep logging when it
	// is redirected elsewhere.
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logger.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.NewClient(game, fe, client.ClientOptions{Logger: logger})
	return c.Run(ctx)
}
