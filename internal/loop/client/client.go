package client

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spacerocks/internal/draw"
	"github.com/tomz197/spacerocks/internal/input"
	"github.com/tomz197/spacerocks/internal/loop"
	"github.com/tomz197/spacerocks/internal/loop/config"
)

// Client runs one game in one terminal: it schedules frames and spawns,
// feeds input to the game and presents the result through a Frontend.
type Client struct {
	game     *loop.Game
	frontend Frontend
	state    *ClientState
	canvas   *draw.Canvas
	logger   *log.Logger

	warnAfter       time.Duration
	disconnectAfter time.Duration
	shutdownNotice  time.Duration
}

// ClientOptions configures the client.
type ClientOptions struct {
	Logger *log.Logger

	// InactivityWarn and InactivityDisconnect bound how long a session may
	// go without input. Zero disables the check.
	InactivityWarn       time.Duration
	InactivityDisconnect time.Duration

	// ShutdownNotice is how long the shutdown message stays up after the
	// context is cancelled. Zero ends the session immediately.
	ShutdownNotice time.Duration
}

// NewClient creates a client playing game through frontend.
func NewClient(game *loop.Game, frontend Frontend, opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	field := game.Field()
	return &Client{
		game:            game,
		frontend:        frontend,
		state:           NewClientState(time.Now()),
		canvas:          draw.NewScaledCanvas(1, 1, field.Width, field.Height),
		logger:          logger,
		warnAfter:       opts.InactivityWarn,
		disconnectAfter: opts.InactivityDisconnect,
		shutdownNotice:  opts.ShutdownNotice,
	}
}

// Run starts the client loop. Blocks until the player quits, the input ends,
// the session goes idle for too long or ctx is cancelled (after the shutdown
// notice). Terminal write errors end the session and are returned.
func (c *Client) Run(ctx context.Context) error {
	if err := c.frontend.Init(); err != nil {
		return err
	}
	defer c.frontend.Close()

	frame := time.NewTicker(config.ClientTargetFrameTime)
	defer frame.Stop()
	spawn := time.NewTicker(config.SpawnInterval)
	defer spawn.Stop()

	done := ctx.Done()
	for c.state.Running {
		select {
		case <-done:
			done = nil
			c.beginShutdown(time.Now())

		case <-spawn.C:
			c.game.SpawnRock()

		case now := <-frame.C:
			c.processInput(now)
			c.updateShutdown(now)
			if !c.state.Running {
				break
			}
			c.updateScreen()
			if err := c.drawFrame(now); err != nil {
				c.logger.Error("write frame", "err", err)
				return err
			}
		}
	}

	c.logger.Info("session ended", "reason", c.state.endReason, "stats", c.game.Snapshot())
	return nil
}

// processInput polls the frontend and dispatches events to the game.
func (c *Client) processInput(now time.Time) {
	events, ok := c.frontend.Events(now)
	if !ok {
		c.end("input closed")
		return
	}

	for _, ev := range events {
		c.dispatch(ev)
	}

	if len(events) > 0 {
		c.state.lastInput = now
		c.state.isInactive = false
		return
	}

	idle := now.Sub(c.state.lastInput)
	if c.disconnectAfter > 0 && idle > c.disconnectAfter {
		c.end("inactive")
	} else if c.warnAfter > 0 && idle > c.warnAfter {
		c.state.isInactive = true
	}
}

// dispatch applies a single event. Enter stands in for a click in the
// middle of the field, which is where the splash screen sits.
func (c *Client) dispatch(ev input.Event) {
	switch ev.Type {
	case input.EventKeyDown:
		switch ev.Key {
		case input.KeyQuit:
			c.end("quit")
		case input.KeyEnter:
			c.game.Click(c.game.Field().Center())
		default:
			c.game.KeyDown(ev.Key)
		}
	case input.EventKeyUp:
		c.game.KeyUp(ev.Key)
	case input.EventClick:
		c.game.Click(c.canvas.TerminalToLogical(ev.Col, ev.Row))
	}
}

// end stops the loop, remembering why.
func (c *Client) end(reason string) {
	if !c.state.Running {
		return
	}
	c.state.Running = false
	c.state.endReason = reason
}

// beginShutdown starts the shutdown countdown, or ends the session right
// away when no notice is configured.
func (c *Client) beginShutdown(now time.Time) {
	if c.shutdownNotice <= 0 {
		c.end("shutdown")
		return
	}
	c.state.shutdownAt = now.Add(c.shutdownNotice)
}

func (c *Client) updateShutdown(now time.Time) {
	if c.state.shuttingDown() && !now.Before(c.state.shutdownAt) {
		c.end("shutdown")
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.frontend.Size()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
}

// clampTermSize fits the field into the terminal keeping its aspect ratio
// (one cell is two square sub-pixels), clamps to the max render resolution
// and computes the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(min(termWidth, config.MaxTermWidth), 1)
	renderHeight = max(min(termHeight, config.MaxTermHeight), 1)

	if w := renderHeight * 2 * config.FieldWidth / config.FieldHeight; w < renderWidth {
		renderWidth = max(w, 1)
	} else {
		renderHeight = max(renderWidth*config.FieldHeight/(2*config.FieldWidth), 1)
	}

	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}
