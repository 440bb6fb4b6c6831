package client

import (
	"fmt"
	"math"
	"time"
)

// controlsHint is shown at the bottom of the splash screen.
const controlsHint = "Arrows/WASD fly  SPACE shoot  ENTER/click start  Q quit"

// drawFrame clears the canvas, lets the game advance and draw onto it, adds
// the terminal overlay and presents the result.
func (c *Client) drawFrame(now time.Time) error {
	c.canvas.Clear()
	c.game.Tick(c.canvas)
	c.drawOverlay(now)
	return c.frontend.Present(c.canvas)
}

// drawOverlay draws the terminal-only messages on top of the game.
func (c *Client) drawOverlay(now time.Time) {
	switch {
	case c.state.shuttingDown():
		c.drawShutdownScreen(now)
	case c.state.isInactive:
		c.drawInactivityScreen(now)
	case !c.game.Snapshot().Started():
		c.drawCentered(c.canvas.TerminalHeight(), controlsHint)
	}
}

// drawInactivityScreen draws the inactivity warning.
func (c *Client) drawInactivityScreen(now time.Time) {
	centerY := c.canvas.TerminalHeight() / 2
	left := c.disconnectAfter - now.Sub(c.state.lastInput)

	c.drawCentered(centerY-2, "INACTIVITY WARNING")
	c.drawCentered(centerY, fmt.Sprintf("Disconnecting in %d seconds.", seconds(left)))
	c.drawCentered(centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notice with a countdown.
func (c *Client) drawShutdownScreen(now time.Time) {
	centerY := c.canvas.TerminalHeight() / 2

	c.drawCentered(centerY-2, "SERVER SHUTTING DOWN")
	c.drawCentered(centerY, fmt.Sprintf("Disconnecting in %d seconds...", seconds(c.state.shutdownAt.Sub(now))))
	c.drawCentered(centerY+2, "Press Q to disconnect now")
}

// drawCentered queues text horizontally centred on a 1-based canvas row.
func (c *Client) drawCentered(row int, text string) {
	col := (c.canvas.TerminalWidth()-len(text))/2 + 1
	c.canvas.Label(col, row, text)
}

// seconds rounds a remaining duration up to whole seconds, never below 0.
func seconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 0)
}
