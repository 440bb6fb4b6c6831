package audio

import (
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Clip is a rewindable, pausable sound backed by an in-memory buffer.
// It satisfies asset.Sound.
type Clip struct {
	out    *Output
	seeker beep.StreamSeeker
	ctrl   *beep.Ctrl
	volume *effects.Volume
	queued bool // streamer is currently in the output mixer
}

// Play resumes the clip from its current position, restarting it if it already finished.
func (c *Clip) Play() {
	c.out.lock()
	defer c.out.unlock()

	if c.seeker.Position() >= c.seeker.Len() {
		_ = c.seeker.Seek(0)
	}
	c.ctrl.Paused = false

	if !c.queued {
		c.queued = true
		c.out.mixer.Add(beep.Seq(c.volume, beep.Callback(func() {
			// Runs inside the mixer, which already holds the output lock.
			c.queued = false
		})))
	}
}

// Pause stops playback, keeping the current position.
func (c *Clip) Pause() {
	c.out.lock()
	defer c.out.unlock()
	c.ctrl.Paused = true
}

// Rewind moves the play position back to the start.
func (c *Clip) Rewind() {
	c.out.lock()
	defer c.out.unlock()
	_ = c.seeker.Seek(0)
}

// SetVolume sets a linear volume level; 0 mutes the clip.
func (c *Clip) SetVolume(level float64) {
	c.out.lock()
	defer c.out.unlock()
	applyVolume(c.volume, level)
}

// Playing reports whether the clip is queued and not paused.
func (c *Clip) Playing() bool {
	c.out.lock()
	defer c.out.unlock()
	return c.queued && !c.ctrl.Paused
}

// Position returns the current sample position.
func (c *Clip) Position() int {
	c.out.lock()
	defer c.out.unlock()
	return c.seeker.Position()
}

// newVolume creates a volume effect safely.
// math.Log2(0) is -Inf, so 0 volume becomes silent instead.
func newVolume(s beep.Streamer, level float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	applyVolume(v, level)
	return v
}

func applyVolume(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Volume = 0
		v.Silent = true
		return
	}
	v.Volume = math.Log2(level)
	v.Silent = false
}
