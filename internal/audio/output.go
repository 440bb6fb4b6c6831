// Package audio implements game sound handles on top of beep.
package audio

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// DefaultSampleRate is the rate every clip is resampled to.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrUnsupportedFormat is returned when a sound file has an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Output mixes all playing clips. It either feeds the system speaker or
// nothing at all (silent mode, used for remote sessions and tests).
type Output struct {
	rate   beep.SampleRate
	mixer  *beep.Mixer
	lock   func()
	unlock func()
	silent bool
}

// NewSpeakerOutput initializes the speaker and starts streaming the mixer into it.
// The speaker can only be initialized once per process.
func NewSpeakerOutput(rate beep.SampleRate) (*Output, error) {
	if err := speaker.Init(rate, rate.N(time.Millisecond*100)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	o := &Output{
		rate:   rate,
		mixer:  &beep.Mixer{},
		lock:   speaker.Lock,
		unlock: speaker.Unlock,
	}
	speaker.Play(o.mixer)
	return o, nil
}

// NewSilentOutput creates an output that tracks clip state but never reaches a device.
func NewSilentOutput(rate beep.SampleRate) *Output {
	var mu sync.Mutex
	return &Output{
		rate:   rate,
		mixer:  &beep.Mixer{},
		lock:   mu.Lock,
		unlock: mu.Unlock,
		silent: true,
	}
}

// SampleRate returns the output sample rate.
func (o *Output) SampleRate() beep.SampleRate {
	return o.rate
}

// Silent reports whether the output is disconnected from any device.
func (o *Output) Silent() bool {
	return o.silent
}

// Active returns the number of streamers currently queued in the mixer.
func (o *Output) Active() int {
	o.lock()
	defer o.unlock()
	return o.mixer.Len()
}

// Close stops every clip.
func (o *Output) Close() {
	o.lock()
	defer o.unlock()
	o.mixer.Clear()
}

// Decode reads a wav or mp3 stream (chosen by the file extension of name)
// into a buffer at the output sample rate.
func (o *Output) Decode(name string, r io.ReadCloser) (*beep.Buffer, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	switch strings.ToLower(path.Ext(name)) {
	case ".wav":
		streamer, format, err = wav.Decode(r)
	case ".mp3":
		streamer, format, err = mp3.Decode(r)
	default:
		r.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	defer streamer.Close()

	var source beep.Streamer = streamer
	if format.SampleRate != o.rate {
		source = beep.Resample(4, format.SampleRate, o.rate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: o.rate, NumChannels: 2, Precision: 2})
	buf.Append(source)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return buf, nil
}

// NewClip wraps a buffer into a sound handle played through this output.
func (o *Output) NewClip(buf *beep.Buffer) *Clip {
	seeker := buf.Streamer(0, buf.Len())
	ctrl := &beep.Ctrl{Streamer: seeker, Paused: true}
	return &Clip{
		out:    o,
		seeker: seeker,
		ctrl:   ctrl,
		volume: newVolume(ctrl, 1),
	}
}
