package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// WaveType defines oscillator wave shapes.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a raw wave with an optional linear frequency sweep.
type oscillator struct {
	freq     float64
	sweep    float64 // Hz added per second
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a new oscillator for wave generation.
func NewOscillator(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + int64(duration))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.position) / float64(o.rate)
		o.phase += (o.freq + o.sweep*t) / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and exponential decay to a stream.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	decay    float64 // e-folding rate per second
	rate     beep.SampleRate
}

// NewEnvelope shapes s with the given attack time and decay rate.
func NewEnvelope(s beep.Streamer, attack time.Duration, decay float64, rate beep.SampleRate) beep.Streamer {
	return &envelope{streamer: s, attack: rate.N(attack), decay: decay, rate: rate}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		t := float64(e.position) / float64(e.rate)
		vol *= math.Exp(-t * e.decay)

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

func render(rate beep.SampleRate, s beep.Streamer) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	return buf
}

// MissileSound is a short descending zap.
func MissileSound(rate beep.SampleRate) *beep.Buffer {
	osc := NewOscillator(1400, -4000, 180*time.Millisecond, WaveSquare, rate)
	return render(rate, newVolume(NewEnvelope(osc, 5*time.Millisecond, 12, rate), 0.25))
}

// ThrustSound is a low rumbling noise loop segment.
func ThrustSound(rate beep.SampleRate) *beep.Buffer {
	noise := NewOscillator(0, 0, 2*time.Second, WaveNoise, rate)
	rumble := NewOscillator(55, 0, 2*time.Second, WaveSaw, rate)
	mixed := beep.Mix(newVolume(noise, 0.15), newVolume(rumble, 0.1))
	return render(rate, NewEnvelope(mixed, 60*time.Millisecond, 0, rate))
}

// ExplosionSound is a noise burst with a fast decay.
func ExplosionSound(rate beep.SampleRate) *beep.Buffer {
	noise := NewOscillator(0, 0, 900*time.Millisecond, WaveNoise, rate)
	boom := NewOscillator(90, -60, 900*time.Millisecond, WaveSine, rate)
	mixed := beep.Mix(newVolume(noise, 0.4), newVolume(boom, 0.5))
	return render(rate, NewEnvelope(mixed, 2*time.Millisecond, 5, rate))
}

// Soundtrack is a slow arpeggio over a sine drone.
func Soundtrack(rate beep.SampleRate) *beep.Buffer {
	notes := []float64{110, 164.81, 220, 261.63, 220, 164.81, 146.83, 196}
	step := 500 * time.Millisecond

	parts := make([]beep.Streamer, 0, len(notes))
	for _, f := range notes {
		parts = append(parts, newVolume(NewEnvelope(NewOscillator(f, 0, step, WaveSaw, rate), 20*time.Millisecond, 3, rate), 0.12))
	}

	total := time.Duration(len(notes)) * step
	melody := beep.Seq(parts...)

	drone, err := generators.SineTone(rate, 55)
	if err != nil {
		return render(rate, melody)
	}
	return render(rate, beep.Mix(melody, newVolume(beep.Take(rate.N(total), drone), 0.1)))
}
