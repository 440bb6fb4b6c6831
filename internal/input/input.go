// Package input turns raw terminal bytes and tcell events into key and click events.
package input

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// Key identifies a game key.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeySpace
	KeyEnter
	KeyQuit
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeySpace:
		return "space"
	case KeyEnter:
		return "enter"
	case KeyQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// momentary keys act on each press and are never held.
func (k Key) momentary() bool {
	return k == KeySpace || k == KeyEnter || k == KeyQuit
}

// EventType tells key presses, key releases and clicks apart.
type EventType int

const (
	EventKeyDown EventType = iota
	EventKeyUp
	EventClick
)

// Event is a single input event. Col and Row are zero-based terminal cells
// and are only set for clicks.
type Event struct {
	Type EventType
	Key  Key
	Col  int
	Row  int
}

// Stream delivers input bytes via a channel and turns them into events.
type Stream struct {
	ch      chan byte
	done    chan struct{}
	stop    sync.Once
	closed  bool
	pending []byte // incomplete escape sequence carried to the next poll
	keys    *Tracker
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.Reader, keys *Tracker) *Stream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	s := &Stream{
		ch:   make(chan byte, 128),
		done: make(chan struct{}),
		keys: keys,
	}
	go func() {
		defer close(s.ch)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop ends the stream. The reader goroutine exits after its next byte
// instead of blocking on a full buffer, and the stream then reports Closed.
func (s *Stream) Stop() {
	s.stop.Do(func() { close(s.done) })
}

// Closed reports whether the underlying reader has ended or Stop was called.
func (s *Stream) Closed() bool {
	return s.closed
}

// Poll drains all available bytes (non-blocking) and returns the resulting
// events, including key releases for keys no longer held at now.
func (s *Stream) Poll(now time.Time) []Event {
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	parsed, rest := Parse(buf)
	if len(rest) > 0 && !s.closed {
		s.pending = append(s.pending, rest...)
	}

	var events []Event
	for _, ev := range parsed {
		if ev.Type == EventKeyDown {
			events = append(events, s.keys.Press(ev.Key, now)...)
			continue
		}
		events = append(events, ev)
	}
	return append(events, s.keys.Expire(now)...)
}

// Parse decodes raw terminal input. Arrow keys arrive as CSI sequences, mouse
// presses as SGR (1006) reports. A trailing incomplete escape sequence is
// returned as rest so it can be completed by the next read.
func Parse(buf []byte) (events []Event, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b != '\x1b' {
			if k := keyForByte(b); k != KeyUnknown {
				events = append(events, Event{Type: EventKeyDown, Key: k})
			}
			continue
		}

		// Lone ESC at the end may be the start of a sequence.
		if i+1 >= len(buf) {
			return events, buf[i:]
		}
		if buf[i+1] != '[' && buf[i+1] != 'O' {
			continue
		}
		if i+2 >= len(buf) {
			return events, buf[i:]
		}

		if buf[i+1] == '[' && buf[i+2] == '<' {
			ev, n, complete := parseMouse(buf[i+3:])
			if !complete {
				return events, buf[i:]
			}
			if ev != nil {
				events = append(events, *ev)
			}
			i += 2 + n
			continue
		}

		// CSI (ESC [) or SS3 (ESC O): skip parameters up to the final byte.
		j := i + 2
		for j < len(buf) && buf[j] >= 0x30 && buf[j] <= 0x3f {
			j++
		}
		if j >= len(buf) {
			return events, buf[i:]
		}
		if k := keyForArrow(buf[j]); k != KeyUnknown {
			events = append(events, Event{Type: EventKeyDown, Key: k})
		}
		i = j
	}
	return events, nil
}

// keyForArrow maps the final byte of an arrow key sequence.
func keyForArrow(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	}
	return KeyUnknown
}

// parseMouse decodes the body of an SGR mouse report: "b;x;y" followed by
// 'M' (press) or 'm' (release). Only left button presses become clicks.
// n is the number of bytes consumed, including the final letter.
func parseMouse(buf []byte) (ev *Event, n int, complete bool) {
	var fields [3]int
	field := 0

	for n < len(buf) {
		c := buf[n]
		n++
		switch {
		case c >= '0' && c <= '9':
			fields[field] = fields[field]*10 + int(c-'0')
		case c == ';':
			if field == len(fields)-1 {
				return nil, n, true
			}
			field++
		case c == 'M' || c == 'm':
			if c == 'M' && field == 2 && fields[0] == 0 {
				return &Event{Type: EventClick, Col: fields[1] - 1, Row: fields[2] - 1}, n, true
			}
			return nil, n, true
		default:
			// Not a mouse report after all.
			return nil, n, true
		}
	}
	return nil, n, false
}

// keyForByte maps a single byte to a key.
func keyForByte(b byte) Key {
	switch b {
	case 'q', 'Q', '\x03':
		return KeyQuit
	case 'a', 'A', 'j', 'J':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case 'w', 'W', 'i', 'I':
		return KeyUp
	case ' ':
		return KeySpace
	case '\n', '\r':
		return KeyEnter
	}
	return KeyUnknown
}
