package input

import "time"

// Tracker synthesizes key releases for inputs that only report presses.
// A key counts as held until no repeat has arrived for a while: delay after
// the first press (covering the keyboard's initial repeat delay), hold after
// each repeat.
type Tracker struct {
	delay    time.Duration
	hold     time.Duration
	deadline map[Key]time.Time
}

// NewTracker creates a tracker with the given initial delay and repeat hold.
func NewTracker(delay, hold time.Duration) *Tracker {
	if delay < hold {
		delay = hold
	}
	return &Tracker{
		delay:    delay,
		hold:     hold,
		deadline: make(map[Key]time.Time),
	}
}

// Press records a key press. It returns a KeyDown event for the first press
// of a held key and for every press of a momentary key; repeats return nothing.
func (t *Tracker) Press(k Key, now time.Time) []Event {
	if k == KeyUnknown {
		return nil
	}
	if k.momentary() {
		return []Event{{Type: EventKeyDown, Key: k}}
	}

	if _, held := t.deadline[k]; held {
		t.deadline[k] = now.Add(t.hold)
		return nil
	}
	t.deadline[k] = now.Add(t.delay)
	return []Event{{Type: EventKeyDown, Key: k}}
}

// Expire returns a KeyUp event for every held key whose deadline has passed.
func (t *Tracker) Expire(now time.Time) []Event {
	var events []Event
	// Fixed order keeps the output deterministic.
	for _, k := range []Key{KeyLeft, KeyRight, KeyUp} {
		deadline, held := t.deadline[k]
		if held && !now.Before(deadline) {
			delete(t.deadline, k)
			events = append(events, Event{Type: EventKeyUp, Key: k})
		}
	}
	return events
}

// Held reports whether k is currently held.
func (t *Tracker) Held(k Key) bool {
	_, held := t.deadline[k]
	return held
}

// Reset releases every key without emitting events.
func (t *Tracker) Reset() {
	clear(t.deadline)
}
