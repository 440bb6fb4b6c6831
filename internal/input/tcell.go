package input

import "github.com/gdamore/tcell/v2"

// FromTcell translates a tcell event. Key events are returned as presses
// (tcell does not report releases either), left button presses as clicks.
// ok is false for events the game does not care about.
func FromTcell(ev tcell.Event) (e Event, ok bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		k := keyForTcell(ev)
		if k == KeyUnknown {
			return Event{}, false
		}
		return Event{Type: EventKeyDown, Key: k}, true
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return Event{}, false
		}
		col, row := ev.Position()
		return Event{Type: EventClick, Col: col, Row: row}, true
	}
	return Event{}, false
}

func keyForTcell(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return KeyQuit
	case tcell.KeyRune:
		if ev.Rune() > 0x7f {
			return KeyUnknown
		}
		return keyForByte(byte(ev.Rune()))
	}
	return KeyUnknown
}
