package client

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/spacerocks/internal/draw"
	"github.com/tomz197/spacerocks/internal/input"
)

// TcellFrontend draws through a tcell screen, which takes care of terminal
// capabilities, mouse reporting and resize events.
type TcellFrontend struct {
	screen tcell.Screen
	keys   *input.Tracker
	events chan tcell.Event
	closed bool
}

// NewTcellFrontend wraps screen. The screen is initialized by Init and
// finalized by Close.
func NewTcellFrontend(screen tcell.Screen, keys *input.Tracker) *TcellFrontend {
	return &TcellFrontend{
		screen: screen,
		keys:   keys,
		events: make(chan tcell.Event, 100),
	}
}

func (f *TcellFrontend) Init() error {
	if err := f.screen.Init(); err != nil {
		return err
	}
	f.screen.EnableMouse()
	f.screen.HideCursor()
	f.screen.Clear()

	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				// Screen finalized.
				close(f.events)
				return
			}
			select {
			case f.events <- ev:
			default:
				// Dropped; the client is not keeping up.
			}
		}
	}()
	return nil
}

func (f *TcellFrontend) Close() error {
	f.screen.DisableMouse()
	f.screen.Fini()
	return nil
}

func (f *TcellFrontend) Size() (int, int, error) {
	cols, rows := f.screen.Size()
	return cols, rows, nil
}

func (f *TcellFrontend) Events(now time.Time) ([]input.Event, bool) {
	var events []input.Event

drain:
	for {
		select {
		case ev, ok := <-f.events:
			if !ok {
				f.closed = true
				break drain
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				f.screen.Sync()
				continue
			}
			e, ok := input.FromTcell(ev)
			if !ok {
				continue
			}
			if e.Type == input.EventKeyDown {
				events = append(events, f.keys.Press(e.Key, now)...)
				continue
			}
			events = append(events, e)
		default:
			break drain
		}
	}
	return append(events, f.keys.Expire(now)...), !f.closed
}

// Present copies the canvas cells and labels onto the screen.
func (f *TcellFrontend) Present(c *draw.Canvas) error {
	f.screen.Clear()
	offCol, offRow := c.OffsetCol(), c.OffsetRow()

	for row := 0; row < c.TerminalHeight(); row++ {
		for col := 0; col < c.TerminalWidth(); col++ {
			ch, fg, bg := c.Cell(col, row)
			if ch == ' ' {
				continue
			}
			f.screen.SetContent(offCol+col, offRow+row, ch, nil, cellStyle(fg, bg))
		}
	}

	c.Labels(func(col, row int, text string, color uint8) {
		if row < 1 || row > c.TerminalHeight() {
			return
		}
		style := tcell.StyleDefault.Foreground(tcell.PaletteColor(int(color)))
		for i, r := range text {
			x := col + i
			if x < 1 || x > c.TerminalWidth() {
				continue
			}
			f.screen.SetContent(offCol+x-1, offRow+row-1, r, nil, style)
		}
	})

	f.screen.Show()
	return nil
}

func cellStyle(fg, bg uint8) tcell.Style {
	style := tcell.StyleDefault
	if fg != 0 {
		style = style.Foreground(tcell.PaletteColor(int(fg)))
	}
	if bg != 0 {
		style = style.Background(tcell.PaletteColor(int(bg)))
	}
	return style
}

var _ Frontend = (*TcellFrontend)(nil)
