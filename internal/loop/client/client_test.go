package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/spacerocks/internal/draw"
	"github.com/tomz197/spacerocks/internal/input"
	"github.com/tomz197/spacerocks/internal/loop"
	"github.com/tomz197/spacerocks/internal/loop/config"
)

// fakeFrontend replays scripted events, one batch per poll.
type fakeFrontend struct {
	cols, rows int
	batches    [][]input.Event
	polls      int
	presented  int
	presentErr error
	inputDone  bool
	inited     bool
	closed     bool
	labels     []string
}

func (f *fakeFrontend) Init() error { f.inited = true; return nil }
func (f *fakeFrontend) Close() error { f.closed = true; return nil }

func (f *fakeFrontend) Size() (int, int, error) {
	return f.cols, f.rows, nil
}

func (f *fakeFrontend) Events(time.Time) ([]input.Event, bool) {
	defer func() { f.polls++ }()
	if f.inputDone {
		return nil, false
	}
	if f.polls < len(f.batches) {
		return f.batches[f.polls], true
	}
	return nil, true
}

func (f *fakeFrontend) Present(c *draw.Canvas) error {
	f.presented++
	f.labels = f.labels[:0]
	c.Labels(func(_, _ int, text string, _ uint8) {
		f.labels = append(f.labels, text)
	})
	return f.presentErr
}

func newTestClient(fe *fakeFrontend, opts ClientOptions) *Client {
	c := NewClient(loop.NewGame(nil), fe, opts)
	c.updateScreen()
	return c
}

func keyDown(k input.Key) input.Event {
	return input.Event{Type: input.EventKeyDown, Key: k}
}

func TestClampTermSize(t *testing.T) {
	testCases := []struct {
		name                    string
		termWidth, termHeight   int
		width, height, col, row int
	}{
		{name: "wide terminal", termWidth: 80, termHeight: 24, width: 64, height: 24, col: 8, row: 0},
		{name: "exact fit", termWidth: 80, termHeight: 30, width: 80, height: 30},
		{name: "tall terminal", termWidth: 40, termHeight: 40, width: 40, height: 15, col: 0, row: 12},
		{name: "larger than max", termWidth: 200, termHeight: 100, width: 160, height: 60, col: 20, row: 20},
		{name: "empty", termWidth: 0, termHeight: 0, width: 1, height: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, h, col, row := clampTermSize(tc.termWidth, tc.termHeight)
			if w != tc.width || h != tc.height || col != tc.col || row != tc.row {
				t.Errorf("expected %dx%d at (%d,%d), got %dx%d at (%d,%d)",
					tc.width, tc.height, tc.col, tc.row, w, h, col, row)
			}
		})
	}
}

func TestDispatch(t *testing.T) {
	testCases := []struct {
		name    string
		event   input.Event
		started bool
		running bool
	}{
		{name: "enter starts", event: keyDown(input.KeyEnter), started: true, running: true},
		{name: "click on splash starts", event: input.Event{Type: input.EventClick, Col: 40, Row: 15}, started: true, running: true},
		{name: "click off splash", event: input.Event{Type: input.EventClick, Col: 0, Row: 0}, running: true},
		{name: "space does not start", event: keyDown(input.KeySpace), running: true},
		{name: "quit", event: keyDown(input.KeyQuit), running: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(&fakeFrontend{cols: 80, rows: 30}, ClientOptions{})
			c.dispatch(tc.event)

			if got := c.game.Snapshot().Started(); got != tc.started {
				t.Errorf("expected started=%v, got %v", tc.started, got)
			}
			if c.state.Running != tc.running {
				t.Errorf("expected running=%v, got %v", tc.running, c.state.Running)
			}
		})
	}
}

func TestInactivity(t *testing.T) {
	fe := &fakeFrontend{cols: 80, rows: 30}
	c := newTestClient(fe, ClientOptions{InactivityWarn: time.Second, InactivityDisconnect: 2 * time.Second})
	start := c.state.lastInput

	c.processInput(start.Add(1500 * time.Millisecond))
	if !c.state.isInactive || !c.state.Running {
		t.Fatalf("expected warning, got inactive=%v running=%v", c.state.isInactive, c.state.Running)
	}

	fe.batches = make([][]input.Event, fe.polls+1)
	fe.batches[fe.polls] = []input.Event{keyDown(input.KeyUp)}
	now := start.Add(1800 * time.Millisecond)
	c.processInput(now)
	if c.state.isInactive || c.state.lastInput != now {
		t.Fatal("expected input to clear the warning")
	}

	c.processInput(now.Add(3 * time.Second))
	if c.state.Running {
		t.Fatal("expected idle session to end")
	}
	if c.state.endReason != "inactive" {
		t.Errorf("expected reason inactive, got %q", c.state.endReason)
	}
}

func TestInactivityDisabled(t *testing.T) {
	c := newTestClient(&fakeFrontend{cols: 80, rows: 30}, ClientOptions{})
	c.processInput(c.state.lastInput.Add(time.Hour))
	if c.state.isInactive || !c.state.Running {
		t.Error("expected no inactivity handling without limits")
	}
}

func TestInputClosed(t *testing.T) {
	c := newTestClient(&fakeFrontend{cols: 80, rows: 30, inputDone: true}, ClientOptions{})
	c.processInput(time.Now())
	if c.state.Running || c.state.endReason != "input closed" {
		t.Errorf("expected session to end on closed input, got running=%v reason=%q", c.state.Running, c.state.endReason)
	}
}

func TestRunQuit(t *testing.T) {
	fe := &fakeFrontend{cols: 80, rows: 30, batches: [][]input.Event{nil, nil, {keyDown(input.KeyQuit)}}}
	c := newTestClient(fe, ClientOptions{})

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !fe.inited || !fe.closed {
		t.Errorf("expected Init and Close, got inited=%v closed=%v", fe.inited, fe.closed)
	}
	if fe.presented != 2 {
		t.Errorf("expected 2 frames before quitting, got %d", fe.presented)
	}
	if !contains(fe.labels, controlsHint) {
		t.Errorf("expected controls hint on the splash screen, got %q", fe.labels)
	}
}

func TestRunCancelled(t *testing.T) {
	fe := &fakeFrontend{cols: 80, rows: 30}
	c := newTestClient(fe, ClientOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.state.endReason != "shutdown" {
		t.Errorf("expected reason shutdown, got %q", c.state.endReason)
	}
}

func TestRunShutdownNotice(t *testing.T) {
	fe := &fakeFrontend{cols: 80, rows: 30}
	c := newTestClient(fe, ClientOptions{ShutdownNotice: 100 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("expected the notice to stay up, session ended after %v", elapsed)
	}
	if fe.presented == 0 || !contains(fe.labels, "SERVER SHUTTING DOWN") {
		t.Errorf("expected shutdown notice, got %q", fe.labels)
	}
}

func TestRunPresentError(t *testing.T) {
	errWrite := errors.New("broken pipe")
	fe := &fakeFrontend{cols: 80, rows: 30, presentErr: errWrite}
	c := newTestClient(fe, ClientOptions{})

	if err := c.Run(context.Background()); !errors.Is(err, errWrite) {
		t.Errorf("expected %v, got %v", errWrite, err)
	}
	if !fe.closed {
		t.Error("expected frontend to be closed")
	}
}

func TestDrawFrameTicksGame(t *testing.T) {
	fe := &fakeFrontend{cols: 80, rows: 30}
	c := newTestClient(fe, ClientOptions{})
	before := c.game.Snapshot().Time

	if err := c.drawFrame(time.Now()); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if got := c.game.Snapshot().Time; got != before+1 {
		t.Errorf("expected one tick, time %v -> %v", before, got)
	}
	// Lives, score and their values.
	if len(fe.labels) < 4 {
		t.Errorf("expected HUD labels, got %q", fe.labels)
	}
}

func TestANSIFrontend(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	var out bytes.Buffer
	size := func() (int, int, error) { return 80, 30, nil }
	fe := NewANSIFrontend(pr, &out, size, input.NewTracker(config.DefaultKeyDelay, config.DefaultKeyHold))

	if err := fe.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !strings.Contains(out.String(), "\033[?1006h") {
		t.Error("expected mouse reporting to be enabled")
	}

	go pw.Write([]byte("q"))
	var events []input.Event
	deadline := time.Now().Add(time.Second)
	for len(events) == 0 && time.Now().Before(deadline) {
		events, _ = fe.Events(time.Now())
		time.Sleep(time.Millisecond)
	}
	if len(events) != 1 || events[0] != keyDown(input.KeyQuit) {
		t.Fatalf("expected quit key, got %v", events)
	}

	c := draw.NewScaledCanvas(80, 30, 800, 600)
	out.Reset()
	if err := fe.Present(c); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if !strings.Contains(out.String(), "\033[2J") {
		t.Error("expected a full clear on the first frame")
	}
	out.Reset()
	if err := fe.Present(c); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if strings.Contains(out.String(), "\033[2J") {
		t.Error("expected no clear when the geometry is unchanged")
	}

	if err := fe.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !strings.Contains(out.String(), "\033[?25h") {
		t.Error("expected the cursor to be restored")
	}

	// Typing after the session ended must not keep the reader alive.
	go pw.Write([]byte(strings.Repeat("w", 512)))
	deadline = time.Now().Add(2 * time.Second)
	for {
		if _, open := fe.Events(time.Now()); !open {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected input to close after Close")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTcellFrontend(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	fe := NewTcellFrontend(screen, input.NewTracker(config.DefaultKeyDelay, config.DefaultKeyHold))
	if err := fe.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(80, 30)

	if cols, rows, _ := fe.Size(); cols != 80 || rows != 30 {
		t.Errorf("expected 80x30, got %dx%d", cols, rows)
	}

	if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}
	var events []input.Event
	deadline := time.Now().Add(time.Second)
	for len(events) == 0 && time.Now().Before(deadline) {
		events, _ = fe.Events(time.Now())
		time.Sleep(time.Millisecond)
	}
	if len(events) != 1 || events[0] != keyDown(input.KeyQuit) {
		t.Fatalf("expected quit key, got %v", events)
	}

	c := draw.NewScaledCanvas(80, 30, 800, 600)
	c.Label(1, 1, "hi")
	if err := fe.Present(c); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if err := fe.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
