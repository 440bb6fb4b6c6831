package client

import "time"

// ClientState holds per-session state that lives outside the game itself.
type ClientState struct {
	Running    bool      // Client loop running
	lastInput  time.Time // Last time any input arrived
	isInactive bool      // Whether the client is in inactive warning state
	shutdownAt time.Time // When the shutdown notice ends, zero if not shutting down
	endReason  string    // Why the loop stopped
}

// NewClientState creates a new initialized client state.
func NewClientState(now time.Time) *ClientState {
	return &ClientState{
		Running:   true,
		lastInput: now,
	}
}

func (s *ClientState) shuttingDown() bool {
	return !s.shutdownAt.IsZero()
}
