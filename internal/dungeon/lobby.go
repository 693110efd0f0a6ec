package dungeon

import (
	"context"
	"sync"
	"time"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// Registrar accepts agents before the game starts.
type Registrar interface {
	Register(a Agent) error
}

// Lobby collects registrations until the expected number of players joined
// or the wait window elapses. Adversary agents may join too and do not count
// towards the player limit.
type Lobby struct {
	expected int
	wait     time.Duration

	mu      sync.Mutex
	agents  []Agent
	names   map[string]bool
	players int
	closed  bool

	full     chan struct{}
	fullOnce sync.Once
}

var _ Registrar = (*Lobby)(nil)

// NewLobby creates a lobby for expected players. A zero wait keeps the
// window open until the lobby is full.
func NewLobby(expected int, wait time.Duration) *Lobby {
	return &Lobby{
		expected: expected,
		wait:     wait,
		names:    make(map[string]bool),
		full:     make(chan struct{}),
	}
}

// Register adds an agent, or explains why it cannot join.
func (l *Lobby) Register(a Agent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.closed:
		return errors.Registration("registration closed")
	case a.Name() == "":
		return errors.Registration("name must not be empty")
	case l.names[a.Name()]:
		return errors.Registrationf("name %q is already taken", a.Name()).WithMeta("name", a.Name())
	case a.Kind() == actor.KindPlayer && l.players >= l.expected:
		return errors.Registrationf("player count exceeded (%d)", l.expected)
	}

	l.names[a.Name()] = true
	l.agents = append(l.agents, a)
	if a.Kind() == actor.KindPlayer {
		l.players++
		if l.players == l.expected {
			l.fullOnce.Do(func() { close(l.full) })
		}
	}
	return nil
}

// Players returns how many players have registered.
func (l *Lobby) Players() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.players
}

// Close stops accepting registrations.
func (l *Lobby) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// Wait blocks until the lobby is full, the wait window elapses, or ctx ends,
// then closes registration and returns the registered agents in order.
func (l *Lobby) Wait(ctx context.Context) ([]Agent, error) {
	var timeout <-chan time.Time
	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-l.full:
	case <-timeout:
	case <-ctx.Done():
		l.Close()
		return nil, ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.players == 0 {
		return nil, errors.Registration("no players registered")
	}
	return append([]Agent(nil), l.agents...), nil
}
