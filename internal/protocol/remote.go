package protocol

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// RemoteAgent stands in for an actor whose decisions arrive over a
// Transport. A dedicated goroutine reads the connection; a turn-response is
// accepted only while the controller waits for this actor's turn and only
// if it names that turn's level and round. At most one is held at a time.
type RemoteAgent struct {
	name    string
	kind    actor.Kind
	advKind actor.AdversaryKind
	local   bool

	t      Transport
	logger *log.Logger

	mu       sync.Mutex
	awaiting bool
	level    int
	round    int
	pending  chan core.Point

	done      chan struct{}
	closeOnce sync.Once
	causeMu   sync.Mutex
	cause     error
}

var _ dungeon.AdversaryAgent = (*RemoteAgent)(nil)

// RemoteOption configures a RemoteAgent.
type RemoteOption func(*RemoteAgent)

// AsLocal makes the controller re-prompt invalid moves instead of skipping
// the turn. In-process front ends such as SSH sessions use it.
func AsLocal() RemoteOption {
	return func(a *RemoteAgent) { a.local = true }
}

// WithLogger sets the agent's logger.
func WithLogger(l *log.Logger) RemoteOption {
	return func(a *RemoteAgent) { a.logger = l }
}

// NewRemoteAgent creates an agent for a registered client. Call Start to
// begin reading.
func NewRemoteAgent(reg Register, t Transport, opts ...RemoteOption) (*RemoteAgent, error) {
	a := &RemoteAgent{
		name:    reg.Name,
		kind:    actor.KindPlayer,
		t:       t,
		logger:  log.New(io.Discard),
		pending: make(chan core.Point, 1),
		done:    make(chan struct{}),
	}
	if reg.Kind != "" && reg.Kind != actor.KindPlayer.String() {
		k, err := actor.ParseAdversaryKind(reg.Kind)
		if err != nil {
			return nil, err
		}
		a.kind = actor.KindAdversary
		a.advKind = k
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *RemoteAgent) Name() string                       { return a.name }
func (a *RemoteAgent) Kind() actor.Kind                   { return a.kind }
func (a *RemoteAgent) AdversaryKind() actor.AdversaryKind { return a.advKind }
func (a *RemoteAgent) Remote() bool                       { return !a.local }

// Done is closed once the connection is gone.
func (a *RemoteAgent) Done() <-chan struct{} {
	return a.done
}

// Start launches the read loop. It ends when ctx is cancelled or the
// connection fails.
func (a *RemoteAgent) Start(ctx context.Context) {
	go a.readLoop(ctx)
}

func (a *RemoteAgent) readLoop(ctx context.Context) {
	for {
		data, err := a.t.ReadMessage(ctx)
		if err != nil {
			a.disconnect(err)
			return
		}

		msg, err := Decode(data)
		if err != nil {
			a.logger.Warn("discarding malformed message", "actor", a.name, "err", err)
			a.send(Error{Reason: errors.GetMessage(err)})
			continue
		}

		resp, ok := msg.(TurnResponse)
		if !ok {
			a.logger.Warn("discarding unexpected message", "actor", a.name, "type", msg.MessageType())
			a.send(Error{Reason: "unexpected " + string(msg.MessageType()) + " message"})
			continue
		}
		if reason := a.offer(resp); reason != "" {
			a.logger.Warn("discarding turn-response", "actor", a.name, "reason", reason)
			a.send(Error{Reason: reason})
		}
	}
}

// offer hands resp to a waiting RequestMove. It returns why resp was
// refused, if it was.
func (a *RemoteAgent) offer(resp TurnResponse) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.awaiting {
		return "turn-response out of turn"
	}
	if resp.Level != a.level || resp.Round != a.round {
		return fmt.Sprintf("stale turn-response for level %d round %d, expected level %d round %d",
			resp.Level, resp.Round, a.level, a.round)
	}
	select {
	case a.pending <- resp.Destination.Point():
		return ""
	default:
		return "a move is already pending"
	}
}

// RequestMove sends a turn-request and waits for the answer, the context
// deadline, or a disconnect.
func (a *RemoteAgent) RequestMove(ctx context.Context, req dungeon.TurnRequest) (core.Point, error) {
	select {
	case <-a.done:
		return core.Point{}, a.disconnectErr()
	default:
	}

	a.mu.Lock()
	select {
	case <-a.pending:
	default:
	}
	a.awaiting = true
	a.level, a.round = req.LevelIndex, req.Round
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.awaiting = false
		a.mu.Unlock()
	}()

	if err := a.send(FromTurnRequest(req)); err != nil {
		if errors.IsDisconnect(err) {
			return core.Point{}, a.disconnectErr()
		}
		return core.Point{}, err
	}

	select {
	case p := <-a.pending:
		return p, nil
	case <-a.done:
		return core.Point{}, a.disconnectErr()
	case <-ctx.Done():
		return core.Point{}, ctx.Err()
	}
}

// Notify forwards an event to the client. Events without a wire form are
// dropped.
func (a *RemoteAgent) Notify(evt dungeon.Event) {
	msg, ok := FromEvent(evt)
	if !ok {
		return
	}
	a.send(msg)
}

// Close drops the connection.
func (a *RemoteAgent) Close() {
	a.disconnect(errors.Disconnect("closed by server"))
}

func (a *RemoteAgent) send(msg Message) error {
	if err := Send(a.t, msg); err != nil {
		if errors.IsDisconnect(err) {
			a.disconnect(err)
		}
		return err
	}
	return nil
}

func (a *RemoteAgent) disconnect(cause error) {
	a.closeOnce.Do(func() {
		a.causeMu.Lock()
		a.cause = cause
		a.causeMu.Unlock()
		a.t.Close()
		close(a.done)
		a.logger.Info("client disconnected", "actor", a.name, "reason", cause)
	})
}

func (a *RemoteAgent) disconnectErr() error {
	a.causeMu.Lock()
	defer a.causeMu.Unlock()
	switch {
	case a.cause == nil:
		return errors.Disconnect(a.name + " disconnected")
	case errors.IsDisconnect(a.cause):
		return a.cause
	}
	return errors.WrapWithCode(a.cause, errors.CodeDisconnect, a.name+" disconnected")
}
