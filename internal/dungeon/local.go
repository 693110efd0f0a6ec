package dungeon

import (
	"context"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// LocalAgent is an in-process player driven by a front end such as the
// terminal UI. Events and turn requests arrive on its inbox; the front end
// answers with Submit.
type LocalAgent struct {
	name  string
	inbox *Inbox
	moves chan core.Point
}

// NewLocalAgent creates a local player agent.
func NewLocalAgent(name string) *LocalAgent {
	return &LocalAgent{
		name:  name,
		inbox: NewInbox(64),
		moves: make(chan core.Point, 1),
	}
}

var (
	_ Agent   = (*LocalAgent)(nil)
	_ Untimed = (*LocalAgent)(nil)
)

func (a *LocalAgent) Name() string     { return a.name }
func (a *LocalAgent) Kind() actor.Kind { return actor.KindPlayer }
func (a *LocalAgent) Remote() bool     { return false }
func (a *LocalAgent) Untimed() bool    { return true }

// Inbox returns the queue the front end consumes.
func (a *LocalAgent) Inbox() *Inbox {
	return a.inbox
}

// Notify queues an event for the front end.
func (a *LocalAgent) Notify(evt Event) {
	a.inbox.Push(evt)
}

// RequestMove hands the request to the front end and waits for Submit.
// A destination submitted before the request is discarded.
func (a *LocalAgent) RequestMove(ctx context.Context, req TurnRequest) (core.Point, error) {
	select {
	case <-a.moves:
	default:
	}
	a.inbox.Push(TurnRequestEvent{Request: req})

	select {
	case p := <-a.moves:
		return p, nil
	case <-a.inbox.Done():
		return core.Point{}, errors.Disconnect("local player quit")
	case <-ctx.Done():
		return core.Point{}, ctx.Err()
	}
}

// Submit offers a destination for the pending turn. Only the latest
// submission is kept.
func (a *LocalAgent) Submit(p core.Point) {
	for {
		select {
		case a.moves <- p:
			return
		default:
		}
		select {
		case <-a.moves:
		default:
		}
	}
}

// Quit disconnects the agent; its pending and future turns fail.
func (a *LocalAgent) Quit() {
	a.inbox.Close()
}
