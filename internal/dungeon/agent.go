package dungeon

import (
	"context"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/visibility"
)

// Agent is anything that can take turns for an actor: a local front end, a
// scripted adversary, or a remote client behind the protocol adapter. The
// controller treats all of them the same way.
type Agent interface {
	Name() string
	Kind() actor.Kind

	// RequestMove blocks until the agent picks a destination or ctx ends.
	// Timeouts surface as context.DeadlineExceeded, lost connections as
	// DISCONNECT errors.
	RequestMove(ctx context.Context, req TurnRequest) (core.Point, error)

	// Notify delivers an event. It must not block the controller.
	Notify(evt Event)

	// Remote reports whether the agent sits behind a network connection.
	// Invalid remote moves forfeit the turn instead of being re-prompted.
	Remote() bool
}

// Untimed is implemented by agents the turn timeout does not apply to, such
// as a player at the local keyboard. They are waited on until they answer,
// quit, or the game is cancelled.
type Untimed interface {
	Untimed() bool
}

// AdversaryAgent is implemented by adversary agents that know their kind.
type AdversaryAgent interface {
	Agent
	AdversaryKind() actor.AdversaryKind
}

// TurnRequest is what an agent gets when it is its turn.
type TurnRequest struct {
	LevelIndex   int
	Round        int
	Position     core.Point
	Destinations []core.Point
	View         visibility.View
}

// Observer receives every event the controller publishes, including
// ObservationEvent.
type Observer interface {
	Notify(evt Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Notify calls f(evt).
func (f ObserverFunc) Notify(evt Event) {
	f(evt)
}
