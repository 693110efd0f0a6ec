package adversary

import (
	"context"
	"fmt"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/registry"
)

// Agent drives an adversary with a registered policy. It answers instantly
// and ignores events.
type Agent struct {
	name   string
	kind   actor.AdversaryKind
	policy registry.Policy
}

var _ dungeon.AdversaryAgent = (*Agent)(nil)

// NewAgent creates an adversary agent using the policy named after kind.
func NewAgent(name string, kind actor.AdversaryKind, seed int64) (*Agent, error) {
	policy, err := registry.Create(kind.String(), seed)
	if err != nil {
		return nil, fmt.Errorf("adversary %s: %w", name, err)
	}
	return &Agent{name: name, kind: kind, policy: policy}, nil
}

// Spawn creates zombies and ghosts named zombie-1, ghost-1 and so on.
func Spawn(zombies, ghosts int, seed int64) ([]dungeon.Agent, error) {
	var agents []dungeon.Agent
	for _, group := range []struct {
		kind  actor.AdversaryKind
		count int
	}{{actor.Zombie, zombies}, {actor.Ghost, ghosts}} {
		for i := 1; i <= group.count; i++ {
			a, err := NewAgent(fmt.Sprintf("%s-%d", group.kind, i), group.kind, seed+int64(len(agents)))
			if err != nil {
				return nil, err
			}
			agents = append(agents, a)
		}
	}
	return agents, nil
}

func (a *Agent) Name() string                       { return a.name }
func (a *Agent) Kind() actor.Kind                   { return actor.KindAdversary }
func (a *Agent) AdversaryKind() actor.AdversaryKind { return a.kind }
func (a *Agent) Remote() bool                       { return false }
func (a *Agent) Notify(dungeon.Event)               {}

// Policy returns the policy driving the agent.
func (a *Agent) Policy() registry.Policy {
	return a.policy
}

// RequestMove asks the policy for a destination.
func (a *Agent) RequestMove(ctx context.Context, req dungeon.TurnRequest) (core.Point, error) {
	if err := ctx.Err(); err != nil {
		return core.Point{}, err
	}
	return a.policy.Choose(req), nil
}
