package protocol

import (
	"context"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// Handshake reads the client's register message, registers an agent for it
// and answers registered or rejected. On success the agent's read loop is
// running under ctx.
func Handshake(ctx context.Context, t Transport, reg dungeon.Registrar, opts ...RemoteOption) (*RemoteAgent, error) {
	msg, err := Receive(ctx, t)
	if err != nil {
		if errors.IsProtocol(err) {
			Send(t, Rejected{Reason: errors.GetMessage(err)})
		}
		return nil, err
	}

	register, ok := msg.(Register)
	if !ok {
		Send(t, Rejected{Reason: "expected register"})
		return nil, errors.Protocolf("expected register, got %s", msg.MessageType())
	}

	agent, err := NewRemoteAgent(register, t, opts...)
	if err != nil {
		Send(t, Rejected{Reason: errors.GetMessage(err)})
		return nil, err
	}
	if err := reg.Register(agent); err != nil {
		Send(t, Rejected{Reason: errors.GetMessage(err)})
		return nil, err
	}

	if err := Send(t, Registered{ID: uuid.NewString()}); err != nil {
		return nil, err
	}
	agent.Start(ctx)
	return agent, nil
}
