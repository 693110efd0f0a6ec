package protocol

import (
	"context"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// Handler is the client-side front end: a terminal UI or a bot.
type Handler interface {
	// HandleEvent receives every server event, including errors.
	HandleEvent(evt dungeon.Event)
	// ChooseMove answers a turn request.
	ChooseMove(ctx context.Context, req dungeon.TurnRequest) (core.Point, error)
}

// Client is the remote end of the protocol.
type Client struct {
	t       Transport
	handler Handler
}

// NewClient creates a client over t.
func NewClient(t Transport, h Handler) *Client {
	return &Client{t: t, handler: h}
}

// Register sends the register message and waits for the answer. kind is
// empty for players.
func (c *Client) Register(ctx context.Context, name, kind string) (string, error) {
	if err := Send(c.t, Register{Name: name, Kind: kind}); err != nil {
		return "", err
	}
	msg, err := Receive(ctx, c.t)
	if err != nil {
		return "", err
	}
	switch m := msg.(type) {
	case Registered:
		return m.ID, nil
	case Rejected:
		return "", errors.Registration(m.Reason)
	}
	return "", errors.Protocolf("expected registered or rejected, got %s", msg.MessageType())
}

// Run dispatches server messages to the handler until the game ends, the
// connection drops, or ctx is cancelled. Malformed messages are skipped.
//
// Moves are chosen off the read loop so that events keep flowing while the
// handler thinks. A newer turn-request cancels the pending choice.
func (c *Client) Run(ctx context.Context) error {
	ctx, fail := context.WithCancelCause(ctx)
	defer fail(nil)

	abandon := context.CancelFunc(func() {})
	prev := make(chan struct{})
	close(prev)
	defer func() { abandon() }()

	for {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		msg, err := Receive(ctx, c.t)
		if err != nil {
			if errors.IsProtocol(err) {
				c.handler.HandleEvent(dungeon.ErrorEvent{Reason: errors.GetMessage(err)})
				continue
			}
			if ctx.Err() != nil {
				return context.Cause(ctx)
			}
			return err
		}

		if m, ok := msg.(TurnRequest); ok {
			req, err := ToTurnRequest(m)
			if err != nil {
				c.handler.HandleEvent(dungeon.ErrorEvent{Reason: errors.GetMessage(err)})
				continue
			}
			abandon()
			var moveCtx context.Context
			moveCtx, abandon = context.WithCancel(ctx)
			done := make(chan struct{})
			go c.answer(moveCtx, prev, done, m, req, fail)
			prev = done
			continue
		}

		evt, err := ToEvent(msg)
		if err != nil {
			c.handler.HandleEvent(dungeon.ErrorEvent{Reason: errors.GetMessage(err)})
			continue
		}
		c.handler.HandleEvent(evt)
		if _, over := evt.(dungeon.GameEndEvent); over {
			return nil
		}
	}
}

// answer asks the handler for a move once the previous choice has wound
// down, and sends it unless the request was superseded meanwhile.
func (c *Client) answer(ctx context.Context, prev <-chan struct{}, done chan<- struct{}, m TurnRequest, req dungeon.TurnRequest, fail context.CancelCauseFunc) {
	defer close(done)
	<-prev
	if ctx.Err() != nil {
		return
	}

	dst, err := c.handler.ChooseMove(ctx, req)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		fail(err)
		return
	}
	resp := TurnResponse{Level: m.Level, Round: m.Round, Destination: CoordOf(dst)}
	if err := Send(c.t, resp); err != nil {
		fail(err)
	}
}

// AgentHandler lets an in-process agent, such as a LocalAgent behind a
// terminal UI or an adversary policy, play through a Client.
func AgentHandler(a dungeon.Agent) Handler {
	return agentHandler{agent: a}
}

type agentHandler struct {
	agent dungeon.Agent
}

func (h agentHandler) HandleEvent(evt dungeon.Event) {
	h.agent.Notify(evt)
}

func (h agentHandler) ChooseMove(ctx context.Context, req dungeon.TurnRequest) (core.Point, error) {
	return h.agent.RequestMove(ctx, req)
}

// Play registers agent over t and relays the game to it until the game ends.
// The agent is quit when the connection fails, and the connection is closed
// when the agent quits.
func Play(ctx context.Context, t Transport, agent *dungeon.LocalAgent) error {
	c := NewClient(t, AgentHandler(agent))
	defer c.Close()

	go func() {
		select {
		case <-agent.Inbox().Done():
			c.Close()
		case <-ctx.Done():
		}
	}()

	if _, err := c.Register(ctx, agent.Name(), ""); err != nil {
		agent.Notify(dungeon.ErrorEvent{Reason: "registration failed: " + errors.GetMessage(err)})
		agent.Quit()
		return err
	}
	if err := c.Run(ctx); err != nil {
		agent.Quit()
		return err
	}
	return nil
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.t.Close()
}
