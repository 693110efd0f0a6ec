package protocol_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/level/leveltest"
	"github.com/vovakirdan/tui-dungeon/internal/protocol"
)

func startAgent(t *testing.T, reg protocol.Register) (*protocol.RemoteAgent, protocol.Transport) {
	t.Helper()
	server, client := protocol.Pipe()
	agent, err := protocol.NewRemoteAgent(reg, server)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	agent.Start(ctx)
	return agent, client
}

func receive(t *testing.T, tr protocol.Transport) protocol.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := protocol.Receive(ctx, tr)
	require.NoError(t, err)
	return msg
}

func TestRemoteAgentKinds(t *testing.T) {
	tests := []struct {
		kind     string
		expected actor.Kind
		advKind  actor.AdversaryKind
	}{
		{"", actor.KindPlayer, actor.Zombie},
		{"player", actor.KindPlayer, actor.Zombie},
		{"zombie", actor.KindAdversary, actor.Zombie},
		{"Ghost", actor.KindAdversary, actor.Ghost},
	}

	for _, tt := range tests {
		a, err := protocol.NewRemoteAgent(protocol.Register{Name: "x", Kind: tt.kind}, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, a.Kind(), "kind %q", tt.kind)
		if tt.expected == actor.KindAdversary {
			assert.Equal(t, tt.advKind, a.AdversaryKind())
		}
		assert.True(t, a.Remote())
	}

	_, err := protocol.NewRemoteAgent(protocol.Register{Name: "x", Kind: "dragon"}, nil)
	assert.True(t, errors.IsRegistration(err))
}

func TestRemoteAgentRequestMove(t *testing.T) {
	agent, client := startAgent(t, protocol.Register{Name: "alice"})

	go func() {
		ctx := context.Background()
		msg, err := protocol.Receive(ctx, client)
		if err != nil {
			return
		}
		req := msg.(protocol.TurnRequest)
		protocol.Send(client, protocol.TurnResponse{
			Level:       req.Level,
			Round:       req.Round,
			Destination: req.ValidDestinations[1],
		})
	}()

	req := dungeon.TurnRequest{
		LevelIndex:   0,
		Round:        1,
		Position:     core.Pt(0, 0),
		Destinations: []core.Point{core.Pt(0, 0), core.Pt(1, 1)},
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	dst, err := agent.RequestMove(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, core.Pt(1, 1), dst)
}

func TestRemoteAgentRejectsOutOfTurnResponse(t *testing.T) {
	_, client := startAgent(t, protocol.Register{Name: "alice"})

	require.NoError(t, protocol.Send(client, protocol.TurnResponse{Destination: protocol.Coord{1, 1}}))

	msg := receive(t, client)
	require.IsType(t, protocol.Error{}, msg)
	assert.Contains(t, msg.(protocol.Error).Reason, "out of turn")
}

func TestRemoteAgentAnswersMalformedMessage(t *testing.T) {
	_, client := startAgent(t, protocol.Register{Name: "alice"})

	require.NoError(t, client.WriteMessage([]byte(`{"type":"bogus"}`)))
	require.IsType(t, protocol.Error{}, receive(t, client))

	require.NoError(t, protocol.Send(client, protocol.Register{Name: "again"}))
	msg := receive(t, client)
	require.IsType(t, protocol.Error{}, msg)
	assert.Contains(t, msg.(protocol.Error).Reason, "unexpected register")
}

func TestRemoteAgentTimeout(t *testing.T) {
	agent, client := startAgent(t, protocol.Register{Name: "alice"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := agent.RequestMove(ctx, dungeon.TurnRequest{Position: core.Pt(0, 0)})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.IsType(t, protocol.TurnRequest{}, receive(t, client))

	// A late answer is out of turn once the request has timed out.
	require.NoError(t, protocol.Send(client, protocol.TurnResponse{}))
	require.IsType(t, protocol.Error{}, receive(t, client))
}

func TestRemoteAgentRejectsStaleResponse(t *testing.T) {
	agent, client := startAgent(t, protocol.Register{Name: "alice"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	first := dungeon.TurnRequest{
		Round:        1,
		Position:     core.Pt(0, 0),
		Destinations: []core.Point{core.Pt(0, 0), core.Pt(1, 1)},
	}
	_, err := agent.RequestMove(ctx, first)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.IsType(t, protocol.TurnRequest{}, receive(t, client))

	type result struct {
		dst core.Point
		err error
	}
	second := make(chan result, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		dst, err := agent.RequestMove(ctx, dungeon.TurnRequest{
			Round:        2,
			Position:     core.Pt(1, 1),
			Destinations: []core.Point{core.Pt(1, 1), core.Pt(2, 2)},
		})
		second <- result{dst, err}
	}()
	req := receive(t, client).(protocol.TurnRequest)
	require.Equal(t, 2, req.Round)

	// The round-1 answer arrives while round 2 is pending.
	require.NoError(t, protocol.Send(client, protocol.TurnResponse{Round: 1, Destination: protocol.Coord{1, 1}}))
	msg := receive(t, client)
	require.IsType(t, protocol.Error{}, msg)
	assert.Contains(t, msg.(protocol.Error).Reason, "stale")

	require.NoError(t, protocol.Send(client, protocol.TurnResponse{Round: 2, Destination: protocol.Coord{2, 2}}))
	r := <-second
	require.NoError(t, r.err)
	assert.Equal(t, core.Pt(2, 2), r.dst)
}

func TestRemoteAgentNotifyNeverBlocks(t *testing.T) {
	agent, _ := startAgent(t, protocol.Register{Name: "alice"})

	// Nobody reads the client end.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 2 * protocol.PipeBuffer {
			agent.Notify(dungeon.LevelStartEvent{PlayerNames: []string{"alice"}})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a client that stopped reading")
	}

	select {
	case <-agent.Done():
	case <-time.After(time.Second):
		t.Fatal("a client that stopped reading was not disconnected")
	}
	_, err := agent.RequestMove(context.Background(), dungeon.TurnRequest{})
	assert.True(t, errors.IsDisconnect(err), "RequestMove() error = %v, expected a disconnect", err)
}

func TestRemoteAgentDisconnect(t *testing.T) {
	agent, client := startAgent(t, protocol.Register{Name: "alice"})
	require.NoError(t, client.Close())

	select {
	case <-agent.Done():
	case <-time.After(time.Second):
		t.Fatal("agent did not notice the disconnect")
	}

	_, err := agent.RequestMove(context.Background(), dungeon.TurnRequest{})
	require.Error(t, err)
	assert.True(t, errors.IsDisconnect(err), "RequestMove() error = %v, expected a disconnect", err)
}

func TestHandshake(t *testing.T) {
	lobby := dungeon.NewLobby(1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	join := func(name, kind string) (*protocol.RemoteAgent, string, error) {
		server, clientEnd := protocol.Pipe()
		client := protocol.NewClient(clientEnd, nil)

		type result struct {
			id  string
			err error
		}
		done := make(chan result, 1)
		go func() {
			id, err := client.Register(ctx, name, kind)
			done <- result{id, err}
		}()

		agent, _ := protocol.Handshake(ctx, server, lobby)
		r := <-done
		return agent, r.id, r.err
	}

	agent, id, err := join("alice", "")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NotNil(t, agent)
	assert.Equal(t, "alice", agent.Name())

	_, _, err = join("alice", "zombie")
	assert.True(t, errors.IsRegistration(err), "duplicate name: %v", err)

	_, _, err = join("bob", "")
	assert.True(t, errors.IsRegistration(err), "over capacity: %v", err)

	agent, _, err = join("z1", "zombie")
	require.NoError(t, err)
	assert.Equal(t, actor.KindAdversary, agent.Kind())

	agents, err := lobby.Wait(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 2)
}

func TestHandshakeRequiresRegister(t *testing.T) {
	server, client := protocol.Pipe()
	require.NoError(t, protocol.Send(client, protocol.TurnResponse{}))

	_, err := protocol.Handshake(context.Background(), server, dungeon.NewLobby(1, 0))
	assert.True(t, errors.IsProtocol(err))
	require.IsType(t, protocol.Rejected{}, receive(t, client))
}

// routeHandler plays a fixed route and records what it is told.
type routeHandler struct {
	mu     sync.Mutex
	route  []core.Point
	events []dungeon.Event
}

func (h *routeHandler) HandleEvent(evt dungeon.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evt)
}

func (h *routeHandler) ChooseMove(_ context.Context, req dungeon.TurnRequest) (core.Point, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.route) == 0 {
		return req.Position, nil
	}
	p := h.route[0]
	h.route = h.route[1:]
	return p, nil
}

// stallHandler stalls on round 1 until it is cancelled and answers every
// other round with the first destination.
type stallHandler struct {
	events    chan dungeon.Event
	cancelled chan struct{}
}

func (h *stallHandler) HandleEvent(evt dungeon.Event) {
	h.events <- evt
}

func (h *stallHandler) ChooseMove(ctx context.Context, req dungeon.TurnRequest) (core.Point, error) {
	if req.Round == 1 {
		<-ctx.Done()
		close(h.cancelled)
		return core.Point{}, ctx.Err()
	}
	return req.Destinations[0], nil
}

func TestClientKeepsReadingWhileChoosing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server, clientEnd := protocol.Pipe()
	handler := &stallHandler{events: make(chan dungeon.Event, 8), cancelled: make(chan struct{})}
	client := protocol.NewClient(clientEnd, handler)
	runDone := make(chan error, 1)
	go func() { runDone <- client.Run(ctx) }()

	turn := func(round int, dst protocol.Coord) protocol.TurnRequest {
		return protocol.TurnRequest{Round: round, Position: dst, ValidDestinations: []protocol.Coord{dst}}
	}
	require.NoError(t, protocol.Send(server, turn(1, protocol.Coord{1, 1})))

	// Events still arrive while round 1 is undecided.
	require.NoError(t, protocol.Send(server, protocol.LevelStart{PlayerNames: []string{"alice"}}))
	select {
	case evt := <-handler.events:
		assert.IsType(t, dungeon.LevelStartEvent{}, evt)
	case <-ctx.Done():
		t.Fatal("event not delivered while a move was pending")
	}

	// A newer request abandons round 1 and only round 2 is answered.
	require.NoError(t, protocol.Send(server, turn(2, protocol.Coord{2, 2})))
	select {
	case <-handler.cancelled:
	case <-ctx.Done():
		t.Fatal("superseded move was not cancelled")
	}
	resp := receive(t, server).(protocol.TurnResponse)
	assert.Equal(t, 2, resp.Round)
	assert.Equal(t, protocol.Coord{2, 2}, resp.Destination)

	require.NoError(t, protocol.Send(server, protocol.GameEnd{Status: "won"}))
	require.NoError(t, <-runDone)
}

func TestClientPlaysAGame(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lobby := dungeon.NewLobby(1, 0)
	server, clientEnd := protocol.Pipe()
	handler := &routeHandler{route: []core.Point{core.Pt(1, 1), core.Pt(2, 2), core.Pt(2, 3)}}
	client := protocol.NewClient(clientEnd, handler)

	registered := make(chan error, 1)
	go func() {
		_, err := client.Register(ctx, "alice", "")
		registered <- err
	}()
	_, err := protocol.Handshake(ctx, server, lobby)
	require.NoError(t, err)
	require.NoError(t, <-registered)

	agents, err := lobby.Wait(ctx)
	require.NoError(t, err)

	lvls := []*level.Level{leveltest.MustNew(0, leveltest.OpenRoom(3, 4))}
	ctrl, err := dungeon.NewController(lvls, agents, dungeon.DefaultConfig(), nil)
	require.NoError(t, err)

	clientDone := make(chan error, 1)
	go func() { clientDone <- client.Run(ctx) }()

	result, err := ctrl.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, level.StatusWon, result.Status)
	require.NoError(t, <-clientDone)

	handler.mu.Lock()
	defer handler.mu.Unlock()
	require.NotEmpty(t, handler.events)
	last := handler.events[len(handler.events)-1].(dungeon.GameEndEvent)
	assert.Equal(t, level.StatusWon, last.Status)
	assert.Equal(t, []dungeon.PlayerStats{{Name: "alice", KeysFound: 1, Exits: 1}}, last.Players)
}
