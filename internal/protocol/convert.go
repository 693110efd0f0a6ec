package protocol

import (
	"fmt"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/visibility"
)

// FromEvent converts a controller event into its wire message. Events with
// no wire form (observations, local turn requests) report false.
func FromEvent(evt dungeon.Event) (Message, bool) {
	switch e := evt.(type) {
	case dungeon.LevelStartEvent:
		return LevelStart{LevelIndex: e.LevelIndex, PlayerNames: e.PlayerNames}, true
	case dungeon.StateUpdateEvent:
		return StateUpdate{
			Level:       e.LevelIndex,
			Origin:      CoordOf(e.View.Origin),
			VisibleGrid: e.View.Names(),
			Position:    CoordOf(e.Position),
			Health:      e.Health,
			Flags:       Flags{KeyFound: e.KeyFound, HasExited: e.HasExited, IsEjected: e.IsEjected},
		}, true
	case dungeon.LevelEndEvent:
		return LevelEnd{
			Level:     e.LevelIndex,
			Status:    e.Status.String(),
			KeyFinder: e.KeyFinder,
			Exited:    e.Exited,
			Ejected:   e.Ejected,
		}, true
	case dungeon.GameEndEvent:
		players := make([]PlayerStats, len(e.Players))
		for i, p := range e.Players {
			players[i] = PlayerStats(p)
		}
		return GameEnd{Status: e.Status.String(), Players: players}, true
	case dungeon.ErrorEvent:
		return Error{Reason: e.Reason}, true
	}
	return nil, false
}

// FromTurnRequest converts a turn request for the wire.
func FromTurnRequest(req dungeon.TurnRequest) TurnRequest {
	m := TurnRequest{
		Level:             req.LevelIndex,
		Round:             req.Round,
		Position:          CoordOf(req.Position),
		ValidDestinations: coords(req.Destinations),
	}
	if req.View.Grid != nil {
		m.Origin = CoordOf(req.View.Origin)
		m.VisibleGrid = req.View.Names()
	}
	return m
}

// ToTurnRequest converts a wire turn request back.
func ToTurnRequest(m TurnRequest) (dungeon.TurnRequest, error) {
	req := dungeon.TurnRequest{
		LevelIndex:   m.Level,
		Round:        m.Round,
		Position:     m.Position.Point(),
		Destinations: points(m.ValidDestinations),
	}
	if m.VisibleGrid != nil {
		view, err := viewFromNames(m.Origin, m.Position, m.VisibleGrid)
		if err != nil {
			return dungeon.TurnRequest{}, err
		}
		req.View = view
	}
	return req, nil
}

// ToEvent converts a server message into the event a client-side handler
// consumes.
func ToEvent(msg Message) (dungeon.Event, error) {
	switch m := msg.(type) {
	case LevelStart:
		return dungeon.LevelStartEvent{LevelIndex: m.LevelIndex, PlayerNames: m.PlayerNames}, nil
	case StateUpdate:
		view, err := viewFromNames(m.Origin, m.Position, m.VisibleGrid)
		if err != nil {
			return nil, err
		}
		return dungeon.StateUpdateEvent{
			LevelIndex: m.Level,
			Position:   m.Position.Point(),
			Health:     m.Health,
			KeyFound:   m.Flags.KeyFound,
			HasExited:  m.Flags.HasExited,
			IsEjected:  m.Flags.IsEjected,
			View:       view,
		}, nil
	case LevelEnd:
		status, ok := level.ParseStatus(m.Status)
		if !ok {
			return nil, errors.Protocolf("level-end: unknown status %q", m.Status)
		}
		return dungeon.LevelEndEvent{
			LevelIndex: m.Level,
			Status:     status,
			KeyFinder:  m.KeyFinder,
			Exited:     m.Exited,
			Ejected:    m.Ejected,
		}, nil
	case GameEnd:
		status, ok := level.ParseStatus(m.Status)
		if !ok {
			return nil, errors.Protocolf("game-end: unknown status %q", m.Status)
		}
		players := make([]dungeon.PlayerStats, len(m.Players))
		for i, p := range m.Players {
			players[i] = dungeon.PlayerStats(p)
		}
		return dungeon.GameEndEvent{Status: status, Players: players}, nil
	case Error:
		return dungeon.ErrorEvent{Reason: m.Reason}, nil
	case TurnRequest:
		req, err := ToTurnRequest(m)
		if err != nil {
			return nil, err
		}
		return dungeon.TurnRequestEvent{Request: req}, nil
	}
	return nil, errors.Protocolf("%s is not a server event", msg.MessageType())
}

func viewFromNames(origin, center Coord, names [][]string) (visibility.View, error) {
	grid := make([][]visibility.EntityType, len(names))
	for r, row := range names {
		grid[r] = make([]visibility.EntityType, len(row))
		for c, name := range row {
			e, err := visibility.ParseEntityType(name)
			if err != nil {
				return visibility.View{}, errors.WrapWithCode(err, errors.CodeProtocol,
					fmt.Sprintf("state-update: cell (%d, %d)", r, c))
			}
			grid[r][c] = e
		}
	}
	return visibility.View{Origin: origin.Point(), Center: center.Point(), Grid: grid}, nil
}
