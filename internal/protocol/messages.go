// Package protocol adapts the engine to remote clients. Every message travels
// as a JSON envelope {"type": ..., "payload": ...}; points are [row, col]
// arrays and view grids are rows of entity names.
package protocol

import (
	"encoding/json"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// MessageType names a message kind on the wire.
type MessageType string

const (
	TypeRegister     MessageType = "register"
	TypeRegistered   MessageType = "registered"
	TypeRejected     MessageType = "rejected"
	TypeLevelStart   MessageType = "level-start"
	TypeTurnRequest  MessageType = "turn-request"
	TypeTurnResponse MessageType = "turn-response"
	TypeStateUpdate  MessageType = "state-update"
	TypeLevelEnd     MessageType = "level-end"
	TypeGameEnd      MessageType = "game-end"
	TypeError        MessageType = "error"
)

// Envelope is the outer frame of every message.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message is any payload that can be framed.
type Message interface {
	MessageType() MessageType
}

// Coord is a point as sent on the wire.
type Coord [2]int

// CoordOf converts a point.
func CoordOf(p core.Point) Coord {
	return Coord{p.Row, p.Col}
}

// Point converts back to a point.
func (c Coord) Point() core.Point {
	return core.Pt(c[0], c[1])
}

// UnmarshalJSON accepts exactly one [row, col] pair.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var xs []int
	if err := json.Unmarshal(data, &xs); err != nil {
		return err
	}
	if len(xs) != 2 {
		return errors.Protocolf("point needs 2 coordinates, got %d", len(xs))
	}
	c[0], c[1] = xs[0], xs[1]
	return nil
}

func coords(pts []core.Point) []Coord {
	out := make([]Coord, len(pts))
	for i, p := range pts {
		out[i] = CoordOf(p)
	}
	return out
}

func points(cs []Coord) []core.Point {
	out := make([]core.Point, len(cs))
	for i, c := range cs {
		out[i] = c.Point()
	}
	return out
}

// Register is the first message a client sends. Kind is empty or "player"
// for players, "zombie" or "ghost" for adversary clients.
type Register struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

// Registered accepts a registration.
type Registered struct {
	ID string `json:"id"`
}

// Rejected refuses a registration.
type Rejected struct {
	Reason string `json:"reason"`
}

// LevelStart announces a level.
type LevelStart struct {
	LevelIndex  int      `json:"levelIndex"`
	PlayerNames []string `json:"playerNames"`
}

// TurnRequest asks the client for its move. The view is what the actor
// sees at the start of its turn; adversary clients, which get no state
// updates, steer by it.
type TurnRequest struct {
	Level             int        `json:"level"`
	Round             int        `json:"round"`
	Position          Coord      `json:"position"`
	ValidDestinations []Coord    `json:"validDestinations"`
	Origin            Coord      `json:"origin"`
	VisibleGrid       [][]string `json:"visibleGrid,omitempty"`
}

// TurnResponse answers a turn request. Level and Round echo the request so
// that an answer arriving after its turn is over can be told apart.
type TurnResponse struct {
	Level       int   `json:"level"`
	Round       int   `json:"round"`
	Destination Coord `json:"destination"`
}

// Flags are the per-level player flags.
type Flags struct {
	KeyFound  bool `json:"keyFound"`
	HasExited bool `json:"hasExited"`
	IsEjected bool `json:"isEjected"`
}

// StateUpdate is a player's fresh view after an action.
type StateUpdate struct {
	Level       int        `json:"level"`
	Origin      Coord      `json:"origin"`
	VisibleGrid [][]string `json:"visibleGrid"`
	Position    Coord      `json:"position"`
	Health      int        `json:"health"`
	Flags       Flags      `json:"flags"`
}

// LevelEnd reports a finished level.
type LevelEnd struct {
	Level     int      `json:"level"`
	Status    string   `json:"status"`
	KeyFinder string   `json:"keyFinder"`
	Exited    []string `json:"exited"`
	Ejected   []string `json:"ejected"`
}

// PlayerStats are one player's end-of-game counters.
type PlayerStats struct {
	Name      string `json:"name"`
	KeysFound int    `json:"keysFound"`
	Exits     int    `json:"exits"`
	Ejections int    `json:"ejections"`
}

// GameEnd reports the end of the game.
type GameEnd struct {
	Status  string        `json:"status"`
	Players []PlayerStats `json:"players"`
}

// Error reports a malformed or out-of-turn message, or a rejected move.
type Error struct {
	Reason string `json:"reason"`
}

func (Register) MessageType() MessageType     { return TypeRegister }
func (Registered) MessageType() MessageType   { return TypeRegistered }
func (Rejected) MessageType() MessageType     { return TypeRejected }
func (LevelStart) MessageType() MessageType   { return TypeLevelStart }
func (TurnRequest) MessageType() MessageType  { return TypeTurnRequest }
func (TurnResponse) MessageType() MessageType { return TypeTurnResponse }
func (StateUpdate) MessageType() MessageType  { return TypeStateUpdate }
func (LevelEnd) MessageType() MessageType     { return TypeLevelEnd }
func (GameEnd) MessageType() MessageType      { return TypeGameEnd }
func (Error) MessageType() MessageType        { return TypeError }
