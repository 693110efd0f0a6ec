package dungeon

import (
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/rules"
	"github.com/vovakirdan/tui-dungeon/internal/visibility"
)

// Event is pushed from the controller to agents and observers.
type Event interface {
	dungeonEvent()
}

// LevelStartEvent announces a level before its first round.
type LevelStartEvent struct {
	LevelIndex  int
	PlayerNames []string
}

func (LevelStartEvent) dungeonEvent() {}

// StateUpdateEvent carries one player's fresh view after any action.
type StateUpdateEvent struct {
	LevelIndex int
	Position   core.Point
	Health     int
	KeyFound   bool
	HasExited  bool
	IsEjected  bool
	View       visibility.View
}

func (StateUpdateEvent) dungeonEvent() {}

// TurnRequestEvent asks a local agent's front end for a destination.
type TurnRequestEvent struct {
	Request TurnRequest
}

func (TurnRequestEvent) dungeonEvent() {}

// LevelEndEvent reports the outcome of a finished level.
type LevelEndEvent struct {
	LevelIndex int
	Status     level.Status
	KeyFinder  string
	Exited     []string
	Ejected    []string
}

func (LevelEndEvent) dungeonEvent() {}

// GameEndEvent reports cumulative statistics once the game is over.
type GameEndEvent struct {
	Status  level.Status
	Players []PlayerStats
}

func (GameEndEvent) dungeonEvent() {}

// ErrorEvent reports a rejected action to the actor that sent it.
type ErrorEvent struct {
	Reason string
}

func (ErrorEvent) dungeonEvent() {}

// ObservationEvent is sent to observers after every applied action with the
// whole level visible.
type ObservationEvent struct {
	LevelIndex int
	Round      int
	Outcome    rules.Outcome
	View       visibility.View
}

func (ObservationEvent) dungeonEvent() {}

// PlayerStats are the cumulative counters of one player.
type PlayerStats struct {
	Name      string
	KeysFound int
	Exits     int
	Ejections int
}
