package dungeon

import (
	"context"
	"time"

	"github.com/vovakirdan/tui-dungeon/internal/level"
)

//go:generate mockgen -destination=mock/mock_saver.go -package=dungeonmock github.com/vovakirdan/tui-dungeon/internal/dungeon ResultSaver

// ResultSaver persists finished games. The controller works without one.
type ResultSaver interface {
	SaveGame(ctx context.Context, result Result) error
}

// LevelResult is the outcome of one played level.
type LevelResult struct {
	Index     int
	Status    level.Status
	Rounds    int
	KeyFinder string
	Exited    []string
	Ejected   []string
}

// Result describes a finished game.
type Result struct {
	GameID     string
	Status     level.Status
	Levels     []LevelResult
	Players    []PlayerStats
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the game ran.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
