package rules

import (
	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/level"
)

// LevelStatus decides whether the level is over. A player is done once it
// exited, was ejected, or is eliminated from the game. The level is won when
// every player is done and at least one of them exited, lost when every
// player is done and none exited. A terminal level keeps its status.
func LevelStatus(lvl *level.Level, roster *actor.Roster) level.Status {
	if lvl.Status().Terminal() || lvl.Status() == level.StatusNotStarted {
		return lvl.Status()
	}

	exited := false
	for _, p := range roster.Players() {
		if p.Active() {
			return level.StatusActive
		}
		if p.HasExited {
			exited = true
		}
	}
	if exited {
		return level.StatusWon
	}
	return level.StatusLost
}
