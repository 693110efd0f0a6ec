package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dungeon/internal/adversary"
	"github.com/vovakirdan/tui-dungeon/internal/config"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/storage"
)

// mustLoadLevels loads a level file or exits with its error.
func mustLoadLevels(path string) []*level.Level {
	levels, err := level.NewLoader("").LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}
	return levels
}

// newController adds the configured adversaries to agents and creates the
// controller. Results are saved when the results database opens; the game
// still runs without it.
func newController(cfg config.EngineConfig, levels []*level.Level, agents []dungeon.Agent, logger *log.Logger) (*dungeon.Controller, *storage.Store) {
	seed := cfg.Adversaries.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	adversaries, err := adversary.Spawn(cfg.Adversaries.Zombies, cfg.Adversaries.Ghosts, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating adversaries: %v\n", err)
		os.Exit(1)
	}
	agents = append(agents, adversaries...)

	ctrl, err := dungeon.NewController(levels, agents, cfg.Controller(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.DSN)
	if err != nil {
		logger.Warn("could not open results database", "err", err)
		return ctrl, nil
	}
	ctrl.SetResultSaver(store)
	return ctrl, store
}
