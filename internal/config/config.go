// Package config provides YAML-based engine configuration: rule tunables,
// turn timing, registration, adversaries, listeners and storage.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/rules"
	"github.com/vovakirdan/tui-dungeon/internal/visibility"
)

// EngineConfig contains all configuration for a dungeon game.
type EngineConfig struct {
	Rules        RulesConfig        `yaml:"rules"`
	Turns        TurnsConfig        `yaml:"turns"`
	Registration RegistrationConfig `yaml:"registration"`
	Adversaries  AdversaryConfig    `yaml:"adversaries"`
	Server       ServerConfig       `yaml:"server"`
	Storage      StorageConfig      `yaml:"storage"`
}

// RulesConfig tunes the rule checker and the view engine.
type RulesConfig struct {
	MoveBound  int  `yaml:"move_bound"` // path distance reachable in one turn
	Diagonal   bool `yaml:"diagonal"`   // 8-way instead of 4-way adjacency
	Collisions bool `yaml:"collisions"` // adversaries may step onto players
	LitRadius  int  `yaml:"lit_radius"` // view half-width
	MaxHealth  int  `yaml:"max_health"`
}

// TurnsConfig bounds how long the controller waits on actors.
type TurnsConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"` // re-prompts for an invalid local move
	MaxRounds  int           `yaml:"max_rounds"`  // 0 = unbounded
}

// RegistrationConfig controls the lobby.
type RegistrationConfig struct {
	Players int           `yaml:"players"`
	Wait    time.Duration `yaml:"wait"` // 0 = wait until full
}

// AdversaryConfig sets the server-side adversaries spawned for a game.
type AdversaryConfig struct {
	Zombies int   `yaml:"zombies"`
	Ghosts  int   `yaml:"ghosts"`
	Seed    int64 `yaml:"seed"` // 0 = time-based
}

// ServerConfig holds listener addresses.
type ServerConfig struct {
	WSAddr  string `yaml:"ws_addr"`
	SSHAddr string `yaml:"ssh_addr"`
	HostKey string `yaml:"host_key"`
}

// StorageConfig locates the results database. A postgres:// DSN selects
// PostgreSQL; anything else is a SQLite file path.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// Validate reports the first nonsensical value.
func (c EngineConfig) Validate() error {
	switch {
	case c.Rules.MoveBound < 1:
		return fmt.Errorf("rules.move_bound must be at least 1, got %d", c.Rules.MoveBound)
	case c.Rules.LitRadius < 0:
		return fmt.Errorf("rules.lit_radius must not be negative, got %d", c.Rules.LitRadius)
	case c.Turns.Timeout < 0:
		return fmt.Errorf("turns.timeout must not be negative, got %s", c.Turns.Timeout)
	case c.Turns.MaxRetries < 0:
		return fmt.Errorf("turns.max_retries must not be negative, got %d", c.Turns.MaxRetries)
	case c.Registration.Players < 1:
		return fmt.Errorf("registration.players must be at least 1, got %d", c.Registration.Players)
	case c.Adversaries.Zombies < 0 || c.Adversaries.Ghosts < 0:
		return fmt.Errorf("adversary counts must not be negative")
	}
	return nil
}

// Checker builds the rule checker these settings describe.
func (c EngineConfig) Checker() *rules.Checker {
	return &rules.Checker{
		MoveBound:  c.Rules.MoveBound,
		Diagonal:   c.Rules.Diagonal,
		Collisions: c.Rules.Collisions,
	}
}

// Controller converts the settings into controller tunables.
func (c EngineConfig) Controller() dungeon.Config {
	return dungeon.Config{
		TurnTimeout: c.Turns.Timeout,
		MaxRetries:  c.Turns.MaxRetries,
		MaxRounds:   c.Turns.MaxRounds,
		MaxHealth:   c.Rules.MaxHealth,
		Checker:     c.Checker(),
		Vis:         &visibility.Engine{LitRadius: c.Rules.LitRadius},
	}
}
