package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/dungeon.yaml
var defaultEngineYAML []byte

// DefaultEngineConfig returns the built-in engine configuration. It matches
// the embedded defaults/dungeon.yaml.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Rules: RulesConfig{
			MoveBound:  2,
			Diagonal:   false,
			Collisions: true,
			LitRadius:  2,
			MaxHealth:  3,
		},
		Turns: TurnsConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			MaxRounds:  500,
		},
		Registration: RegistrationConfig{
			Players: 1,
			Wait:    60 * time.Second,
		},
		Adversaries: AdversaryConfig{
			Zombies: 2,
			Ghosts:  1,
		},
		Server: ServerConfig{
			WSAddr:  ":8080",
			SSHAddr: ":2222",
			HostKey: ".ssh/dungeon_ed25519",
		},
		Storage: StorageConfig{
			DSN: "~/.dungeon/results.db",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultEngineYAML
}
