// dungeon is a turn-based multiplayer dungeon crawler played in the terminal.
//
// Usage:
//
//	dungeon serve --levels <file>   - Host a game for websocket and SSH players
//	dungeon play --levels <file>    - Play a local single-player game
//	dungeon join                    - Join a hosted game as a player or adversary
//	dungeon validate <file>...      - Check level files
//	dungeon results                 - Browse finished games and the leaderboard
//	dungeon list                    - List adversary policies
//
// Global flags:
//
//	--config <path>     - Engine config YAML (default search: ~/.dungeon, ./configs)
//	--db <dsn>          - Results database: SQLite path or postgres:// URL
//	--log-level <lvl>   - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dungeon/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dungeon",
	Short: "Dungeon - a turn-based multiplayer dungeon crawler",
	Long: `Dungeon is a turn-based dungeon crawler for the terminal. Players race
through rooms and hallways to find the key and reach the exit while zombies
and ghosts hunt them.

Available commands:
  serve     - Host a game (websocket + SSH)
  play      - Play a local single-player game
  join      - Join a hosted game
  validate  - Check level files
  results   - Browse finished games
  list      - List adversary policies

Examples:
  dungeon play --levels levels/tutorial.yaml
  dungeon serve --levels levels/dungeon.levels --players 2
  dungeon join --url ws://localhost:8080/ws --name alice
  ssh localhost -p 2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Results database (SQLite path or postgres:// URL)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(listCmd)
}

// loadConfig loads the engine config and applies the global overrides.
func loadConfig() config.EngineConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.Storage.DSN = flagDBPath
	}
	return cfg
}

// newLogger creates a logger writing to stderr at the --log-level level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
