package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/platform/tui"
)

var (
	flagPlayLevels string
	flagPlayName   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a local single-player game",
	Long: `Play every level of a level file alone against the configured adversaries.

Controls:
  Arrows/WASD  - Move the cursor (hjkl also works)
  .            - Put the cursor back on yourself (stay)
  Enter/Space  - Move to the cursor
  ?            - Toggle help
  Q/Ctrl+C     - Quit

Examples:
  dungeon play --levels levels/tutorial.yaml
  dungeon play --levels levels/dungeon.levels --name alice`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayLevels, "levels", "", "Level file (.levels, .json, .yaml)")
	playCmd.Flags().StringVar(&flagPlayName, "name", "", "Player name (default: $USER)")
	playCmd.MarkFlagRequired("levels")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	levels := mustLoadLevels(flagPlayLevels)

	// The terminal belongs to the UI, so engine logs are dropped unless debugging.
	logger := log.New(io.Discard)
	if flagLogLevel == "debug" {
		logger = newLogger("dungeon")
	}

	agent := dungeon.NewLocalAgent(playerName(flagPlayName))
	ctrl, store := newController(cfg, levels, []dungeon.Agent{agent}, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type outcome struct {
		result dungeon.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := ctrl.Run(ctx)
		done <- outcome{result, err}
	}()

	width, height := terminalSize()
	p := tea.NewProgram(tui.NewModel(agent, width, height), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
	}

	// Leaving the UI early forfeits the game.
	agent.Quit()
	out := <-done
	if out.err != nil {
		fmt.Fprintf(os.Stderr, "Game aborted: %v\n", out.err)
		os.Exit(1)
	}
	printResult(os.Stdout, out.result)
}

// playerName returns name, falling back to the login name.
func playerName(name string) string {
	if name != "" {
		return name
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "player"
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}
