package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/platform/tui"
	"github.com/vovakirdan/tui-dungeon/internal/storage"
)

var (
	flagResultsLimit int
	flagResultsGame  string
	flagResultsPlain bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Browse finished games and the leaderboard",
	Long: `Show the games recorded in the results database.

In a terminal this opens a browser with a recent-games tab and a
leaderboard tab (Tab switches). With --plain, or when the output is not a
terminal, it prints text instead. --game prints one game in detail.

Examples:
  dungeon results
  dungeon results --plain --limit 5
  dungeon results --game 3f2a9c1e-...
  dungeon results --db postgres://dungeon@localhost/dungeon`,
	Run: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagResultsLimit, "limit", 10, "Number of games and players to print")
	resultsCmd.Flags().StringVar(&flagResultsGame, "game", "", "Print one game by ID")
	resultsCmd.Flags().BoolVar(&flagResultsPlain, "plain", false, "Print text instead of opening the browser")
}

func runResults(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Storage.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	if flagResultsGame != "" {
		result, err := store.Game(ctx, flagResultsGame)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving game: %v\n", err)
			os.Exit(1)
		}
		if result == nil {
			fmt.Fprintf(os.Stderr, "Error: no game %q\n", flagResultsGame)
			os.Exit(1)
		}
		printResult(os.Stdout, *result)
		return
	}

	if !flagResultsPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := terminalSize()
		p := tea.NewProgram(tui.NewResultsModel(store, width, height), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := printResults(ctx, os.Stdout, store, flagResultsLimit); err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}
}

// printResults writes the recent games and the leaderboard as text.
func printResults(ctx context.Context, w io.Writer, store tui.ResultsStore, limit int) error {
	games, err := store.RecentGames(ctx, limit)
	if err != nil {
		return err
	}
	leaders, err := store.Leaderboard(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Recent games")
	fmt.Fprintln(w)
	if len(games) == 0 {
		fmt.Fprintln(w, "No games recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'dungeon play --levels <file>' to record the first one!")
		return nil
	}

	fmt.Fprintf(w, "  %-16s  %-6s  %-6s  %-7s  %-8s  %s\n", "Finished", "Status", "Levels", "Players", "Duration", "Game")
	fmt.Fprintf(w, "  %-16s  %-6s  %-6s  %-7s  %-8s  %s\n", "--------", "------", "------", "-------", "--------", "----")
	for _, g := range games {
		fmt.Fprintf(w, "  %-16s  %-6s  %-6d  %-7d  %-8s  %s\n",
			g.FinishedAt.Format("2006-01-02 15:04"), g.Status, g.Levels, g.Players,
			g.Duration().Round(time.Second), g.ID)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Leaderboard")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-4s  %-16s  %5s  %4s  %4s  %5s  %7s\n", "Rank", "Player", "Games", "Won", "Keys", "Exits", "Ejected")
	fmt.Fprintf(w, "  %-4s  %-16s  %5s  %4s  %4s  %5s  %7s\n", "----", "------", "-----", "---", "----", "-----", "-------")
	for i, p := range leaders {
		fmt.Fprintf(w, "  %-4d  %-16s  %5d  %4d  %4d  %5d  %7d\n", i+1, p.Name, p.Games, p.Won, p.KeysFound, p.Exits, p.Ejections)
	}
	return nil
}

// printResult writes one finished game.
func printResult(w io.Writer, r dungeon.Result) {
	fmt.Fprintf(w, "Game %s: %s in %s\n", r.GameID, strings.ToUpper(r.Status.String()), r.Duration().Round(time.Second))
	fmt.Fprintln(w)

	for _, lvl := range r.Levels {
		fmt.Fprintf(w, "  Level %d  %-4s  %3d rounds", lvl.Index+1, lvl.Status, lvl.Rounds)
		if lvl.KeyFinder != "" {
			fmt.Fprintf(w, "  key: %s", lvl.KeyFinder)
		}
		if len(lvl.Exited) > 0 {
			fmt.Fprintf(w, "  exited: %s", strings.Join(lvl.Exited, ", "))
		}
		if len(lvl.Ejected) > 0 {
			fmt.Fprintf(w, "  ejected: %s", strings.Join(lvl.Ejected, ", "))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-16s  %4s  %5s  %7s\n", "Player", "Keys", "Exits", "Ejected")
	for _, p := range r.Players {
		fmt.Fprintf(w, "  %-16s  %4d  %5d  %7d\n", p.Name, p.KeysFound, p.Exits, p.Ejections)
	}
}
