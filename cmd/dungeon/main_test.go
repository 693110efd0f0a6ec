package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dungeon/internal/config"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/level/leveltest"
	"github.com/vovakirdan/tui-dungeon/internal/registry"
	"github.com/vovakirdan/tui-dungeon/internal/storage"
)

func TestSampleLevelsBuild(t *testing.T) {
	loader := level.NewLoader(filepath.Join("..", "..", "levels"))

	files, err := loader.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no sample levels found")
	}
	for _, name := range files {
		t.Run(name, func(t *testing.T) {
			levels, err := loader.LoadFile(name)
			if err != nil {
				t.Fatalf("LoadFile() failed: %v", err)
			}
			if len(levels) == 0 {
				t.Error("LoadFile() returned no levels")
			}
		})
	}
}

func TestLocation(t *testing.T) {
	err := errors.MalformedLevel("door is not connected").WithMeta("room", 1).WithMeta("level", 0)
	if got := location(err); got != "level 0, room 1" {
		t.Errorf("location() = %q, expected %q", got, "level 0, room 1")
	}
	if got := location(errors.Internal("boom")); got != "" {
		t.Errorf("location() = %q for an error without metadata", got)
	}
}

func TestAdversaryPoliciesRegistered(t *testing.T) {
	for _, id := range []string{"zombie", "ghost"} {
		if !registry.Exists(id) {
			t.Errorf("policy %q is not registered", id)
		}
	}
}

func TestPrintResults(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	start := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	result := dungeon.Result{
		GameID: "game-1",
		Status: level.StatusWon,
		Levels: []dungeon.LevelResult{
			{Index: 0, Status: level.StatusWon, Rounds: 7, KeyFinder: "alice", Exited: []string{"alice"}, Ejected: []string{"bob"}},
		},
		Players: []dungeon.PlayerStats{
			{Name: "alice", KeysFound: 1, Exits: 1},
			{Name: "bob", Ejections: 1},
		},
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Minute),
	}
	ctx := context.Background()
	if err := store.SaveGame(ctx, result); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := printResults(ctx, &buf, store, 10); err != nil {
		t.Fatalf("printResults() failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"game-1", "2m0s", "alice", "bob", "Leaderboard"} {
		if !strings.Contains(out, want) {
			t.Errorf("printResults() output is missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printResult(&buf, result)
	out = buf.String()
	for _, want := range []string{"Game game-1: WON in 2m0s", "key: alice", "ejected: bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("printResult() output is missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResultsEmpty(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	var buf bytes.Buffer
	if err := printResults(context.Background(), &buf, store, 10); err != nil {
		t.Fatalf("printResults() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No games recorded yet.") {
		t.Errorf("printResults() = %q", buf.String())
	}
}

func TestHostGameFailsOnUndersizedLevel(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.Adversaries.Zombies = 3
	cfg.Adversaries.Ghosts = 0
	cfg.Storage.DSN = filepath.Join(t.TempDir(), "results.db")

	lobby := dungeon.NewLobby(1, 0)
	if err := lobby.Register(dungeon.NewLocalAgent("alice")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	// A 2x2 room has two free tiles for four actors.
	levels := []*level.Level{leveltest.MustNew(0, leveltest.OpenRoom(2, 2))}
	_, err := hostGame(context.Background(), cfg, lobby, levels, log.New(io.Discard))
	if err == nil {
		t.Fatal("hostGame() succeeded on a level without room for every actor")
	}
	if !errors.IsMalformedLevel(err) {
		t.Errorf("hostGame() error = %v, expected a malformed level", err)
	}
}

func TestHostGameFailsWithoutPlayers(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.Storage.DSN = filepath.Join(t.TempDir(), "results.db")

	lobby := dungeon.NewLobby(1, 10*time.Millisecond)
	levels := []*level.Level{leveltest.MustNew(0, leveltest.OpenRoom(3, 4))}
	_, err := hostGame(context.Background(), cfg, lobby, levels, log.New(io.Discard))
	if !errors.IsRegistration(err) {
		t.Errorf("hostGame() error = %v, expected a registration error", err)
	}
}
