package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/adversary"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/platform/tui"
	"github.com/vovakirdan/tui-dungeon/internal/protocol"
)

var (
	flagJoinURL  string
	flagJoinName string
	flagJoinAs   string
	flagJoinSeed int64
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join a hosted game",
	Long: `Connect to a server started with 'dungeon serve' over websocket.

Without --as you play with the terminal client. With --as zombie or
--as ghost this process plays an adversary using the built-in policy and
logs what happens instead of drawing a UI.

Examples:
  dungeon join --name alice
  dungeon join --url ws://dungeon.example.com:8080/ws --name bob
  dungeon join --as zombie --name grr`,
	Run: runJoin,
}

func init() {
	joinCmd.Flags().StringVar(&flagJoinURL, "url", "ws://localhost:8080/ws", "Server websocket URL")
	joinCmd.Flags().StringVar(&flagJoinName, "name", "", "Name to register (default: $USER)")
	joinCmd.Flags().StringVar(&flagJoinAs, "as", "", "Join as an adversary: zombie or ghost")
	joinCmd.Flags().Int64Var(&flagJoinSeed, "seed", 0, "Adversary RNG seed (0 = random based on time)")
}

func runJoin(_ *cobra.Command, _ []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := protocol.DialWS(ctx, flagJoinURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting: %v\n", err)
		os.Exit(1)
	}
	defer t.Close()

	name := playerName(flagJoinName)
	if flagJoinAs != "" {
		if err := joinAsAdversary(ctx, t, name); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	agent := dungeon.NewLocalAgent(name)
	played := make(chan error, 1)
	go func() { played <- protocol.Play(ctx, t, agent) }()

	width, height := terminalSize()
	p := tea.NewProgram(tui.NewModel(agent, width, height), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running client: %v\n", err)
	}
	agent.Quit()

	select {
	case err := <-played:
		if err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Disconnected: %v\n", err)
		}
	case <-time.After(time.Second):
	}
}

// joinAsAdversary registers a policy-driven adversary and plays until the
// game ends.
func joinAsAdversary(ctx context.Context, t protocol.Transport, name string) error {
	kind, err := actor.ParseAdversaryKind(flagJoinAs)
	if err != nil {
		return err
	}
	seed := flagJoinSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	agent, err := adversary.NewAgent(name, kind, seed)
	if err != nil {
		return err
	}

	logger := newLogger(name)
	client := protocol.NewClient(t, &adversaryHandler{
		Handler: protocol.AgentHandler(agent),
		logger:  logger,
	})

	id, err := client.Register(ctx, name, kind.String())
	if err != nil {
		return err
	}
	logger.Info("registered", "id", id, "kind", kind)
	return client.Run(ctx)
}

// adversaryHandler logs what a headless adversary is told.
type adversaryHandler struct {
	protocol.Handler
	logger *log.Logger
}

func (h *adversaryHandler) HandleEvent(evt dungeon.Event) {
	switch e := evt.(type) {
	case dungeon.LevelStartEvent:
		h.logger.Info("level started", "level", e.LevelIndex+1, "players", e.PlayerNames)
	case dungeon.LevelEndEvent:
		h.logger.Info("level over", "level", e.LevelIndex+1, "status", e.Status, "ejected", e.Ejected)
	case dungeon.GameEndEvent:
		h.logger.Info("game over", "status", e.Status)
	case dungeon.ErrorEvent:
		h.logger.Warn("server error", "reason", e.Reason)
	}
	h.Handler.HandleEvent(evt)
}

func (h *adversaryHandler) ChooseMove(ctx context.Context, req dungeon.TurnRequest) (core.Point, error) {
	dst, err := h.Handler.ChooseMove(ctx, req)
	if err == nil {
		h.logger.Debug("move", "round", req.Round, "from", req.Position, "to", dst)
	}
	return dst, err
}
