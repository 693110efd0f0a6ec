package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dungeon/internal/config"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/platform/tui"
	"github.com/vovakirdan/tui-dungeon/internal/server"
)

var (
	flagServeLevels  string
	flagServePlayers int
	flagServeWait    time.Duration
	flagWSAddr       string
	flagSSHAddr      string
	flagHostKey      string
	flagNoSSH        bool
	flagObserve      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host a dungeon game",
	Long: `Host a game: wait for players to register, then run every level in order.

Players join over websocket with 'dungeon join' or log in over SSH, which
starts the terminal client in their session. Adversaries configured under
'adversaries' in the config are added by the server; extra zombies and
ghosts may join over websocket with 'dungeon join --as'.

Registration closes when the player count is reached or the wait window
elapses, whichever comes first.

Examples:
  dungeon serve --levels levels/dungeon.levels
  dungeon serve --levels levels/dungeon.levels --players 3 --wait 2m
  dungeon serve --levels levels/tutorial.yaml --no-ssh --observe

Players can connect with:
  dungeon join --url ws://localhost:8080/ws --name alice
  ssh alice@localhost -p 2222`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeLevels, "levels", "", "Level file (.levels, .json, .yaml)")
	serveCmd.Flags().IntVar(&flagServePlayers, "players", 0, "Number of players to wait for (default from config)")
	serveCmd.Flags().DurationVar(&flagServeWait, "wait", 0, "Registration window (default from config)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Websocket listen address (default from config)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to SSH host key (generated if missing)")
	serveCmd.Flags().BoolVar(&flagNoSSH, "no-ssh", false, "Do not start the SSH server")
	serveCmd.Flags().BoolVar(&flagObserve, "observe", false, "Print the whole level after every action")
	serveCmd.MarkFlagRequired("levels")
}

func runServe(cmd *cobra.Command, _ []string) {
	if err := serve(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// serve runs the listeners for the length of one game. Listeners are shut
// down before it returns.
func serve(cmd *cobra.Command) error {
	cfg := loadConfig()
	if cmd.Flags().Changed("players") {
		cfg.Registration.Players = flagServePlayers
	}
	if cmd.Flags().Changed("wait") {
		cfg.Registration.Wait = flagServeWait
	}
	if flagWSAddr != "" {
		cfg.Server.WSAddr = flagWSAddr
	}
	if flagSSHAddr != "" {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKey = flagHostKey
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger("dungeon")
	levels := mustLoadLevels(flagServeLevels)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lobby := dungeon.NewLobby(cfg.Registration.Players, cfg.Registration.Wait)

	ws := server.NewWSServer(ctx, lobby, logger.WithPrefix("ws"))
	httpServer := &http.Server{Addr: cfg.Server.WSAddr, Handler: ws}
	go func() {
		logger.Info("starting websocket server", "address", cfg.Server.WSAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("websocket server error", "err", err)
			stop()
		}
	}()

	var sshServer *server.SSHServer
	if !flagNoSSH {
		sshCfg := server.DefaultSSHServerConfig()
		sshCfg.Address = cfg.Server.SSHAddr
		sshCfg.HostKeyPath = cfg.Server.HostKey

		var err error
		sshServer, err = server.NewSSHServer(ctx, sshCfg, lobby, logger.WithPrefix("ssh"))
		if err != nil {
			return fmt.Errorf("creating SSH server: %w", err)
		}
		go func() {
			if err := sshServer.ListenAndServe(); err != nil {
				logger.Error("SSH server error", "err", err)
				stop()
			}
		}()
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ws.CloseAll()
		httpServer.Shutdown(shutdownCtx)
		if sshServer != nil {
			sshServer.Shutdown(shutdownCtx)
		}
	}()

	result, err := hostGame(ctx, cfg, lobby, levels, logger)
	if err != nil {
		return err
	}
	printResult(os.Stdout, result)
	return nil
}

// hostGame closes registration and plays the game with whoever joined.
func hostGame(ctx context.Context, cfg config.EngineConfig, lobby *dungeon.Lobby, levels []*level.Level, logger *log.Logger) (dungeon.Result, error) {
	logger.Info("waiting for players", "players", cfg.Registration.Players, "wait", cfg.Registration.Wait)
	agents, err := lobby.Wait(ctx)
	if err != nil {
		return dungeon.Result{}, fmt.Errorf("registration failed: %w", err)
	}
	logger.Info("registration closed", "actors", len(agents), "players", lobby.Players())

	ctrl, store := newController(cfg, levels, agents, logger)
	if store != nil {
		defer store.Close()
	}
	if flagObserve {
		ctrl.AddObserver(tui.NewSpectator(os.Stdout))
	}

	result, err := ctrl.Run(ctx)
	if err != nil {
		return result, fmt.Errorf("game aborted: %w", err)
	}
	return result, nil
}
