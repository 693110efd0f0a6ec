package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-dungeon/internal/config"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/platform/tui"
	"github.com/vovakirdan/tui-dungeon/internal/protocol"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2222").
	Address string

	// HostKeyPath is the path to the host key file. A missing key is
	// generated on first start.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":2222",
		HostKeyPath: ".ssh/dungeon_ed25519",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer lets players join a game by logging in over SSH. Each session
// runs the terminal client, which registers the SSH user name as a player.
type SSHServer struct {
	config SSHServerConfig
	ctx    context.Context
	lobby  dungeon.Registrar
	server *ssh.Server
	logger *log.Logger

	mu     sync.Mutex
	agents []*protocol.RemoteAgent
}

// NewSSHServer creates an SSH server feeding lobby. Registered players live
// until ctx ends or their session closes.
func NewSSHServer(ctx context.Context, cfg SSHServerConfig, lobby dungeon.Registrar, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	srv := &SSHServer{
		config: cfg,
		ctx:    ctx,
		lobby:  lobby,
		logger: logger,
	}

	hostKeyPath, err := config.ExpandHome(cfg.HostKeyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve host key path: %w", err)
	}

	// Ensure host key directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler connects the session's terminal client to the lobby through an
// in-memory transport and returns the client model.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	l := s.logger.With("actor", sshSession.User())
	agent := dungeon.NewLocalAgent(sshSession.User())
	serverEnd, clientEnd := protocol.Pipe()

	go func() {
		remote, err := protocol.Handshake(s.ctx, serverEnd, s.lobby, protocol.AsLocal(), protocol.WithLogger(l))
		if err != nil {
			l.Info("registration refused", "err", err)
			serverEnd.Close()
			return
		}
		s.mu.Lock()
		s.agents = append(s.agents, remote)
		s.mu.Unlock()
		l.Info("actor registered", "kind", remote.Kind(), "remote", sshSession.RemoteAddr().String())
	}()

	go func() {
		if err := protocol.Play(sshSession.Context(), clientEnd, agent); err != nil {
			l.Debug("session client stopped", "err", err)
		}
	}()

	model := tui.NewModel(agent, pty.Window.Width, pty.Window.Height)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until it is shut down.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Agents returns the players registered over SSH so far.
func (s *SSHServer) Agents() []*protocol.RemoteAgent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*protocol.RemoteAgent(nil), s.agents...)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
