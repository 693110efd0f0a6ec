package dungeon

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/rules"
	"github.com/vovakirdan/tui-dungeon/internal/visibility"
)

// Config holds the controller's tunables.
type Config struct {
	TurnTimeout time.Duration // 0 waits forever; Untimed agents are always waited on
	MaxRetries  int           // re-prompts for an invalid local move
	MaxRounds   int           // 0 means unbounded; exceeding it loses the level
	MaxHealth   int

	Checker *rules.Checker
	Vis     *visibility.Engine
}

// DefaultConfig returns the controller defaults.
func DefaultConfig() Config {
	return Config{
		TurnTimeout: 30 * time.Second,
		MaxRetries:  3,
		MaxRounds:   500,
		MaxHealth:   3,
	}
}

// Controller runs a game to completion.
type Controller struct {
	dungeon   *Dungeon
	agents    map[string]Agent
	order     []string
	observers []Observer
	saver     ResultSaver
	cfg       Config
	logger    *log.Logger

	gone map[string]bool
}

// NewController registers every agent and builds the game. Players are
// registered in the order given, as are adversaries.
func NewController(levels []*level.Level, agents []Agent, cfg Config, logger *log.Logger) (*Controller, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.MaxHealth <= 0 {
		cfg.MaxHealth = DefaultConfig().MaxHealth
	}

	roster := actor.NewRoster()
	byName := make(map[string]Agent, len(agents))
	for _, a := range agents {
		var err error
		switch a.Kind() {
		case actor.KindPlayer:
			_, err = roster.AddPlayer(a.Name(), cfg.MaxHealth)
		case actor.KindAdversary:
			kind := actor.Zombie
			if aa, ok := a.(AdversaryAgent); ok {
				kind = aa.AdversaryKind()
			}
			_, err = roster.AddAdversary(a.Name(), kind)
		}
		if err != nil {
			return nil, err
		}
		byName[a.Name()] = a
	}

	d, err := New(levels, roster, cfg.Checker, cfg.Vis)
	if err != nil {
		return nil, err
	}

	return &Controller{
		dungeon: d,
		agents:  byName,
		order:   roster.TurnOrder(),
		cfg:     cfg,
		logger:  logger,
		gone:    make(map[string]bool),
	}, nil
}

// Dungeon exposes the game state read-only.
func (c *Controller) Dungeon() ModelView {
	return c.dungeon
}

// AddObserver subscribes an observer to every published event.
func (c *Controller) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
}

// SetResultSaver sets the optional saver called once the game ends.
func (c *Controller) SetResultSaver(s ResultSaver) {
	c.saver = s
}

// Run plays every level in order until the game is won or lost, or ctx is
// cancelled.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	result := Result{GameID: uuid.NewString(), StartedAt: time.Now()}
	c.logger.Info("game started", "game", result.GameID, "players", c.dungeon.PlayerNames(), "levels", len(c.dungeon.Levels))

	for c.dungeon.Status() == level.StatusActive {
		lr, err := c.playLevel(ctx)
		if err != nil {
			return result, err
		}
		result.Levels = append(result.Levels, lr)
	}

	result.Status = c.dungeon.Status()
	result.Players = c.dungeon.Stats()
	result.FinishedAt = time.Now()

	c.publish(GameEndEvent{Status: result.Status, Players: result.Players})
	c.logger.Info("game over", "game", result.GameID, "status", result.Status, "duration", result.Duration().Round(time.Millisecond))

	if c.saver != nil {
		if err := c.saver.SaveGame(ctx, result); err != nil {
			c.logger.Error("failed to save game", "game", result.GameID, "err", err)
		}
	}
	return result, nil
}

func (c *Controller) playLevel(ctx context.Context) (LevelResult, error) {
	d := c.dungeon
	if err := d.StartLevel(); err != nil {
		return LevelResult{}, err
	}
	lvl := d.CurrentLevel()
	c.logger.Info("level started", "level", lvl.Index, "actors", len(lvl.Placed()))

	c.publish(LevelStartEvent{LevelIndex: lvl.Index, PlayerNames: d.PlayerNames()})
	for _, name := range d.PlayerNames() {
		if d.InLevel(name) {
			c.sendState(name)
		}
	}

	round := 0
	status := d.LevelStatus()
	for status == level.StatusActive {
		if err := ctx.Err(); err != nil {
			return LevelResult{}, err
		}
		round++
		if c.cfg.MaxRounds > 0 && round > c.cfg.MaxRounds {
			c.logger.Warn("round limit reached", "level", lvl.Index, "rounds", c.cfg.MaxRounds)
			status = level.StatusLost
			break
		}
		for _, name := range c.order {
			if !d.InLevel(name) || c.gone[name] {
				continue
			}
			c.takeTurn(ctx, name, round)
			if status = d.LevelStatus(); status != level.StatusActive {
				break
			}
		}
	}

	evt := d.FinishLevel(status)
	c.logger.Info("level over", "level", evt.LevelIndex, "status", evt.Status, "rounds", round,
		"keyFinder", evt.KeyFinder, "exited", evt.Exited, "ejected", evt.Ejected)
	c.publish(evt)

	return LevelResult{
		Index:     evt.LevelIndex,
		Status:    evt.Status,
		Rounds:    round,
		KeyFinder: evt.KeyFinder,
		Exited:    evt.Exited,
		Ejected:   evt.Ejected,
	}, nil
}

// takeTurn asks one actor for a move and applies it. Invalid local moves are
// re-prompted up to MaxRetries times; invalid remote moves, timeouts and
// errors forfeit the turn.
func (c *Controller) takeTurn(ctx context.Context, name string, round int) {
	d := c.dungeon
	agent := c.agents[name]

	for attempt := 0; ; attempt++ {
		req, err := c.turnRequest(name, round)
		if err != nil {
			c.logger.Error("failed to build turn request", "actor", name, "err", err)
			return
		}

		turnCtx, cancel := ctx, context.CancelFunc(func() {})
		if c.cfg.TurnTimeout > 0 && !untimed(agent) {
			turnCtx, cancel = context.WithTimeout(ctx, c.cfg.TurnTimeout)
		}
		dst, err := agent.RequestMove(turnCtx, req)
		cancel()

		switch {
		case err == nil:
		case ctx.Err() != nil:
			return
		case errors.Is(err, context.DeadlineExceeded):
			c.logger.Info("turn timed out", "actor", name, "round", round)
			return
		case errors.IsDisconnect(err):
			c.disconnect(name, err)
			return
		default:
			c.logger.Warn("turn failed", "actor", name, "err", err)
			return
		}

		if err := d.ValidateMove(name, dst); err != nil {
			c.logger.Info("invalid move", "actor", name, "destination", dst, "reason", errors.GetMessage(err))
			agent.Notify(ErrorEvent{Reason: err.Error()})
			if agent.Remote() || attempt >= c.cfg.MaxRetries {
				return
			}
			continue
		}

		out := d.ApplyMove(name, dst)
		c.logger.Debug("move applied", "actor", name, "from", out.From, "to", out.To,
			"keyFound", out.KeyFound, "exited", out.Exited, "ejected", out.Ejected)
		c.publishUpdate(round, out)
		return
	}
}

func untimed(a Agent) bool {
	u, ok := a.(Untimed)
	return ok && u.Untimed()
}

func (c *Controller) turnRequest(name string, round int) (TurnRequest, error) {
	d := c.dungeon
	pos, _ := d.CurrentLevel().PositionOf(name)
	req := TurnRequest{
		LevelIndex:   d.CurrentLevelIndex(),
		Round:        round,
		Position:     pos,
		Destinations: d.Destinations(name),
	}

	// Adversaries see the way players do so policies can chase what is
	// visible.
	view, err := d.ViewFor(name)
	if err != nil {
		return TurnRequest{}, err
	}
	req.View = view
	return req, nil
}

func (c *Controller) disconnect(name string, cause error) {
	c.logger.Warn("actor disconnected", "actor", name, "err", cause)
	c.gone[name] = true
	c.dungeon.Eliminate(name)
	c.publishUpdate(0, rules.Outcome{Actor: name})
}

// publishUpdate pushes fresh state to every player still in the level and
// to the players the action removed, then to observers.
func (c *Controller) publishUpdate(round int, out rules.Outcome) {
	d := c.dungeon
	touched := make(map[string]bool, len(out.Ejected)+1)
	touched[out.Actor] = true
	for _, name := range out.Ejected {
		touched[name] = true
	}

	for _, name := range d.PlayerNames() {
		if c.gone[name] {
			continue
		}
		if d.InLevel(name) || touched[name] {
			c.sendState(name)
		}
	}

	if len(c.observers) == 0 {
		return
	}
	evt := ObservationEvent{
		LevelIndex: d.CurrentLevelIndex(),
		Round:      round,
		Outcome:    out,
		View:       d.ObserverView(),
	}
	for _, o := range c.observers {
		o.Notify(evt)
	}
}

func (c *Controller) sendState(name string) {
	evt, err := c.dungeon.StateFor(name)
	if err != nil {
		c.logger.Error("failed to compute state", "player", name, "err", err)
		return
	}
	c.agents[name].Notify(evt)
}

// publish sends a lifecycle event to every connected agent, adversaries
// included, and to observers.
func (c *Controller) publish(evt Event) {
	for _, name := range c.order {
		if !c.gone[name] {
			c.agents[name].Notify(evt)
		}
	}
	for _, o := range c.observers {
		o.Notify(evt)
	}
}
