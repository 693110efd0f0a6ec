package dungeon_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	dungeonmock "github.com/vovakirdan/tui-dungeon/internal/dungeon/mock"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/level/formats"
	"github.com/vovakirdan/tui-dungeon/internal/level/leveltest"
	"github.com/vovakirdan/tui-dungeon/internal/rules"
)

// In a 3x4 open room the first player spawns at (0,0), the key is at (2,2)
// and the exit at (2,3): three moves of bound 2 finish the level.
func smallRoom() formats.Level {
	return leveltest.OpenRoom(3, 4)
}

var winningRoute = []core.Point{core.Pt(1, 1), core.Pt(2, 2), core.Pt(2, 3)}

type ControllerTestSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	saver *dungeonmock.MockResultSaver
	cfg   dungeon.Config
}

func (s *ControllerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.saver = dungeonmock.NewMockResultSaver(s.ctrl)
	s.cfg = dungeon.DefaultConfig()
	s.cfg.TurnTimeout = time.Second
}

func (s *ControllerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ControllerTestSuite) run(lvls []*level.Level, agents ...dungeon.Agent) dungeon.Result {
	c, err := dungeon.NewController(lvls, agents, s.cfg, nil)
	s.Require().NoError(err)
	c.SetResultSaver(s.saver)

	result, err := c.Run(context.Background())
	s.Require().NoError(err)
	return result
}

func (s *ControllerTestSuite) TestWinsEveryLevel() {
	alice := player("alice", append(append([]core.Point{}, winningRoute...), winningRoute...)...)

	s.saver.EXPECT().
		SaveGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r dungeon.Result) error {
			s.Assert().Equal(level.StatusWon, r.Status)
			s.Assert().NotEmpty(r.GameID)
			return nil
		})

	result := s.run(levels(2, smallRoom), alice)

	s.Assert().Equal(level.StatusWon, result.Status)
	s.Require().Len(result.Levels, 2)
	for _, lr := range result.Levels {
		s.Assert().Equal(level.StatusWon, lr.Status)
		s.Assert().Equal(3, lr.Rounds)
		s.Assert().Equal("alice", lr.KeyFinder)
		s.Assert().Equal([]string{"alice"}, lr.Exited)
	}
	s.Assert().Equal([]dungeon.PlayerStats{{Name: "alice", KeysFound: 2, Exits: 2}}, result.Players)

	starts := eventsOf[dungeon.LevelStartEvent](alice)
	s.Require().Len(starts, 2)
	s.Assert().Equal([]string{"alice"}, starts[1].PlayerNames)

	ends := eventsOf[dungeon.GameEndEvent](alice)
	s.Require().Len(ends, 1)
	s.Assert().Equal(level.StatusWon, ends[0].Status)

	// One initial update per level plus one per move.
	s.Assert().Len(eventsOf[dungeon.StateUpdateEvent](alice), 8)
}

func (s *ControllerTestSuite) TestInvalidLocalMoveIsReprompted() {
	route := append([]core.Point{core.Pt(0, 3)}, winningRoute...)
	alice := player("alice", route...)
	s.saver.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(nil)

	result := s.run(levels(1, smallRoom), alice)

	s.Assert().Equal(level.StatusWon, result.Status)
	s.Assert().Equal(3, result.Levels[0].Rounds)
	s.Assert().Len(eventsOf[dungeon.ErrorEvent](alice), 1)
	s.Require().NotEmpty(alice.requests)
	s.Assert().Equal(core.Pt(0, 0), alice.requests[0].Position)
	s.Assert().Contains(alice.requests[0].Destinations, core.Pt(1, 1))
}

func (s *ControllerTestSuite) TestInvalidRemoteMoveForfeitsTurn() {
	route := append([]core.Point{core.Pt(0, 3)}, winningRoute...)
	alice := player("alice", route...)
	alice.remote = true
	s.saver.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(nil)

	result := s.run(levels(1, smallRoom), alice)

	s.Assert().Equal(level.StatusWon, result.Status)
	s.Assert().Equal(4, result.Levels[0].Rounds)
	s.Assert().Len(eventsOf[dungeon.ErrorEvent](alice), 1)
}

func (s *ControllerTestSuite) TestTimeoutSkipsTurn() {
	s.cfg.TurnTimeout = 10 * time.Millisecond
	s.cfg.MaxRounds = 2

	alice := player("alice")
	alice.respond = func(ctx context.Context, _ dungeon.TurnRequest) (core.Point, error) {
		<-ctx.Done()
		return core.Point{}, ctx.Err()
	}
	s.saver.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(nil)

	result := s.run(levels(2, smallRoom), alice)

	s.Assert().Equal(level.StatusLost, result.Status)
	s.Require().Len(result.Levels, 1)
	s.Assert().Equal(3, result.Levels[0].Rounds)
	s.Assert().Len(alice.requests, 2)
}

func (s *ControllerTestSuite) TestLocalAgentIsNotTimedOut() {
	s.cfg.TurnTimeout = 10 * time.Millisecond

	alice := dungeon.NewLocalAgent("alice")
	defer alice.Quit()
	go func() {
		route := append([]core.Point{}, winningRoute...)
		for evt := range alice.Inbox().Events() {
			if _, ok := evt.(dungeon.TurnRequestEvent); !ok || len(route) == 0 {
				continue
			}
			// Think for longer than the turn timeout.
			time.Sleep(30 * time.Millisecond)
			alice.Submit(route[0])
			route = route[1:]
		}
	}()
	s.saver.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(nil)

	result := s.run(levels(1, smallRoom), alice)

	s.Assert().Equal(level.StatusWon, result.Status)
	s.Assert().Equal(3, result.Levels[0].Rounds)
}

func (s *ControllerTestSuite) TestAdversariesHearLifecycleEvents() {
	alice := player("alice", winningRoute...)
	z1 := zombie("z1")
	s.saver.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(nil)

	s.run(levels(1, smallRoom), alice, z1)

	s.Assert().Len(eventsOf[dungeon.LevelStartEvent](z1), 1)
	s.Assert().Len(eventsOf[dungeon.LevelEndEvent](z1), 1)
	ends := eventsOf[dungeon.GameEndEvent](z1)
	s.Require().Len(ends, 1)
	s.Assert().Equal(level.StatusWon, ends[0].Status)
	s.Assert().Empty(eventsOf[dungeon.StateUpdateEvent](z1))
}

func (s *ControllerTestSuite) TestDisconnectEliminatesPlayer() {
	bob := player("bob")
	bob.respond = func(context.Context, dungeon.TurnRequest) (core.Point, error) {
		return core.Point{}, errors.Disconnect("connection reset")
	}
	alice := player("alice", winningRoute...)
	s.saver.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(nil)

	result := s.run(levels(1, smallRoom), alice, bob)

	s.Assert().Equal(level.StatusWon, result.Status)
	s.Assert().Len(bob.requests, 1)
	s.Assert().Empty(eventsOf[dungeon.GameEndEvent](bob))
	s.Assert().Len(eventsOf[dungeon.GameEndEvent](alice), 1)
}

func (s *ControllerTestSuite) TestAdversaryEjectsPlayer() {
	s.cfg.Checker = &rules.Checker{MoveBound: 2, Collisions: true}

	// The zombie spawns next to alice at (0,1) and steps onto her.
	alice := player("alice")
	z1 := zombie("z1", core.Pt(0, 0))
	s.saver.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(nil)

	result := s.run(levels(3, smallRoom), alice, z1)

	s.Assert().Equal(level.StatusLost, result.Status)
	s.Require().Len(result.Levels, 1)
	s.Assert().Equal([]string{"alice"}, result.Levels[0].Ejected)
	s.Assert().Equal(1, result.Players[0].Ejections)

	updates := eventsOf[dungeon.StateUpdateEvent](alice)
	s.Require().NotEmpty(updates)
	s.Assert().True(updates[len(updates)-1].IsEjected)
}

func (s *ControllerTestSuite) TestSaverErrorDoesNotFailGame() {
	alice := player("alice", winningRoute...)
	s.saver.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(errors.Internal("disk full"))

	result := s.run(levels(1, smallRoom), alice)
	s.Assert().Equal(level.StatusWon, result.Status)
}

func (s *ControllerTestSuite) TestObserverSeesEveryAction() {
	alice := player("alice", winningRoute...)
	s.saver.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(nil)

	var observed []dungeon.ObservationEvent
	c, err := dungeon.NewController(levels(1, smallRoom), []dungeon.Agent{alice}, s.cfg, nil)
	s.Require().NoError(err)
	c.SetResultSaver(s.saver)
	c.AddObserver(dungeon.ObserverFunc(func(evt dungeon.Event) {
		if o, ok := evt.(dungeon.ObservationEvent); ok {
			observed = append(observed, o)
		}
	}))

	_, err = c.Run(context.Background())
	s.Require().NoError(err)
	s.Require().Len(observed, 3)
	s.Assert().True(observed[2].Outcome.Exited)
	s.Assert().Equal(3, observed[0].View.Rows())
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func TestNewControllerRejectsDuplicates(t *testing.T) {
	_, err := dungeon.NewController(levels(1, smallRoom),
		[]dungeon.Agent{player("alice"), zombie("alice")}, dungeon.DefaultConfig(), nil)
	assert.True(t, errors.IsRegistration(err))
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	alice := player("alice")
	alice.respond = func(context.Context, dungeon.TurnRequest) (core.Point, error) {
		cancel()
		return core.Point{}, context.Canceled
	}

	c, err := dungeon.NewController(levels(1, smallRoom), []dungeon.Agent{alice}, dungeon.DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
