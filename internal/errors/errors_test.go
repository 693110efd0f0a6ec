package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "malformed level",
			code:     errors.CodeMalformedLevel,
			message:  "rooms 0 and 1 overlap",
			expected: "MALFORMED_LEVEL: rooms 0 and 1 overlap",
		},
		{
			name:     "invalid action",
			code:     errors.CodeInvalidAction,
			message:  "destination is a wall",
			expected: "INVALID_ACTION: destination is a wall",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.MalformedLevel("door is not referenced by any hall").
		WithMeta("level", 2).
		WithMeta("room", 1)

	s.Assert().Equal(2, err.Meta["level"])
	s.Assert().Equal(1, err.Meta["room"])
	s.Assert().Equal(2, errors.GetMeta(err)["level"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("unexpected EOF")
	wrapped := errors.Wrap(baseErr, "failed to read level file")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to read level file", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
	s.Assert().Nil(errors.Wrap(nil, "nothing"))
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	inner := errors.Registration("name already taken")
	wrapped := errors.Wrapf(inner, "register %q", "alice")

	s.Assert().Equal(errors.CodeRegistration, wrapped.Code)
	s.Assert().True(errors.IsRegistration(wrapped))
	s.Assert().True(stderrors.Is(wrapped, inner))
}

func (s *ErrorsTestSuite) TestIsMatchesByCode() {
	err := fmt.Errorf("turn 3: %w", errors.InvalidActionf("tile %v is a wall", "(0, 0)"))

	s.Assert().True(errors.Is(err, errors.InvalidAction("")))
	s.Assert().False(errors.Is(err, errors.Protocol("")))
	s.Assert().True(errors.IsInvalidAction(err))
	s.Assert().Equal("tile (0, 0) is a wall", errors.GetMessage(err))
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	s.Assert().Equal(errors.CodeDisconnect, errors.GetCode(errors.Disconnect("socket closed")))
	s.Assert().True(errors.IsProtocol(errors.Protocolf("unknown type %q", "jump")))
	s.Assert().True(errors.IsMalformedLevel(errors.MalformedLevelf("level %d", 0)))
}

func (s *ErrorsTestSuite) TestFatalCodes() {
	s.Assert().True(errors.CodeMalformedLevel.Fatal())
	s.Assert().True(errors.CodeInternal.Fatal())
	s.Assert().False(errors.CodeInvalidAction.Fatal())
	s.Assert().False(errors.CodeProtocol.Fatal())
	s.Assert().False(errors.CodeRegistration.Fatal())
	s.Assert().False(errors.CodeDisconnect.Fatal())
}
