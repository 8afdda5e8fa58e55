package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/huntbase/treasurehunt/internal/dependencies/mocks"
	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/storage/memory"
	"github.com/huntbase/treasurehunt/internal/testutil"
)

type LedgerSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	clock   *mocks.MockClock
	ctx     context.Context
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *LedgerSuite) TestAppendAssignsIDAndTimestamp() {
	playerID := model.NewPlayerID()
	payload := model.WinPayload{Source: "riddle_solved", PointsEarned: 20}

	event, err := s.service.Append(s.ctx, playerID, model.EventWin, payload)
	s.Require().NoError(err)
	s.NotEmpty(event.ID)
	s.Equal(playerID, event.PlayerID)
	s.Equal(model.EventWin, event.Type)
	s.Equal(s.clock.CurrentTime, event.Timestamp)

	var stored model.WinPayload
	s.Require().NoError(json.Unmarshal(event.Payload, &stored))
	s.Equal("riddle_solved", stored.Source)
	s.Equal(20, stored.PointsEarned)
}

func (s *LedgerSuite) TestAppendWithoutPlayerRecord() {
	// The ledger never checks player existence; a race with deletion must
	// not lose the event.
	playerID := model.NewPlayerID()

	_, err := s.service.Append(s.ctx, playerID, model.EventTreasureFound, model.TreasureFoundPayload{TreasureID: "chest-1"})
	s.Require().NoError(err)

	events, err := s.service.Query(s.ctx, playerID, "", 10)
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *LedgerSuite) TestQueryNewestFirst() {
	playerID := model.NewPlayerID()

	for _, riddle := range []string{"r1", "r2", "r3"} {
		_, err := s.service.Append(s.ctx, playerID, model.EventRiddleAttempt, model.RiddleAttemptPayload{RiddleID: riddle})
		s.Require().NoError(err)
		s.clock.Advance(time.Minute)
	}

	events, err := s.service.Query(s.ctx, playerID, "", 10)
	s.Require().NoError(err)
	s.Require().Len(events, 3)

	var payload model.RiddleAttemptPayload
	s.Require().NoError(json.Unmarshal(events[0].Payload, &payload))
	s.Equal("r3", payload.RiddleID)
	s.Require().NoError(json.Unmarshal(events[2].Payload, &payload))
	s.Equal("r1", payload.RiddleID)
}

func (s *LedgerSuite) TestQueryTypeFilterAndLimit() {
	playerID := model.NewPlayerID()

	_, err := s.service.Append(s.ctx, playerID, model.EventRiddleAttempt, model.RiddleAttemptPayload{RiddleID: "r1"})
	s.Require().NoError(err)
	_, err = s.service.Append(s.ctx, playerID, model.EventTreasureFound, model.TreasureFoundPayload{TreasureID: "chest-1"})
	s.Require().NoError(err)
	_, err = s.service.Append(s.ctx, playerID, model.EventRiddleAttempt, model.RiddleAttemptPayload{RiddleID: "r2"})
	s.Require().NoError(err)

	events, err := s.service.Query(s.ctx, playerID, model.EventRiddleAttempt, 10)
	s.Require().NoError(err)
	s.Len(events, 2)

	events, err = s.service.Query(s.ctx, playerID, model.EventRiddleAttempt, 1)
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *LedgerSuite) TestQueryNegativeLimit() {
	_, err := s.service.Query(s.ctx, model.NewPlayerID(), "", -1)
	s.ErrorIs(err, model.ErrValidation)
}

func (s *LedgerSuite) TestQueryUnknownPlayerIsEmpty() {
	events, err := s.service.Query(s.ctx, model.NewPlayerID(), "", 10)
	s.Require().NoError(err)
	s.Empty(events)
}
