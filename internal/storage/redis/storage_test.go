package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/huntbase/treasurehunt/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// newPlayer builds an active player with unique handle/contact per name
func (s *StorageSuite) newPlayer(name string) *model.Player {
	return &model.Player{
		ID:             model.NewPlayerID(),
		Handle:         name,
		ContactAddress: name + "@example.com",
		GivenName:      "Test",
		FamilyName:     "Player",
		IsActive:       true,
		CreatedAt:      s.now,
		UpdatedAt:      s.now,
	}
}

// Player tests

func (s *StorageSuite) TestCreateAndGetPlayer() {
	player := s.newPlayer("alice")

	err := s.storage.CreatePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal("alice", retrieved.Handle)
	s.Equal("alice@example.com", retrieved.ContactAddress)
	s.True(retrieved.IsActive)
	s.True(retrieved.CreatedAt.Equal(s.now))
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "p_nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestCreateDuplicateHandle() {
	first := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, first))

	second := s.newPlayer("alice")
	second.ContactAddress = "other@example.com"
	err := s.storage.CreatePlayer(s.ctx, second)
	s.ErrorIs(err, model.ErrDuplicateHandle)
}

func (s *StorageSuite) TestCreateDuplicateContact() {
	first := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, first))

	second := s.newPlayer("bob")
	second.ContactAddress = "alice@example.com"
	err := s.storage.CreatePlayer(s.ctx, second)
	s.ErrorIs(err, model.ErrDuplicateContact)

	// The handle claim must be rolled back so "bob" stays available
	third := s.newPlayer("bob")
	s.NoError(s.storage.CreatePlayer(s.ctx, third))
}

func (s *StorageSuite) TestGetByHandleAndContact() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	byHandle, err := s.storage.GetPlayerByHandle(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(player.ID, byHandle.ID)

	byContact, err := s.storage.GetPlayerByContact(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(player.ID, byContact.ID)

	_, err = s.storage.GetPlayerByHandle(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayersPagination() {
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.storage.CreatePlayer(s.ctx, s.newPlayer(fmt.Sprintf("player%d", i))))
	}

	page, err := s.storage.ListPlayers(s.ctx, 2, 0)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("player0", page[0].Handle)
	s.Equal("player1", page[1].Handle)

	page, err = s.storage.ListPlayers(s.ctx, 2, 4)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("player4", page[0].Handle)

	page, err = s.storage.ListPlayers(s.ctx, 10, 10)
	s.Require().NoError(err)
	s.Empty(page)
}

func (s *StorageSuite) TestUpdatePlayerRenameHandle() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	newHandle := "alice2"
	modified, err := s.storage.UpdatePlayer(s.ctx, player.ID, model.PlayerPatch{Handle: &newHandle}, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(1, modified)

	updated, err := s.storage.GetPlayerByHandle(s.ctx, "alice2")
	s.Require().NoError(err)
	s.Equal(player.ID, updated.ID)
	s.True(updated.UpdatedAt.After(s.now))

	// The old handle index entry is removed
	_, err = s.storage.GetPlayerByHandle(s.ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestUpdatePlayerNoChanges() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	sameHandle := "alice"
	modified, err := s.storage.UpdatePlayer(s.ctx, player.ID, model.PlayerPatch{Handle: &sameHandle}, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(0, modified)

	// UpdatedAt must not move when nothing changed
	unchanged, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.True(unchanged.UpdatedAt.Equal(s.now))
}

func (s *StorageSuite) TestUpdatePlayerHandleConflict() {
	alice := s.newPlayer("alice")
	bob := s.newPlayer("bob")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, alice))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, bob))

	taken := "alice"
	modified, err := s.storage.UpdatePlayer(s.ctx, bob.ID, model.PlayerPatch{Handle: &taken}, s.now)
	s.ErrorIs(err, model.ErrDuplicateHandle)
	s.Equal(0, modified)
}

func (s *StorageSuite) TestUpdatePlayerUnknown() {
	h := "x"
	_, err := s.storage.UpdatePlayer(s.ctx, "p_nonexistent", model.PlayerPatch{Handle: &h}, s.now)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayerKeepsEvents() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	event := &model.GameEvent{
		ID:        model.NewEventID(),
		PlayerID:  player.ID,
		Type:      model.EventWin,
		Payload:   json.RawMessage(`{"source":"riddle_solved"}`),
		Timestamp: s.now,
	}
	s.Require().NoError(s.storage.AppendEvent(s.ctx, event))

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, player.ID))

	_, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	// The ledger survives the hard delete
	count, err := s.storage.CountEvents(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	// Handle and contact become reusable
	s.NoError(s.storage.CreatePlayer(s.ctx, s.newPlayer("alice")))
}

func (s *StorageSuite) TestDeletePlayerByContact() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	s.Require().NoError(s.storage.DeletePlayerByContact(s.ctx, "alice@example.com"))

	_, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	err = s.storage.DeletePlayerByContact(s.ctx, "alice@example.com")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestCountPlayers() {
	active := s.newPlayer("alice")
	inactive := s.newPlayer("bob")
	inactive.IsActive = false
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, active))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, inactive))

	total, err := s.storage.CountPlayers(s.ctx, false)
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	activeCount, err := s.storage.CountPlayers(s.ctx, true)
	s.Require().NoError(err)
	s.Equal(int64(1), activeCount)
}

// Scoring tests

func (s *StorageSuite) TestIncrementScore() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	totals, err := s.storage.IncrementScore(s.ctx, player.ID, 25, s.now)
	s.Require().NoError(err)
	s.Equal(int64(1), totals.Wins)
	s.Equal(int64(25), totals.TotalPoints)

	totals, err = s.storage.IncrementScore(s.ctx, player.ID, 10, s.now)
	s.Require().NoError(err)
	s.Equal(int64(2), totals.Wins)
	s.Equal(int64(35), totals.TotalPoints)

	retrieved, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), retrieved.Wins)
	s.Equal(int64(35), retrieved.TotalPoints)
}

func (s *StorageSuite) TestIncrementScoreUnknownPlayer() {
	_, err := s.storage.IncrementScore(s.ctx, "p_nonexistent", 10, s.now)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestPlayerRankTies() {
	scores := []int{100, 100, 80, 50}
	players := make([]*model.Player, len(scores))
	for i, points := range scores {
		players[i] = s.newPlayer(fmt.Sprintf("player%d", i))
		s.Require().NoError(s.storage.CreatePlayer(s.ctx, players[i]))
		_, err := s.storage.IncrementScore(s.ctx, players[i].ID, points, s.now)
		s.Require().NoError(err)
	}

	expected := []int{1, 1, 3, 4}
	for i, player := range players {
		rank, err := s.storage.PlayerRank(s.ctx, player.ID)
		s.Require().NoError(err)
		s.Equal(expected[i], rank, "player%d", i)
	}
}

func (s *StorageSuite) TestPlayerRankUnknown() {
	_, err := s.storage.PlayerRank(s.ctx, "p_nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestTopPlayersExcludesInactive() {
	alice := s.newPlayer("alice")
	bob := s.newPlayer("bob")
	carol := s.newPlayer("carol")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, alice))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, bob))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, carol))

	_, err := s.storage.IncrementScore(s.ctx, alice.ID, 50, s.now)
	s.Require().NoError(err)
	_, err = s.storage.IncrementScore(s.ctx, bob.ID, 100, s.now)
	s.Require().NoError(err)
	_, err = s.storage.IncrementScore(s.ctx, carol.ID, 75, s.now)
	s.Require().NoError(err)

	off := false
	_, err = s.storage.UpdatePlayer(s.ctx, bob.ID, model.PlayerPatch{IsActive: &off}, s.now)
	s.Require().NoError(err)

	top, err := s.storage.TopPlayers(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal("carol", top[0].Handle)
	s.Equal("alice", top[1].Handle)
}

func (s *StorageSuite) TestReactivationRestoresLeaderboardScore() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))
	_, err := s.storage.IncrementScore(s.ctx, player.ID, 60, s.now)
	s.Require().NoError(err)

	off := false
	_, err = s.storage.UpdatePlayer(s.ctx, player.ID, model.PlayerPatch{IsActive: &off}, s.now)
	s.Require().NoError(err)

	on := true
	_, err = s.storage.UpdatePlayer(s.ctx, player.ID, model.PlayerPatch{IsActive: &on}, s.now)
	s.Require().NoError(err)

	top, err := s.storage.TopPlayers(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(int64(60), top[0].TotalPoints)
}

// Event ledger tests

func (s *StorageSuite) appendEvent(playerID model.PlayerID, eventType model.EventType, at time.Time) *model.GameEvent {
	event := &model.GameEvent{
		ID:        model.NewEventID(),
		PlayerID:  playerID,
		Type:      eventType,
		Payload:   json.RawMessage(`{}`),
		Timestamp: at,
	}
	s.Require().NoError(s.storage.AppendEvent(s.ctx, event))
	return event
}

func (s *StorageSuite) TestQueryEventsNewestFirst() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	first := s.appendEvent(player.ID, model.EventRiddleAttempt, s.now)
	second := s.appendEvent(player.ID, model.EventWin, s.now.Add(time.Minute))
	third := s.appendEvent(player.ID, model.EventTreasureFound, s.now.Add(2*time.Minute))

	events, err := s.storage.QueryEvents(s.ctx, player.ID, "", 10)
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	s.Equal(third.ID, events[0].ID)
	s.Equal(second.ID, events[1].ID)
	s.Equal(first.ID, events[2].ID)
}

func (s *StorageSuite) TestQueryEventsTypeFilterAndLimit() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	for i := 0; i < 3; i++ {
		s.appendEvent(player.ID, model.EventRiddleAttempt, s.now.Add(time.Duration(i)*time.Minute))
	}
	s.appendEvent(player.ID, model.EventTreasureFound, s.now.Add(time.Hour))

	riddles, err := s.storage.QueryEvents(s.ctx, player.ID, model.EventRiddleAttempt, 2)
	s.Require().NoError(err)
	s.Require().Len(riddles, 2)
	for _, e := range riddles {
		s.Equal(model.EventRiddleAttempt, e.Type)
	}
}

func (s *StorageSuite) TestQueryEventsEmpty() {
	events, err := s.storage.QueryEvents(s.ctx, "p_nonexistent", "", 10)
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *StorageSuite) TestEventBreakdown() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	s.appendEvent(player.ID, model.EventRiddleAttempt, s.now)
	s.appendEvent(player.ID, model.EventRiddleAttempt, s.now)
	s.appendEvent(player.ID, model.EventWin, s.now)

	breakdown, err := s.storage.EventBreakdown(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), breakdown[model.EventRiddleAttempt])
	s.Equal(int64(1), breakdown[model.EventWin])

	count, err := s.storage.CountEvents(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), count)
}
