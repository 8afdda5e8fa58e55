package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/huntbase/treasurehunt/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

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

func (s *StorageSuite) TestCreateAndGetPlayer() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Handle)

	// The stored copy must be isolated from caller mutation
	retrieved.Handle = "mutated"
	again, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("alice", again.Handle)
}

func (s *StorageSuite) TestCreateDuplicates() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, s.newPlayer("alice")))

	dupeHandle := s.newPlayer("alice")
	dupeHandle.ContactAddress = "other@example.com"
	s.ErrorIs(s.storage.CreatePlayer(s.ctx, dupeHandle), model.ErrDuplicateHandle)

	dupeContact := s.newPlayer("bob")
	dupeContact.ContactAddress = "alice@example.com"
	s.ErrorIs(s.storage.CreatePlayer(s.ctx, dupeContact), model.ErrDuplicateContact)
}

func (s *StorageSuite) TestLookups() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	byHandle, err := s.storage.GetPlayerByHandle(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(player.ID, byHandle.ID)

	byContact, err := s.storage.GetPlayerByContact(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(player.ID, byContact.ID)

	_, err = s.storage.GetPlayerByContact(s.ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayersInsertionOrder() {
	for i := 0; i < 4; i++ {
		s.Require().NoError(s.storage.CreatePlayer(s.ctx, s.newPlayer(fmt.Sprintf("player%d", i))))
	}

	page, err := s.storage.ListPlayers(s.ctx, 3, 1)
	s.Require().NoError(err)
	s.Require().Len(page, 3)
	s.Equal("player1", page[0].Handle)
	s.Equal("player3", page[2].Handle)

	empty, err := s.storage.ListPlayers(s.ctx, 5, 100)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *StorageSuite) TestUpdatePlayer() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	newHandle := "alice2"
	later := s.now.Add(time.Minute)
	modified, err := s.storage.UpdatePlayer(s.ctx, player.ID, model.PlayerPatch{Handle: &newHandle}, later)
	s.Require().NoError(err)
	s.Equal(1, modified)

	updated, err := s.storage.GetPlayerByHandle(s.ctx, "alice2")
	s.Require().NoError(err)
	s.True(updated.UpdatedAt.Equal(later))

	_, err = s.storage.GetPlayerByHandle(s.ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	// Applying the same value again modifies nothing
	modified, err = s.storage.UpdatePlayer(s.ctx, player.ID, model.PlayerPatch{Handle: &newHandle}, later.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(0, modified)
}

func (s *StorageSuite) TestUpdatePlayerConflictIsAtomic() {
	alice := s.newPlayer("alice")
	bob := s.newPlayer("bob")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, alice))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, bob))

	takenHandle := "alice"
	newName := "Robert"
	_, err := s.storage.UpdatePlayer(s.ctx, bob.ID, model.PlayerPatch{
		Handle:    &takenHandle,
		GivenName: &newName,
	}, s.now)
	s.ErrorIs(err, model.ErrDuplicateHandle)

	// The conflicting patch must not partially apply
	unchanged, err := s.storage.GetPlayer(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Equal("Test", unchanged.GivenName)
}

func (s *StorageSuite) TestDeletePlayerKeepsEvents() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))
	s.Require().NoError(s.storage.AppendEvent(s.ctx, &model.GameEvent{
		ID:        model.NewEventID(),
		PlayerID:  player.ID,
		Type:      model.EventWin,
		Payload:   json.RawMessage(`{}`),
		Timestamp: s.now,
	}))

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, player.ID))

	_, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	count, err := s.storage.CountEvents(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *StorageSuite) TestIncrementScore() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	totals, err := s.storage.IncrementScore(s.ctx, player.ID, 25, s.now)
	s.Require().NoError(err)
	s.Equal(int64(1), totals.Wins)
	s.Equal(int64(25), totals.TotalPoints)

	_, err = s.storage.IncrementScore(s.ctx, "p_nonexistent", 5, s.now)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestIncrementScoreConcurrent() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.storage.IncrementScore(s.ctx, player.ID, 10, s.now)
			s.NoError(err)
		}()
	}
	wg.Wait()

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(workers), stored.Wins)
	s.Equal(int64(workers*10), stored.TotalPoints)
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

func (s *StorageSuite) TestTopPlayers() {
	alice := s.newPlayer("alice")
	bob := s.newPlayer("bob")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, alice))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, bob))

	_, err := s.storage.IncrementScore(s.ctx, alice.ID, 30, s.now)
	s.Require().NoError(err)
	_, err = s.storage.IncrementScore(s.ctx, bob.ID, 70, s.now)
	s.Require().NoError(err)

	off := false
	_, err = s.storage.UpdatePlayer(s.ctx, bob.ID, model.PlayerPatch{IsActive: &off}, s.now)
	s.Require().NoError(err)

	top, err := s.storage.TopPlayers(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal("alice", top[0].Handle)
}

func (s *StorageSuite) TestEventsNewestFirstWithFilter() {
	player := s.newPlayer("alice")
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	types := []model.EventType{model.EventRiddleAttempt, model.EventWin, model.EventRiddleAttempt}
	for i, t := range types {
		s.Require().NoError(s.storage.AppendEvent(s.ctx, &model.GameEvent{
			ID:        model.NewEventID(),
			PlayerID:  player.ID,
			Type:      t,
			Payload:   json.RawMessage(fmt.Sprintf(`{"n":%d}`, i)),
			Timestamp: s.now.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := s.storage.QueryEvents(s.ctx, player.ID, "", 10)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.True(all[0].Timestamp.After(all[2].Timestamp))

	riddles, err := s.storage.QueryEvents(s.ctx, player.ID, model.EventRiddleAttempt, 10)
	s.Require().NoError(err)
	s.Len(riddles, 2)

	breakdown, err := s.storage.EventBreakdown(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), breakdown[model.EventRiddleAttempt])
	s.Equal(int64(1), breakdown[model.EventWin])
}
