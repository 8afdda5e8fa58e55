package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/huntbase/treasurehunt/internal/dependencies/clock"
	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/services/ledger"
	"github.com/huntbase/treasurehunt/internal/storage"
)

// Service maintains win/point totals and derives ranking over them
type Service struct {
	storage storage.Storage
	ledger  *ledger.Service
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new scoring service
func New(storage storage.Storage, ledger *ledger.Service, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		ledger:  ledger,
		clock:   clock,
		logger:  logger,
	}
}

// WinResult reports the totals after a recorded win
type WinResult struct {
	PlayerID     model.PlayerID
	PointsEarned int
	Wins         int64
	TotalPoints  int64
}

// LeaderboardEntry is one row of the leaderboard view. Position is assigned
// by enumeration order, not by the tie-aware Rank formula: tied scores get
// distinct positions in arbitrary stable order.
type LeaderboardEntry struct {
	Position    int
	PlayerID    model.PlayerID
	Handle      string
	GivenName   string
	FamilyName  string
	Wins        int64
	TotalPoints int64
}

// Stats aggregates a player's game statistics
type Stats struct {
	PlayerID       model.PlayerID
	Handle         string
	Wins           int64
	TotalPoints    int64
	TotalEvents    int64
	EventBreakdown map[model.EventType]int64
	RecentEvents   []*model.GameEvent
	Rank           int
}

// RecordWin credits one win and the given points to the player and appends
// the matching win event to the ledger.
//
// The counter update is a single atomic increment at the store and happens
// before the ledger append, so a crash between the two can leave a counter
// without its audit entry but never an audit entry without its counter.
// Callers must not blindly retry on an ambiguous failure.
func (s *Service) RecordWin(ctx context.Context, playerID model.PlayerID, source string, points int) (*WinResult, error) {
	if points < 0 {
		return nil, fmt.Errorf("%w: points must be non-negative", model.ErrValidation)
	}

	totals, err := s.storage.IncrementScore(ctx, playerID, points, s.clock.Now())
	if err != nil {
		return nil, err
	}

	_, err = s.ledger.Append(ctx, playerID, model.EventWin, model.WinPayload{
		Source:          source,
		PointsEarned:    points,
		ResultingWins:   totals.Wins,
		ResultingPoints: totals.TotalPoints,
	})
	if err != nil {
		// The counters are already applied; losing the audit entry is
		// the accepted failure mode, the reverse corruption is not.
		s.logger.Error("win event append failed after counter update",
			slog.String("player_id", string(playerID)),
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("win recorded",
		slog.String("player_id", string(playerID)),
		slog.String("source", source),
		slog.Int("points", points),
	)

	return &WinResult{
		PlayerID:     playerID,
		PointsEarned: points,
		Wins:         totals.Wins,
		TotalPoints:  totals.TotalPoints,
	}, nil
}

// Rank returns 1 plus the number of active players whose points strictly
// exceed the subject's; tied players share a rank. An unknown player ranks
// 0 ("unranked") without an error so read paths stay non-throwing.
func (s *Service) Rank(ctx context.Context, playerID model.PlayerID) (int, error) {
	rank, err := s.storage.PlayerRank(ctx, playerID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return rank, nil
}

// Leaderboard returns the top limit active players by points descending
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be non-negative", model.ErrValidation)
	}

	top, err := s.storage.TopPlayers(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(top))
	for i, p := range top {
		entries[i] = LeaderboardEntry{
			Position:    i + 1,
			PlayerID:    p.ID,
			Handle:      p.Handle,
			GivenName:   p.GivenName,
			FamilyName:  p.FamilyName,
			Wins:        p.Wins,
			TotalPoints: p.TotalPoints,
		}
	}
	return entries, nil
}

// recentEventCount is how many events GameStats includes, newest first
const recentEventCount = 10

// GameStats aggregates totals, the event breakdown, recent activity and
// the player's rank. Fails with model.ErrPlayerNotFound if the player does
// not resolve.
func (s *Service) GameStats(ctx context.Context, playerID model.PlayerID) (*Stats, error) {
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	total, err := s.storage.CountEvents(ctx, playerID)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.storage.EventBreakdown(ctx, playerID)
	if err != nil {
		return nil, err
	}
	recent, err := s.storage.QueryEvents(ctx, playerID, "", recentEventCount)
	if err != nil {
		return nil, err
	}
	rank, err := s.Rank(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		PlayerID:       player.ID,
		Handle:         player.Handle,
		Wins:           player.Wins,
		TotalPoints:    player.TotalPoints,
		TotalEvents:    total,
		EventBreakdown: breakdown,
		RecentEvents:   recent,
		Rank:           rank,
	}, nil
}
