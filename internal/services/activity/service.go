package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/services/ledger"
	"github.com/huntbase/treasurehunt/internal/services/scoring"
)

// Points awarded for solved puzzles. A riddle pays out on a sliding scale
// that bottoms out at riddleMinPoints; treasures pay a flat rate.
const (
	riddleBasePoints = 50
	riddleMinPoints  = 10
	treasurePoints   = 25

	sourceRiddleSolved  = "riddle_solved"
	sourceTreasureFound = "treasure_found"
)

// Service records gameplay activity (riddle attempts, treasure finds) and
// routes the wins they produce through scoring
type Service struct {
	ledger  *ledger.Service
	scoring *scoring.Service
	logger  *slog.Logger
}

// New creates a new activity service
func New(ledger *ledger.Service, scoring *scoring.Service, logger *slog.Logger) *Service {
	return &Service{
		ledger:  ledger,
		scoring: scoring,
		logger:  logger,
	}
}

// AttemptResult describes the outcome of a logged riddle attempt
type AttemptResult struct {
	PlayerID     model.PlayerID
	RiddleID     string
	IsCorrect    bool
	PointsEarned int
}

// FindResult describes the outcome of a logged treasure find
type FindResult struct {
	PlayerID     model.PlayerID
	TreasureID   string
	PointsEarned int
}

// RiddleAttemptRecord is a riddle attempt as read back from the ledger
type RiddleAttemptRecord struct {
	RiddleID  string    `json:"riddle_id"`
	Location  string    `json:"location"`
	IsCorrect bool      `json:"is_correct"`
	TimeTaken float64   `json:"time_taken"`
	Timestamp time.Time `json:"timestamp"`
}

// TreasureFindRecord is a treasure find as read back from the ledger
type TreasureFindRecord struct {
	TreasureID  string            `json:"treasure_id"`
	Location    string            `json:"location"`
	Coordinates model.Coordinates `json:"coordinates"`
	Timestamp   time.Time         `json:"timestamp"`
}

// riddlePoints maps solve time to the payout: one point off the base per
// whole second taken, floored at the minimum
func riddlePoints(timeTaken float64) int {
	points := riddleBasePoints - int(timeTaken)
	if points < riddleMinPoints {
		return riddleMinPoints
	}
	return points
}

// LogRiddleAttempt records an attempt in the ledger. Correct attempts also
// earn a win; incorrect ones only leave the attempt event.
func (s *Service) LogRiddleAttempt(ctx context.Context, playerID model.PlayerID, riddleID, location string, isCorrect bool, timeTaken float64) (*AttemptResult, error) {
	if riddleID == "" {
		return nil, fmt.Errorf("%w: riddle_id is required", model.ErrValidation)
	}
	if timeTaken < 0 {
		return nil, fmt.Errorf("%w: time_taken must be non-negative", model.ErrValidation)
	}

	_, err := s.ledger.Append(ctx, playerID, model.EventRiddleAttempt, model.RiddleAttemptPayload{
		RiddleID:  riddleID,
		Location:  location,
		IsCorrect: isCorrect,
		TimeTaken: timeTaken,
	})
	if err != nil {
		return nil, err
	}

	result := &AttemptResult{
		PlayerID:  playerID,
		RiddleID:  riddleID,
		IsCorrect: isCorrect,
	}
	if isCorrect {
		win, err := s.scoring.RecordWin(ctx, playerID, sourceRiddleSolved, riddlePoints(timeTaken))
		if err != nil {
			return nil, err
		}
		result.PointsEarned = win.PointsEarned
	}

	s.logger.Info("riddle attempt logged",
		slog.String("player_id", string(playerID)),
		slog.String("riddle_id", riddleID),
		slog.Bool("correct", isCorrect),
		slog.Int("points", result.PointsEarned),
	)
	return result, nil
}

// LogTreasureFound records a treasure find in the ledger and awards the
// flat treasure payout
func (s *Service) LogTreasureFound(ctx context.Context, playerID model.PlayerID, treasureID, location string, coords model.Coordinates) (*FindResult, error) {
	if treasureID == "" {
		return nil, fmt.Errorf("%w: treasure_id is required", model.ErrValidation)
	}

	_, err := s.ledger.Append(ctx, playerID, model.EventTreasureFound, model.TreasureFoundPayload{
		TreasureID:  treasureID,
		Location:    location,
		Coordinates: coords,
	})
	if err != nil {
		return nil, err
	}

	win, err := s.scoring.RecordWin(ctx, playerID, sourceTreasureFound, treasurePoints)
	if err != nil {
		return nil, err
	}

	s.logger.Info("treasure find logged",
		slog.String("player_id", string(playerID)),
		slog.String("treasure_id", treasureID),
		slog.Int("points", win.PointsEarned),
	)
	return &FindResult{
		PlayerID:     playerID,
		TreasureID:   treasureID,
		PointsEarned: win.PointsEarned,
	}, nil
}

// RiddleHistory returns the player's riddle attempts, newest first
func (s *Service) RiddleHistory(ctx context.Context, playerID model.PlayerID, limit int) ([]RiddleAttemptRecord, error) {
	events, err := s.ledger.Query(ctx, playerID, model.EventRiddleAttempt, limit)
	if err != nil {
		return nil, err
	}

	records := make([]RiddleAttemptRecord, 0, len(events))
	for _, evt := range events {
		var payload model.RiddleAttemptPayload
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			s.logger.Warn("skipping undecodable riddle attempt event",
				slog.String("event_id", string(evt.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		records = append(records, RiddleAttemptRecord{
			RiddleID:  payload.RiddleID,
			Location:  payload.Location,
			IsCorrect: payload.IsCorrect,
			TimeTaken: payload.TimeTaken,
			Timestamp: evt.Timestamp,
		})
	}
	return records, nil
}

// TreasureHistory returns the player's treasure finds, newest first
func (s *Service) TreasureHistory(ctx context.Context, playerID model.PlayerID, limit int) ([]TreasureFindRecord, error) {
	events, err := s.ledger.Query(ctx, playerID, model.EventTreasureFound, limit)
	if err != nil {
		return nil, err
	}

	records := make([]TreasureFindRecord, 0, len(events))
	for _, evt := range events {
		var payload model.TreasureFoundPayload
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			s.logger.Warn("skipping undecodable treasure find event",
				slog.String("event_id", string(evt.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		records = append(records, TreasureFindRecord{
			TreasureID:  payload.TreasureID,
			Location:    payload.Location,
			Coordinates: payload.Coordinates,
			Timestamp:   evt.Timestamp,
		})
	}
	return records, nil
}
