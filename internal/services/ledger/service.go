package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/huntbase/treasurehunt/internal/dependencies/clock"
	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/storage"
)

// Service is the append-only event ledger. Events are recorded even when
// the player no longer resolves, so a race with deletion never loses data.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new ledger service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Append records a gameplay occurrence and returns the stored event
func (s *Service) Append(ctx context.Context, playerID model.PlayerID, eventType model.EventType, payload any) (*model.GameEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	event := &model.GameEvent{
		ID:        model.NewEventID(),
		PlayerID:  playerID,
		Type:      eventType,
		Payload:   data,
		Timestamp: s.clock.Now(),
	}

	if err := s.storage.AppendEvent(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("event logged",
		slog.String("event_id", string(event.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("event_type", string(eventType)),
	)
	return event, nil
}

// Query returns up to limit events for the player, newest first, optionally
// filtered by type. Re-querying re-executes against the store.
func (s *Service) Query(ctx context.Context, playerID model.PlayerID, eventType model.EventType, limit int) ([]*model.GameEvent, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be non-negative", model.ErrValidation)
	}
	return s.storage.QueryEvents(ctx, playerID, eventType, limit)
}
