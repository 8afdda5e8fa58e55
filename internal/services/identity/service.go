package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/huntbase/treasurehunt/internal/dependencies/clock"
	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/storage"
)

// Service owns the player lifecycle: registration with two unique natural
// keys, lookups, profile updates, soft delete and hard delete.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new identity service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// NewPlayer holds the required fields for registration
type NewPlayer struct {
	Handle         string
	ContactAddress string
	GivenName      string
	FamilyName     string
}

// Create registers a new player. All four profile fields are required;
// a handle or contact address already in use fails with the matching
// duplicate-key error and leaves the existing player untouched.
func (s *Service) Create(ctx context.Context, np NewPlayer) (*model.Player, error) {
	if err := np.validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:             model.NewPlayerID(),
		Handle:         np.Handle,
		ContactAddress: np.ContactAddress,
		GivenName:      np.GivenName,
		FamilyName:     np.FamilyName,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player created",
		slog.String("player_id", string(player.ID)),
		slog.String("handle", player.Handle),
	)
	return player, nil
}

// GetByID returns the player, or model.ErrPlayerNotFound if absent
func (s *Service) GetByID(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// GetByHandle returns the player with the given handle
func (s *Service) GetByHandle(ctx context.Context, handle string) (*model.Player, error) {
	return s.storage.GetPlayerByHandle(ctx, handle)
}

// GetByContact returns the player with the given contact address
func (s *Service) GetByContact(ctx context.Context, contact string) (*model.Player, error) {
	return s.storage.GetPlayerByContact(ctx, contact)
}

// List returns a page of players in insertion order
func (s *Service) List(ctx context.Context, limit, offset int) ([]*model.Player, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be non-negative", model.ErrValidation)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must be non-negative", model.ErrValidation)
	}
	return s.storage.ListPlayers(ctx, limit, offset)
}

// Update applies a partial profile update and stamps UpdatedAt. The patch
// type cannot carry the id, creation time, or score counters, so those are
// structurally protected from this path. Returns the modified count.
func (s *Service) Update(ctx context.Context, id model.PlayerID, patch model.PlayerPatch) (int, error) {
	modified, err := s.storage.UpdatePlayer(ctx, id, patch, s.clock.Now())
	if err != nil {
		return 0, err
	}

	s.logger.Info("player updated",
		slog.String("player_id", string(id)),
		slog.Int("modified", modified),
	)
	return modified, nil
}

// SoftDelete marks the player inactive; the record remains resolvable
func (s *Service) SoftDelete(ctx context.Context, id model.PlayerID) error {
	inactive := false
	_, err := s.Update(ctx, id, model.PlayerPatch{IsActive: &inactive})
	return err
}

// Reactivate marks a soft-deleted player active again
func (s *Service) Reactivate(ctx context.Context, id model.PlayerID) error {
	active := true
	_, err := s.Update(ctx, id, model.PlayerPatch{IsActive: &active})
	return err
}

// HardDelete permanently removes the player record. Ledger events survive.
func (s *Service) HardDelete(ctx context.Context, id model.PlayerID) error {
	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return err
	}
	s.logger.Info("player deleted", slog.String("player_id", string(id)))
	return nil
}

// HardDeleteByContact permanently removes the player with the given contact address
func (s *Service) HardDeleteByContact(ctx context.Context, contact string) error {
	return s.storage.DeletePlayerByContact(ctx, contact)
}

// Count returns the number of players, optionally active-only
func (s *Service) Count(ctx context.Context, activeOnly bool) (int64, error) {
	return s.storage.CountPlayers(ctx, activeOnly)
}

func (np NewPlayer) validate() error {
	if np.Handle == "" {
		return fmt.Errorf("%w: handle is required", model.ErrValidation)
	}
	if np.ContactAddress == "" {
		return fmt.Errorf("%w: contact_address is required", model.ErrValidation)
	}
	if np.GivenName == "" {
		return fmt.Errorf("%w: given_name is required", model.ErrValidation)
	}
	if np.FamilyName == "" {
		return fmt.Errorf("%w: family_name is required", model.ErrValidation)
	}
	return nil
}
