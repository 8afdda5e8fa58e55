package storage

import (
	"context"
	"time"

	"github.com/huntbase/treasurehunt/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	//
	// CreatePlayer fails with model.ErrDuplicateHandle or
	// model.ErrDuplicateContact when a unique key is already claimed;
	// the reservation happens at the store level so a concurrent
	// check-then-insert cannot slip through.
	CreatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByHandle(ctx context.Context, handle string) (*model.Player, error)
	GetPlayerByContact(ctx context.Context, contact string) (*model.Player, error)
	// ListPlayers returns a page of players in insertion order.
	ListPlayers(ctx context.Context, limit, offset int) ([]*model.Player, error)
	// UpdatePlayer applies the patch, maintains the unique indexes on a
	// handle/contact rename, stamps UpdatedAt, and returns the number of
	// modified documents (0 or 1).
	UpdatePlayer(ctx context.Context, id model.PlayerID, patch model.PlayerPatch, now time.Time) (int, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	DeletePlayerByContact(ctx context.Context, contact string) error
	CountPlayers(ctx context.Context, activeOnly bool) (int64, error)

	// Scoring operations
	//
	// IncrementScore atomically adds one win and the given points to the
	// player's counters as a single storage-level increment (never a
	// read-then-write-back) and returns the resulting totals.
	IncrementScore(ctx context.Context, id model.PlayerID, points int, now time.Time) (*model.ScoreTotals, error)
	// PlayerRank returns 1 plus the number of active players whose total
	// points strictly exceed the subject's; tied players share a rank.
	PlayerRank(ctx context.Context, id model.PlayerID) (int, error)
	// TopPlayers returns the top active players by points descending,
	// ties in arbitrary stable order.
	TopPlayers(ctx context.Context, limit int) ([]*model.Player, error)

	// Event ledger operations
	//
	// AppendEvent records an event without checking that the player still
	// resolves, so a race with deletion never loses data.
	AppendEvent(ctx context.Context, event *model.GameEvent) error
	// QueryEvents returns up to limit events for the player, newest
	// first, optionally filtered by type (empty means all types).
	QueryEvents(ctx context.Context, playerID model.PlayerID, eventType model.EventType, limit int) ([]*model.GameEvent, error)
	CountEvents(ctx context.Context, playerID model.PlayerID) (int64, error)
	EventBreakdown(ctx context.Context, playerID model.PlayerID) (map[model.EventType]int64, error)
}
