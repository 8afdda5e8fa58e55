package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/huntbase/treasurehunt/internal/dependencies/clock"
	"github.com/huntbase/treasurehunt/internal/services/activity"
	"github.com/huntbase/treasurehunt/internal/services/identity"
	"github.com/huntbase/treasurehunt/internal/services/ledger"
	"github.com/huntbase/treasurehunt/internal/services/scoring"
	"github.com/huntbase/treasurehunt/internal/storage"
	"github.com/huntbase/treasurehunt/internal/storage/memory"
	redisstorage "github.com/huntbase/treasurehunt/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	IdentityService *identity.Service
	LedgerService   *ledger.Service
	ScoringService  *scoring.Service
	ActivityService *activity.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	return newWithDependencies(store, clk, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, logger *slog.Logger) *App {
	// Create services
	identityService := identity.New(store, clk, logger)
	ledgerService := ledger.New(store, clk, logger)
	scoringService := scoring.New(store, ledgerService, clk, logger)
	activityService := activity.New(ledgerService, scoringService, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		IdentityService: identityService,
		LedgerService:   ledgerService,
		ScoringService:  scoringService,
		ActivityService: activityService,
	}
}
