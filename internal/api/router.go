package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/huntbase/treasurehunt/internal/api/handler"
	apimiddleware "github.com/huntbase/treasurehunt/internal/api/middleware"
	"github.com/huntbase/treasurehunt/internal/middleware"
	"github.com/huntbase/treasurehunt/internal/services/activity"
	"github.com/huntbase/treasurehunt/internal/services/identity"
	"github.com/huntbase/treasurehunt/internal/services/ledger"
	"github.com/huntbase/treasurehunt/internal/services/scoring"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	IdentityService *identity.Service
	ScoringService  *scoring.Service
	ActivityService *activity.Service
	LedgerService   *ledger.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.IdentityService)
	scoringHandler := handler.NewScoringHandler(cfg.ScoringService, cfg.LedgerService)
	activityHandler := handler.NewActivityHandler(cfg.ActivityService)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes; fixed paths go before the {id} wildcard
	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.DeleteByContact).Methods(http.MethodDelete)
	api.HandleFunc("/players/lookup", playerHandler.Lookup).Methods(http.MethodGet)
	api.HandleFunc("/players/count", playerHandler.Count).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Update).Methods(http.MethodPatch)
	api.HandleFunc("/players/{id}", playerHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/players/{id}/deactivate", playerHandler.Deactivate).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}/reactivate", playerHandler.Reactivate).Methods(http.MethodPost)

	// Scoring routes
	api.HandleFunc("/players/{id}/wins", scoringHandler.RecordWin).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}/stats", scoringHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/rank", scoringHandler.Rank).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/events", scoringHandler.Events).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", scoringHandler.Leaderboard).Methods(http.MethodGet)

	// Gameplay activity routes
	api.HandleFunc("/players/{id}/riddle-attempts", activityHandler.LogRiddleAttempt).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}/riddle-attempts", activityHandler.RiddleHistory).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/treasures", activityHandler.LogTreasureFound).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}/treasures", activityHandler.TreasureHistory).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
