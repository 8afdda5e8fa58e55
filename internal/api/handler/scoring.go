package handler

import (
	"encoding/json"
	"net/http"

	"github.com/huntbase/treasurehunt/internal/api/request"
	"github.com/huntbase/treasurehunt/internal/api/response"
	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/services/ledger"
	"github.com/huntbase/treasurehunt/internal/services/scoring"
)

// ScoringHandler handles win recording, stats, rank and leaderboard endpoints
type ScoringHandler struct {
	scoringService *scoring.Service
	ledgerService  *ledger.Service
}

// NewScoringHandler creates a new scoring handler
func NewScoringHandler(scoringService *scoring.Service, ledgerService *ledger.Service) *ScoringHandler {
	return &ScoringHandler{
		scoringService: scoringService,
		ledgerService:  ledgerService,
	}
}

// RecordWin handles POST /api/v1/players/{id}/wins
func (h *ScoringHandler) RecordWin(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.RecordWinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.scoringService.RecordWin(r.Context(), id, req.Source, req.Points)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WinResultFromService(result))
}

// Stats handles GET /api/v1/players/{id}/stats
func (h *ScoringHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	stats, err := h.scoringService.GameStats(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromService(stats))
}

// Rank handles GET /api/v1/players/{id}/rank
func (h *ScoringHandler) Rank(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	rank, err := h.scoringService.Rank(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Rank{PlayerID: string(id), Rank: rank})
}

// Leaderboard handles GET /api/v1/leaderboard?limit=N
func (h *ScoringHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		WriteError(w, NewInvalidRequestError("limit must be an integer"))
		return
	}

	entries, err := h.scoringService.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromService(entries))
}

// Events handles GET /api/v1/players/{id}/events?type=T&limit=N
func (h *ScoringHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		WriteError(w, NewInvalidRequestError("limit must be an integer"))
		return
	}
	eventType := r.URL.Query().Get("type")

	events, err := h.ledgerService.Query(r.Context(), id, model.EventType(eventType), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EventListFromModels(events))
}
