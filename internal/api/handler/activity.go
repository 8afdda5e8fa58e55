package handler

import (
	"encoding/json"
	"net/http"

	"github.com/huntbase/treasurehunt/internal/api/request"
	"github.com/huntbase/treasurehunt/internal/api/response"
	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/services/activity"
)

// ActivityHandler handles riddle and treasure gameplay endpoints
type ActivityHandler struct {
	activityService *activity.Service
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *activity.Service) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// LogRiddleAttempt handles POST /api/v1/players/{id}/riddle-attempts
func (h *ActivityHandler) LogRiddleAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.RiddleAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.activityService.LogRiddleAttempt(r.Context(), id, req.RiddleID, req.Location, req.IsCorrect, req.TimeTaken)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AttemptResultFromService(result))
}

// RiddleHistory handles GET /api/v1/players/{id}/riddle-attempts?limit=N
func (h *ActivityHandler) RiddleHistory(w http.ResponseWriter, r *http.Request) {
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

	attempts, err := h.activityService.RiddleHistory(r.Context(), id, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RiddleHistory{Attempts: attempts})
}

// LogTreasureFound handles POST /api/v1/players/{id}/treasures
func (h *ActivityHandler) LogTreasureFound(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.TreasureFoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.activityService.LogTreasureFound(r.Context(), id, req.TreasureID, req.Location, model.Coordinates{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.FindResultFromService(result))
}

// TreasureHistory handles GET /api/v1/players/{id}/treasures?limit=N
func (h *ActivityHandler) TreasureHistory(w http.ResponseWriter, r *http.Request) {
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

	finds, err := h.activityService.TreasureHistory(r.Context(), id, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TreasureHistory{Finds: finds})
}
