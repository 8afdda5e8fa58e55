package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/huntbase/treasurehunt/internal/api/request"
	"github.com/huntbase/treasurehunt/internal/api/response"
	"github.com/huntbase/treasurehunt/internal/model"
	"github.com/huntbase/treasurehunt/internal/services/identity"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	identityService *identity.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(identityService *identity.Service) *PlayerHandler {
	return &PlayerHandler{
		identityService: identityService,
	}
}

// playerIDFromRequest extracts and validates the {id} path variable
func playerIDFromRequest(r *http.Request) (model.PlayerID, error) {
	return model.ParsePlayerID(mux.Vars(r)["id"])
}

// queryInt parses an integer query parameter, falling back to a default
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.identityService.Create(r.Context(), identity.NewPlayer{
		Handle:         req.Handle,
		ContactAddress: req.ContactAddress,
		GivenName:      req.GivenName,
		FamilyName:     req.FamilyName,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.identityService.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Lookup handles GET /api/v1/players/lookup?handle=... or ?contact=...
func (h *PlayerHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	handle := r.URL.Query().Get("handle")
	contact := r.URL.Query().Get("contact")

	var (
		player *model.Player
		err    error
	)
	switch {
	case handle != "":
		player, err = h.identityService.GetByHandle(r.Context(), handle)
	case contact != "":
		player, err = h.identityService.GetByContact(r.Context(), contact)
	default:
		WriteError(w, NewInvalidRequestError("handle or contact query parameter is required"))
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// List handles GET /api/v1/players?limit=N&offset=M
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		WriteError(w, NewInvalidRequestError("limit must be an integer"))
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		WriteError(w, NewInvalidRequestError("offset must be an integer"))
		return
	}

	players, err := h.identityService.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerListFromModels(players, limit, offset))
}

// Count handles GET /api/v1/players/count?active=true
func (h *PlayerHandler) Count(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	count, err := h.identityService.Count(r.Context(), activeOnly)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Count{Count: count})
}

// Update handles PATCH /api/v1/players/{id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.UpdatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	modified, err := h.identityService.Update(r.Context(), id, model.PlayerPatch{
		Handle:         req.Handle,
		ContactAddress: req.ContactAddress,
		GivenName:      req.GivenName,
		FamilyName:     req.FamilyName,
		IsActive:       req.IsActive,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Modified{Modified: modified})
}

// Deactivate handles POST /api/v1/players/{id}/deactivate
func (h *PlayerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.identityService.SoftDelete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Reactivate handles POST /api/v1/players/{id}/reactivate
func (h *PlayerHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.identityService.Reactivate(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /api/v1/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.identityService.HardDelete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// DeleteByContact handles DELETE /api/v1/players?contact=...
func (h *PlayerHandler) DeleteByContact(w http.ResponseWriter, r *http.Request) {
	contact := r.URL.Query().Get("contact")
	if contact == "" {
		WriteError(w, NewInvalidRequestError("contact query parameter is required"))
		return
	}

	if err := h.identityService.HardDeleteByContact(r.Context(), contact); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
