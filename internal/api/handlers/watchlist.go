package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wonny/quantum-leap/backend/internal/watchlist"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

// WatchlistHandler serves the shared app-state blob
// ⭐ SSOT: 앱 상태 API는 이 핸들러에서만
type WatchlistHandler struct {
	store  watchlist.Store
	logger *logger.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(store watchlist.Store, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		store:  store,
		logger: log,
	}
}

// Get returns the current app state
// GET /api/watchlist
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.Load(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Watchlist load failed")
		respondError(w, http.StatusInternalServerError, "failed to load state")
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// Put replaces the app state wholesale
// PUT /api/watchlist
func (h *WatchlistHandler) Put(w http.ResponseWriter, r *http.Request) {
	var state watchlist.AppState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		respondError(w, http.StatusBadRequest, "invalid state body")
		return
	}
	if !state.Valid() {
		respondError(w, http.StatusBadRequest, "state needs at least one tab")
		return
	}

	if err := h.store.Save(r.Context(), &state); err != nil {
		h.logger.WithError(err).Error("Watchlist save failed")
		respondError(w, http.StatusInternalServerError, "failed to save state")
		return
	}
	respondJSON(w, http.StatusOK, &state)
}
