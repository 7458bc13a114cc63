package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/mythstats-data/internal/api/respond"
	"github.com/albapepper/mythstats-data/internal/cache"
)

const maxMatchLimit = 100

// GetPlayerStandings returns one profile's standings on every leaderboard.
func (h *Handler) GetPlayerStandings(w http.ResponseWriter, r *http.Request) {
	profileID, err := strconv.ParseInt(chi.URLParam(r, "profileID"), 10, 64)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Profile ID must be an integer")
		return
	}

	cacheKey := fmt.Sprintf("standings:%d", profileID)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLLeaderboard, true)
		return
	}

	var raw []byte
	err = h.pool.QueryRow(r.Context(), "api_player_standings", profileID).Scan(&raw)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to load standings")
		return
	}
	if raw == nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("No standings for profile %d", profileID))
		return
	}

	etag := h.cache.Set(cacheKey, raw, cache.TTLLeaderboard)
	respond.WriteJSON(w, raw, etag, cache.TTLLeaderboard, false)
}

// GetPlayerMatches returns recent match documents mentioning a profile,
// newest first.
func (h *Handler) GetPlayerMatches(w http.ResponseWriter, r *http.Request) {
	profileIDStr := chi.URLParam(r, "profileID")
	if _, err := strconv.ParseInt(profileIDStr, 10, 64); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Profile ID must be an integer")
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxMatchLimit {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_LIMIT",
				fmt.Sprintf("limit must be between 1 and %d", maxMatchLimit))
			return
		}
		limit = n
	}

	cacheKey := fmt.Sprintf("matches:%s:%d", profileIDStr, limit)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLMatches, true)
		return
	}

	var raw []byte
	err := h.pool.QueryRow(r.Context(), "api_player_matches", profileIDStr, limit).Scan(&raw)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to load matches")
		return
	}
	if raw == nil {
		raw = []byte("[]")
	}

	etag := h.cache.Set(cacheKey, raw, cache.TTLMatches)
	respond.WriteJSON(w, raw, etag, cache.TTLMatches, false)
}
