package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/mythstats-data/internal/api/respond"
	"github.com/albapepper/mythstats-data/internal/cache"
	"github.com/albapepper/mythstats-data/internal/config"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	maxSearchLimit  = 50
)

// GetLeaderboards lists the configured ladders.
func (h *Handler) GetLeaderboards(w http.ResponseWriter, r *http.Request) {
	boards := make([]map[string]interface{}, 0, len(config.LeaderboardRegistry))
	for _, id := range h.cfg.LeaderboardIDs {
		lb, ok := config.LeaderboardRegistry[id]
		if !ok {
			lb = config.LeaderboardConfig{ID: id, Name: fmt.Sprintf("Leaderboard %d", id)}
		}
		boards = append(boards, map[string]interface{}{"id": lb.ID, "name": lb.Name})
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"leaderboards": boards})
}

// GetLeaderboardPlayers returns one page of standings for a leaderboard,
// ordered by rank.
func (h *Handler) GetLeaderboardPlayers(w http.ResponseWriter, r *http.Request) {
	lbID, err := strconv.Atoi(chi.URLParam(r, "leaderboardID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Leaderboard ID must be an integer")
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		page, err = strconv.Atoi(p)
		if err != nil || page < 1 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_PAGE", "page must be a positive integer")
			return
		}
	}

	pageSize := defaultPageSize
	if ps := r.URL.Query().Get("page_size"); ps != "" {
		pageSize, err = strconv.Atoi(ps)
		if err != nil || pageSize < 1 || pageSize > maxPageSize {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_PAGE_SIZE",
				fmt.Sprintf("page_size must be between 1 and %d", maxPageSize))
			return
		}
	}

	cacheKey := fmt.Sprintf("lb:%d:%d:%d", lbID, page, pageSize)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLLeaderboard, true)
		return
	}

	offset := (page - 1) * pageSize
	var raw []byte
	err = h.pool.QueryRow(r.Context(), "api_leaderboard_players", lbID, pageSize, offset).Scan(&raw)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to load leaderboard page")
		return
	}
	if raw == nil {
		raw = []byte("[]")
	}

	etag := h.cache.Set(cacheKey, raw, cache.TTLLeaderboard)
	respond.WriteJSON(w, raw, etag, cache.TTLLeaderboard, false)
}

// SearchPlayers finds standings by display name substring.
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if len(q) < 2 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_QUERY", "q must be at least 2 characters")
		return
	}

	limit := 25
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxSearchLimit {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_LIMIT",
				fmt.Sprintf("limit must be between 1 and %d", maxSearchLimit))
			return
		}
		limit = n
	}

	var raw []byte
	err := h.pool.QueryRow(r.Context(), "api_player_search", q, limit).Scan(&raw)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Player search failed")
		return
	}
	if raw == nil {
		raw = []byte("[]")
	}

	etag := cache.ComputeETag(raw)
	respond.WriteJSON(w, raw, etag, cache.TTLLeaderboard, false)
}
