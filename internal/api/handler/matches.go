package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/mythstats-data/internal/api/respond"
	"github.com/albapepper/mythstats-data/internal/cache"
	"github.com/albapepper/mythstats-data/internal/match"
)

// GetMatch returns one match document by id.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Match ID must be an integer")
		return
	}

	cacheKey := fmt.Sprintf("match:%d", matchID)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLStatic, true)
		return
	}

	var raw []byte
	err = h.pool.QueryRow(r.Context(), "api_match_by_id", matchID).Scan(&raw)
	if err != nil || raw == nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("Match %d not found", matchID))
		return
	}

	// Stored matches are immutable, so a long TTL is safe.
	etag := h.cache.Set(cacheKey, raw, cache.TTLStatic)
	respond.WriteJSON(w, raw, etag, cache.TTLStatic, false)
}

// GetMaps returns the canonical random map table.
func (h *Handler) GetMaps(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"maps": match.MapTable()})
}

// GetModes returns the matchtype id to game mode label table.
func (h *Handler) GetModes(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"modes": match.GameModeTable()})
}

// civStatsWindow resolves the aggregation window from query parameters.
// Either a trailing window of days (default 30) or an explicit from/to
// date range, so callers can line the window up with patch boundaries.
// Dates are YYYY-MM-DD; to is inclusive and defaults to today. Returns
// the window in epoch milliseconds (match_date units) plus a cache key
// fragment; a non-empty errCode signals a 400.
func civStatsWindow(q url.Values, now time.Time) (startMillis, endMillis int64, window, errCode, errMsg string) {
	if from := q.Get("from"); from != "" {
		fromDate, err := time.Parse("2006-01-02", from)
		if err != nil {
			return 0, 0, "", "INVALID_FROM", "from must be a YYYY-MM-DD date"
		}
		end := now
		if to := q.Get("to"); to != "" {
			toDate, err := time.Parse("2006-01-02", to)
			if err != nil {
				return 0, 0, "", "INVALID_TO", "to must be a YYYY-MM-DD date"
			}
			end = toDate.AddDate(0, 0, 1)
		}
		if !fromDate.Before(end) {
			return 0, 0, "", "INVALID_RANGE", "from must be before to"
		}
		return fromDate.UnixMilli(), end.UnixMilli(),
			fmt.Sprintf("%d-%d", fromDate.UnixMilli(), end.UnixMilli()), "", ""
	}

	days := 30
	if d := q.Get("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 1 || n > 365 {
			return 0, 0, "", "INVALID_DAYS", "days must be between 1 and 365"
		}
		days = n
	}
	return now.AddDate(0, 0, -days).UnixMilli(), now.UnixMilli(), strconv.Itoa(days), "", ""
}

// GetCivStats returns per-civilization win rates for a game mode, over a
// trailing window of days or an explicit from/to date range.
func (h *Handler) GetCivStats(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "1V1_SUPREMACY"
	}

	startMillis, endMillis, window, errCode, errMsg := civStatsWindow(r.URL.Query(), time.Now())
	if errCode != "" {
		respond.WriteError(w, http.StatusBadRequest, errCode, errMsg)
		return
	}

	cacheKey := fmt.Sprintf("civstats:%s:%s", mode, window)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLStats, true)
		return
	}

	var raw []byte
	err := h.pool.QueryRow(r.Context(), "api_civ_stats", mode, startMillis, endMillis).Scan(&raw)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to compute civ stats")
		return
	}
	if raw == nil {
		raw = []byte("[]")
	}

	etag := h.cache.Set(cacheKey, raw, cache.TTLStats)
	respond.WriteJSON(w, raw, etag, cache.TTLStats, false)
}
