// Search HTTP handlers.
//
// This file exposes the keyword search endpoints:
//   - GET {base}/search?q=&limit=   (ranked results with passages)
//   - GET /api?q=                   (legacy bare array of {title,date,url})
//
// A query without searchable words, or an unavailable corpus, is not an
// error: both answer 200 with an empty result list.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-talk-search/internal/http/middleware"
	"github.com/tbourn/go-talk-search/internal/services"
)

// legacyMaxResults is the fixed result count of GET /api.
const legacyMaxResults = 10

// parseLimit reads ?limit=. Absent means 0 (service default); values that
// are not positive integers are rejected, larger ones are clamped.
func (h *Handlers) parseLimit(c *gin.Context) (int, bool) {
	raw, present := c.GetQuery("limit")
	if !present || strings.TrimSpace(raw) == "" {
		return 0, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, false
	}
	return min(n, h.limits.MaxResults), true
}

// runSearch calls the service and maps its errors to responses. It reports
// false when a response has already been written.
func (h *Handlers) runSearch(c *gin.Context, query string, limit int) (services.SearchOutcome, bool) {
	out, err := h.svc.Search(c.Request.Context(), query, limit)
	switch {
	case errors.Is(err, services.ErrQueryTooLong):
		fail(c, http.StatusBadRequest, ErrCodeQueryTooLong, "query is too long")
		return out, false
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "search failed")
		return out, false
	}
	if !out.CorpusLoaded {
		middleware.LoggerFrom(c).Warn().Msg("search served without a corpus")
	}
	return out, true
}

// Search godoc
// @ID          searchTalks
// @Summary     Search talks
// @Description Ranks talks by keyword occurrences (title hits weigh 10, transcript hits 1). Query words of three characters or fewer are ignored. Returns up to three transcript passages per result.
// @Tags        Search
// @Produce     json
//
// @Param       q      query  string  false  "Search text"          example(faith)
// @Param       limit  query  int     false  "Maximum results"      minimum(1) maximum(100) default(10)
//
// @Success     200  {object}  handlers.SearchResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid limit or query too long"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Router      /search [get]
func (h *Handlers) Search(c *gin.Context) {
	limit, valid := h.parseLimit(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("limit must be an integer between 1 and %d", h.limits.MaxResults))
		return
	}
	q := c.Query("q")
	out, done := h.runSearch(c, q, limit)
	if !done {
		return
	}
	ok(c, http.StatusOK, SearchResponse{
		Query:        q,
		CorpusSize:   out.CorpusSize,
		CorpusLoaded: out.CorpusLoaded,
		Count:        len(out.Results),
		Results:      toSearchResults(out.Results),
	})
}

// LegacySearch serves GET /api: the ten best matches as a bare JSON array of
// {title, date, url}. It lives outside the versioned base path and is not part
// of the API docs.
func (h *Handlers) LegacySearch(c *gin.Context) {
	out, done := h.runSearch(c, c.Query("q"), legacyMaxResults)
	if !done {
		return
	}
	items := make([]LegacyResult, len(out.Results))
	for i, r := range out.Results {
		items[i] = LegacyResult{Title: r.Title, Date: r.Date, URL: r.URL}
	}
	ok(c, http.StatusOK, items)
}
