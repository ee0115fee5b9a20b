// Talk HTTP handlers.
//
// This file exposes read-only endpoints over the loaded corpus:
//   - GET {base}/talks          (list in corpus order, paginated)
//   - GET {base}/talks/{id}     (one talk with its transcript)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-talk-search/internal/services"
	"github.com/tbourn/go-talk-search/internal/utils"
)

// clampPagination parses page and page_size, bounding them to
// [1, +inf) and [1, MaxPageSize].
func (h *Handlers) clampPagination(c *gin.Context) (page, pageSize int) {
	page = max(utils.AtoiDefault(c.Query("page"), 1), 1)
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), h.limits.DefaultPageSize), 1, h.limits.MaxPageSize)
	return page, pageSize
}

// ListTalks godoc
// @ID          listTalks
// @Summary     List talks (paginated)
// @Description Returns a page of talks in corpus order, without transcripts.
// @Tags        Talks
// @Produce     json
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListTalksResponse
// @Failure     503  {object}  handlers.ErrorResponse  "Corpus unavailable"
// @Router      /talks [get]
func (h *Handlers) ListTalks(c *gin.Context) {
	page, pageSize := h.clampPagination(c)

	items, total, err := h.svc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		failCorpus(c, err)
		return
	}

	talks := make([]TalkSummary, len(items))
	for i, t := range items {
		talks[i] = toSummary(t)
	}
	totalPages := utils.TotalPages(total, pageSize)
	ok(c, http.StatusOK, ListTalksResponse{
		Talks: talks,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetTalk godoc
// @ID          getTalk
// @Summary     Get a talk
// @Description Returns one talk, including its transcript.
// @Tags        Talks
// @Produce     json
//
// @Param       id  path  string  true  "Talk ID"  example(1712)
//
// @Success     200  {object}  handlers.TalkDetail
// @Failure     404  {object}  handlers.ErrorResponse  "Talk not found"
// @Failure     503  {object}  handlers.ErrorResponse  "Corpus unavailable"
// @Router      /talks/{id} [get]
func (h *Handlers) GetTalk(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failCorpus(c, err)
		return
	}
	ok(c, http.StatusOK, TalkDetail{TalkSummary: toSummary(t), Transcript: t.Transcript})
}

// failCorpus maps service lookup errors to responses.
func failCorpus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTalkNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "talk not found")
	case errors.Is(err, services.ErrCorpusUnavailable):
		c.Header("Retry-After", "30")
		fail(c, http.StatusServiceUnavailable, ErrCodeCorpusUnavailable, "talk corpus is not available")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "lookup failed")
	}
}
