package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/contentintel/internal/pkg/errcode"
	"github.com/xxxsen/contentintel/internal/pkg/response"
	"github.com/xxxsen/contentintel/internal/service"
)

type SearchHandler struct {
	content *service.ContentService
}

func NewSearchHandler(content *service.ContentService) *SearchHandler {
	return &SearchHandler{content: content}
}

type enhanceRequest struct {
	Query    string            `json:"query"`
	Articles []json.RawMessage `json:"articles"`
}

func (h *SearchHandler) Enhance(c *gin.Context) {
	var req enhanceRequest
	if !bindJSON(c, &req) {
		return
	}
	items := h.content.Search(c.Request.Context(), req.Query, req.Articles)
	if items == nil {
		items = []json.RawMessage{}
	}
	response.Success(c, gin.H{"items": items})
}

func (h *SearchHandler) Similar(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			response.Error(c, errcode.ErrInvalid, "invalid limit")
			return
		}
		limit = v
	}
	queries, err := h.content.SimilarQueries(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"queries": queries})
}
