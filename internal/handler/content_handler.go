package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/contentintel/internal/pkg/response"
	"github.com/xxxsen/contentintel/internal/service"
)

type ContentHandler struct {
	content *service.ContentService
}

func NewContentHandler(content *service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

type textRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

type summaryRequest struct {
	textRequest
	MaxLength int `json:"max_length"`
}

type readingTimeRequest struct {
	textRequest
	WPM int `json:"wpm"`
}

type tagsRequest struct {
	Text    string `json:"text"`
	MaxTags int    `json:"max_tags"`
}

func (h *ContentHandler) Summary(c *gin.Context) {
	var req summaryRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.content.Summarize(c.Request.Context(), req.Text, req.MaxLength, req.Format)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, res)
}

func (h *ContentHandler) Excerpt(c *gin.Context) {
	var req summaryRequest
	if !bindJSON(c, &req) {
		return
	}
	response.Success(c, gin.H{"excerpt": h.content.Excerpt(req.Text, req.MaxLength, req.Format)})
}

func (h *ContentHandler) ReadingTime(c *gin.Context) {
	var req readingTimeRequest
	if !bindJSON(c, &req) {
		return
	}
	response.Success(c, gin.H{"minutes": h.content.ReadingTime(req.Text, req.WPM, req.Format)})
}

func (h *ContentHandler) Sentiment(c *gin.Context) {
	var req textRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.content.Sentiment(c.Request.Context(), req.Text)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, res)
}

func (h *ContentHandler) Tags(c *gin.Context) {
	var req tagsRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.content.Tags(c.Request.Context(), req.Text, req.MaxTags)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, res)
}

func (h *ContentHandler) Analyze(c *gin.Context) {
	var req textRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.content.Analyze(c.Request.Context(), req.Text, req.Format)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, res)
}
