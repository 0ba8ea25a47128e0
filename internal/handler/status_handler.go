package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/contentintel/internal/pkg/response"
	"github.com/xxxsen/contentintel/internal/service"
)

type StatusHandler struct {
	content *service.ContentService
}

func NewStatusHandler(content *service.ContentService) *StatusHandler {
	return &StatusHandler{content: content}
}

func (h *StatusHandler) Get(c *gin.Context) {
	response.Success(c, h.content.Status())
}
