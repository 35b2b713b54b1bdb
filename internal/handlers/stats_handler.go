package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dynotest/internal/apperr"
	"dynotest/internal/service"
)

type StatsHandler struct {
	service service.StatsService
}

func NewStatsHandler(service service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(stats))
}
