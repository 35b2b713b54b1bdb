package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dynotest/internal/apperr"
	"dynotest/internal/middleware"
	"dynotest/internal/service"
)

type HistoryHandler struct {
	service service.HistoryService
}

func NewHistoryHandler(service service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

func (h *HistoryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("max", "100"))
	all := c.Query("all") == "true"

	session := middleware.Session(c)
	histories, err := h.service.List(c.Request.Context(), session, all, limit)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(histories))
}
