package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dynotest/internal/apperr"
	"dynotest/internal/repository"
)

// InfoHandler exposes the motor configurations referenced by
// recordings. Rows are created by the upload pipeline, never here.
type InfoHandler struct {
	infos repository.InfoRepository
}

func NewInfoHandler(infos repository.InfoRepository) *InfoHandler {
	return &InfoHandler{infos: infos}
}

func (h *InfoHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("max", "100"))
	infos, err := h.infos.List(c.Request.Context(), limit)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(infos))
}

func (h *InfoHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid id parameter"))
		return
	}
	info, err := h.infos.FindByID(c.Request.Context(), id)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(info))
}
