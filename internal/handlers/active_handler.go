package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dynotest/internal/apperr"
	"dynotest/internal/codec"
	"dynotest/internal/middleware"
	"dynotest/internal/state"
)

// ActiveHandler exposes the shared "who is on the rig" slot for the
// live dashboard.
type ActiveHandler struct {
	active *state.ActiveSession
}

func NewActiveHandler(active *state.ActiveSession) *ActiveHandler {
	return &ActiveHandler{active: active}
}

func (h *ActiveHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, apperr.Success(h.active.Get()))
}

// SetConfig lets the current rig holder publish the configuration it
// is testing with.
func (h *ActiveHandler) SetConfig(c *gin.Context) {
	var config codec.MotorConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid motor config payload: "+err.Error()))
		return
	}

	session := middleware.Session(c)
	if !h.active.SetConfig(session.ID, &config) {
		apperr.Abort(c, apperr.Forbidden("you do not hold the active rig session"))
		return
	}
	c.JSON(http.StatusOK, apperr.Success(h.active.Get()))
}
