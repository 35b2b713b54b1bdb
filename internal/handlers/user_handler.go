package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dynotest/internal/apperr"
	"dynotest/internal/middleware"
	"dynotest/internal/models"
	"dynotest/internal/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("max", "100"))
	users, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(users))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid id parameter"))
		return
	}
	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(user))
}

func (h *UserHandler) Create(c *gin.Context) {
	var reg models.UserRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid user payload: "+err.Error()))
		return
	}

	id, err := h.service.Create(c.Request.Context(), reg, reg.Role)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(gin.H{"id": id}))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid id parameter"))
		return
	}

	var update models.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid update payload: "+err.Error()))
		return
	}

	session := middleware.Session(c)
	if err := h.service.Update(c.Request.Context(), session, id, update); err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(gin.H{"id": id}))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid id parameter"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(gin.H{"id": id}))
}
