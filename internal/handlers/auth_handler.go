package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dynotest/internal/apperr"
	"dynotest/internal/auth"
	"dynotest/internal/middleware"
	"dynotest/internal/models"
	"dynotest/internal/service"
)

type AuthHandler struct {
	service service.AuthService
	tokens  *auth.Tokens
}

func NewAuthHandler(service service.AuthService, tokens *auth.Tokens) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var reg models.UserRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid registration payload: "+err.Error()))
		return
	}

	id, err := h.service.Register(c.Request.Context(), reg)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(gin.H{"id": id}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var login models.UserLogin
	if err := c.ShouldBindJSON(&login); err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid login payload: "+err.Error()))
		return
	}

	result, err := h.service.Login(c.Request.Context(), login, c.GetHeader("User-Agent"))
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	maxAge := int(h.tokens.TTL().Seconds())
	c.SetCookie("token", result.Token, maxAge, "/", "", false, true)
	c.SetCookie("logged_in", "true", maxAge, "/", "", false, false)
	c.JSON(http.StatusOK, apperr.Success(result))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := middleware.Session(c)
	if err := h.service.Logout(c.Request.Context(), session, c.GetHeader("User-Agent")); err != nil {
		apperr.Abort(c, err)
		return
	}

	c.SetCookie("token", "", -1, "/", "", false, true)
	c.SetCookie("logged_in", "false", -1, "/", "", false, false)
	c.JSON(http.StatusOK, apperr.Success("logout success"))
}

func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.Session(c)
	user, err := h.service.Me(c.Request.Context(), session)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, apperr.Success(user))
}
