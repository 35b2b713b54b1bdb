package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"dynotest/internal/apperr"
	"dynotest/internal/auth"
	"dynotest/internal/models"
)

// sessionKey is private to this package; handlers read the session
// back through Session(c), never by string key.
const sessionKey = "dynotest/session"

// tokenFromRequest extracts the session token, preferring the cookie
// over the Authorization header.
func tokenFromRequest(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie, true
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer "), true
	}
	return "", false
}

// resolveSession verifies the request's token and aborts with 401 on
// any failure. Returns false when the request was aborted.
func resolveSession(c *gin.Context, tokens *auth.Tokens) (models.UserSession, bool) {
	token, ok := tokenFromRequest(c)
	if !ok {
		apperr.Abort(c, apperr.Unauthorized("you are not logged in, please provide a token"))
		return models.UserSession{}, false
	}
	session, err := tokens.Verify(token)
	if err != nil {
		apperr.Abort(c, apperr.Unauthorized("invalid credentials"))
		return models.UserSession{}, false
	}
	return session, true
}

// Authenticated rejects the request with 401 unless it carries a
// verifiable session token. The resolved session is stored for the
// handler.
func Authenticated(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := resolveSession(c, tokens)
		if !ok {
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// AdminOnly is Authenticated plus a role gate. A valid non-admin
// session gets 403, distinguishable from the 401 of a missing or
// broken token.
func AdminOnly(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := resolveSession(c, tokens)
		if !ok {
			return
		}
		if !session.Role.IsAdmin() {
			apperr.Abort(c, apperr.Forbidden("admin access required"))
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// Session returns the identity the guard resolved for this request.
// Only valid on routes behind Authenticated or AdminOnly.
func Session(c *gin.Context) models.UserSession {
	session, _ := c.Get(sessionKey)
	s, _ := session.(models.UserSession)
	return s
}
