package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ironbid/internal/remoteapi"
	"ironbid/internal/session"
)

const (
	sessionKey      = "ironbid.session"
	RequestIDHeader = "X-Request-ID"
)

// Session decodes the bearer token, if any, into a session.Session stored on
// the gin context. Browsers cannot set headers on websocket upgrades, so a
// "token" query parameter is accepted as well. Invalid tokens are dropped and
// the request continues anonymously.
func Session(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if t := c.Query("token"); t != "" {
				header = "Bearer " + t
			}
		}
		if header != "" {
			sess, err := session.FromAuthorization(header, secret)
			if err != nil {
				zap.L().Debug("http.session", zap.Error(err))
			} else {
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": session.ErrMissingToken.Error()})
			return
		}
		c.Next()
	}
}

// RequireBroker rejects anonymous callers with 401 and signed-in callers
// without a broker role with 403.
func RequireBroker() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if !sess.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": session.ErrMissingToken.Error()})
			return
		}
		if !sess.IsBroker() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": session.ErrNotBroker.Error()})
			return
		}
		c.Next()
	}
}

// SessionFrom returns the request's session, or the zero Session.
func SessionFrom(c *gin.Context) session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return session.Session{}
	}
	s, _ := v.(session.Session)
	return s
}

// RequestID makes sure every request carries an X-Request-ID and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set(RequestIDHeader, id)
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(remoteapi.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
