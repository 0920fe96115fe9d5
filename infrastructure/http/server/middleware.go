package server

import (
	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// authenticate rejects requests without a valid bearer token and stores the caller in the context.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.Request)
		if !ok {
			s.abort(c, errors.ErrUnauthorized)
			return
		}
		user, err := s.authService.Authenticate(token)
		if err != nil {
			s.abort(c, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// currentUser is only valid behind authenticate.
func currentUser(c *gin.Context) domain.User {
	user, _ := auth.UserFromContext(c.Request.Context())
	return user
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// corsPolicy allows the configured origins. "*" echoes any origin so credentialed requests keep working.
// Requests from other origins, websocket handshakes included, are refused with 403.
func (s *Server) corsPolicy() gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Origin"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if lo.Contains(s.config.CorsOrigins, "*") {
		config.AllowOriginFunc = func(string) bool { return true }
	} else {
		config.AllowOrigins = s.config.CorsOrigins
	}
	return cors.New(config)
}

// abort renders err as {"detail": "..."} with the status derived from it.
// Internal errors are logged and never detailed to the client.
func (s *Server) abort(c *gin.Context, err error) {
	status := errors.MapToHTTPStatus(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "path", c.FullPath(), "error", err)
		detail = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
