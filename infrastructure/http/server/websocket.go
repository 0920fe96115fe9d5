package server

import (
	"chat-hub/errors"
	"chat-hub/infrastructure/realtime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// handleWebsocket authenticates the token query parameter before upgrading, then keeps
// the session registered until the peer goes away. Inbound frames are ignored.
func (s *Server) handleWebsocket() gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Origins are enforced by corsPolicy before the handshake reaches the upgrader
		CheckOrigin: func(*http.Request) bool { return true },
	}
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			s.abort(c, errors.ErrUnauthorized)
			return
		}
		user, err := s.authService.Authenticate(token)
		if err != nil {
			s.abort(c, err)
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response
			s.log.Debug("Websocket upgrade failed", "user_id", user.ID, "error", err)
			return
		}

		conn := realtime.NewConnection(ws, s.log.With("user_id", user.ID), s.config.ConnectionBufferSize)
		conn.Start()
		connectionID := s.chatService.Connect(user.ID, conn)
		s.log.Info("User connected", "user_id", user.ID, "connection_id", connectionID)

		conn.ReadLoop()

		s.chatService.Disconnect(connectionID, user.ID)
		s.log.Info("User disconnected", "user_id", user.ID, "connection_id", connectionID)
	}
}
