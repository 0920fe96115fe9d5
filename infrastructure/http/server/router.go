package server

import (
	"chat-hub/services"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Config struct {
	ConnectionBufferSize int
	MaxUploadSize        int64
	CorsOrigins          []string
}

// Server exposes the chat services over REST and the /ws realtime endpoint.
type Server struct {
	log         *slog.Logger
	authService services.IAuthService
	chatService services.IChatService
	config      Config
}

func NewServer(log *slog.Logger, authService services.IAuthService, chatService services.IChatService, config Config) *Server {
	return &Server{log: log, authService: authService, chatService: chatService, config: config}
}

// Router mounts every route on a fresh gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.corsPolicy())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// GET /ws?token=... -> realtime stream of new_message events
	r.GET("/ws", s.handleWebsocket())

	api := r.Group("/api")
	api.POST("/auth/register", s.handleRegister())
	api.POST("/auth/login", s.handleLogin())

	protected := api.Group("", s.authenticate())
	protected.GET("/users/me", s.handleMe())
	protected.GET("/users/search", s.handleSearchUsers())
	protected.POST("/chats", s.handleCreateChat())
	protected.GET("/chats", s.handleListChats())
	protected.POST("/messages", s.handleSendMessage())
	protected.GET("/messages/:chatID", s.handleGetMessages())
	protected.POST("/upload", s.handleUpload())
	return r
}
