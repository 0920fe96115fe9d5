package server

import (
	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/domain/mimetypes"
	"chat-hub/errors"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.abort(c, fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err))
			return
		}
		session, err := s.authService.Register(req.Username, req.Email, req.Password)
		if err != nil {
			s.abort(c, err)
			return
		}
		c.JSON(http.StatusOK, tokenResponse{AccessToken: session.Token, TokenType: "bearer", User: toUserResponse(session.User)})
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.abort(c, fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err))
			return
		}
		session, err := s.authService.Login(req.Username, req.Password)
		if err != nil {
			s.abort(c, err)
			return
		}
		c.JSON(http.StatusOK, tokenResponse{AccessToken: session.Token, TokenType: "bearer", User: toUserResponse(session.User)})
	}
}

func (s *Server) handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
	}
}

func (s *Server) handleSearchUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.authService.SearchUsers(c.Request.Context(), currentUser(c).ID, c.Query("q"))
		if err != nil {
			s.abort(c, err)
			return
		}
		c.JSON(http.StatusOK, lo.Map(users, func(u domain.User, _ int) searchResult {
			return searchResult{ID: u.ID, Username: u.Username}
		}))
	}
}

func (s *Server) handleCreateChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.abort(c, fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err))
			return
		}
		chat, err := s.chatService.CreateChat(domain.CreateChatCommand{
			RequesterID:    currentUser(c).ID,
			Name:           lo.FromPtr(req.Name),
			IsGroup:        req.IsGroup,
			ParticipantIDs: req.Participants,
		})
		if err != nil {
			s.abort(c, err)
			return
		}
		c.JSON(http.StatusOK, toChatResponse(chat))
	}
}

func (s *Server) handleListChats() gin.HandlerFunc {
	return func(c *gin.Context) {
		chats, err := s.chatService.ListChats(currentUser(c).ID)
		if err != nil {
			s.abort(c, err)
			return
		}
		c.JSON(http.StatusOK, lo.Map(chats, func(chat domain.Chat, _ int) chatResponse {
			return toChatResponse(chat)
		}))
	}
}

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.abort(c, fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err))
			return
		}
		attachment, err := toAttachment(req)
		if err != nil {
			s.abort(c, err)
			return
		}
		user := currentUser(c)
		message, err := s.chatService.SendMessage(c.Request.Context(), domain.SendMessageCommand{
			ChatID:     uuid.MustParse(req.ChatID),
			SenderID:   user.ID,
			SenderName: user.Username,
			Content:    req.Content,
			Kind:       domain.MessageKind(req.MessageType),
			Attachment: attachment,
		})
		if err != nil {
			s.abort(c, err)
			return
		}
		c.JSON(http.StatusOK, event.FromMessage(message))
	}
}

// toAttachment decodes the base64 file payload of a message, nil when there is none.
func toAttachment(req sendMessageRequest) (*domain.Attachment, error) {
	if req.FileData == nil {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(*req.FileData)
	if err != nil {
		return nil, fmt.Errorf("%w: file_data is not base64", errors.ErrInvalidRequest)
	}
	return &domain.Attachment{
		Data:      data,
		FileName:  lo.FromPtr(req.FileName),
		MediaType: mimetypes.Resolve(lo.FromPtr(req.FileType), data),
	}, nil
}

func (s *Server) handleGetMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, err := uuid.Parse(c.Param("chatID"))
		if err != nil {
			// Not a chat id, so not a chat
			s.abort(c, fmt.Errorf("%w: chat %s", errors.ErrNotFound, c.Param("chatID")))
			return
		}
		var query messagesQuery
		if err = c.ShouldBindQuery(&query); err != nil {
			s.abort(c, fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err))
			return
		}
		messages, err := s.chatService.GetMessages(domain.GetMessagesCommand{
			ChatID:      chatID,
			RequesterID: currentUser(c).ID,
			Offset:      query.Skip,
			Limit:       query.Limit,
		})
		if err != nil {
			s.abort(c, err)
			return
		}
		c.JSON(http.StatusOK, toMessageResponses(messages))
	}
}

// handleUpload materializes a multipart "file" into the base64 form used by message payloads.
func (s *Server) handleUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Room for the multipart envelope around the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadSize+64*1024)

		header, err := c.FormFile("file")
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if stderrors.As(err, &maxBytesErr) {
				s.abort(c, errors.ErrFileTooLarge)
				return
			}
			s.abort(c, fmt.Errorf("%w: %w", errors.ErrInvalidRequest, err))
			return
		}
		if header.Size > s.config.MaxUploadSize {
			s.abort(c, fmt.Errorf("%w: %d bytes", errors.ErrFileTooLarge, header.Size))
			return
		}

		file, err := header.Open()
		if err != nil {
			s.abort(c, err)
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(io.LimitReader(file, s.config.MaxUploadSize+1))
		if err != nil {
			s.abort(c, err)
			return
		}
		if int64(len(data)) > s.config.MaxUploadSize {
			s.abort(c, errors.ErrFileTooLarge)
			return
		}

		c.JSON(http.StatusOK, uploadResponse{
			FileData: base64.StdEncoding.EncodeToString(data),
			FileName: header.Filename,
			FileType: mimetypes.Resolve(header.Header.Get("Content-Type"), data),
			Size:     len(data),
		})
	}
}
