package server

import (
	"chat-hub/domain"
	"chat-hub/domain/event"
	"time"

	"github.com/samber/lo"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

type searchResult struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type createChatRequest struct {
	Name         *string  `json:"name"`
	IsGroup      bool     `json:"is_group"`
	Participants []string `json:"participants"`
}

type chatResponse struct {
	ID            string     `json:"id"`
	Name          *string    `json:"name"`
	IsGroup       bool       `json:"is_group"`
	Participants  []string   `json:"participants"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at"`
}

type sendMessageRequest struct {
	ChatID      string  `json:"chat_id" binding:"required,uuid"`
	Content     string  `json:"content"`
	MessageType string  `json:"message_type"`
	FileData    *string `json:"file_data"`
	FileName    *string `json:"file_name"`
	FileType    *string `json:"file_type"`
}

type messagesQuery struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit" binding:"min=0"`
}

type uploadResponse struct {
	FileData string `json:"file_data"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	Size     int    `json:"size"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toChatResponse(c domain.Chat) chatResponse {
	return chatResponse{
		ID:            c.ID.String(),
		Name:          lo.EmptyableToPtr(c.Name),
		IsGroup:       c.IsGroup,
		Participants:  c.Participants,
		CreatedBy:     c.CreatedBy,
		CreatedAt:     c.CreatedAt,
		LastMessageAt: c.LastActivityAt,
	}
}

func toMessageResponses(messages []domain.Message) []event.MessagePayload {
	return lo.Map(messages, func(m domain.Message, _ int) event.MessagePayload {
		return event.FromMessage(m)
	})
}
