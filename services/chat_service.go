package services

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/repositories"
	"chat-hub/runtime"
	"context"
	"log/slog"
)

type IChatService interface {
	CreateChat(cmd domain.CreateChatCommand) (domain.Chat, error)
	ListChats(userID string) ([]domain.Chat, error)
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, error)
	Connect(userID string, conn contract.Connection) domain.ConnectionID
	Disconnect(connectionID domain.ConnectionID, userID string)
}

type Pagination struct {
	DefaultPageSize int
	MaxPageSize     int
}

type ChatService struct {
	log         *slog.Logger
	chats       repositories.IChatRepository
	messages    repositories.IMessageRepository
	registry    contract.IRegistry
	broadcaster contract.IBroadcaster
	locks       *runtime.ChatLocks
	censor      contract.Censor
	pagination  Pagination
}

// NewChatService wires the chat core. censor may be nil when moderation is disabled.
func NewChatService(log *slog.Logger,
	chats repositories.IChatRepository,
	messages repositories.IMessageRepository,
	registry contract.IRegistry,
	broadcaster contract.IBroadcaster,
	locks *runtime.ChatLocks,
	censor contract.Censor,
	pagination Pagination) *ChatService {
	return &ChatService{
		log:         log,
		chats:       chats,
		messages:    messages,
		registry:    registry,
		broadcaster: broadcaster,
		locks:       locks,
		censor:      censor,
		pagination:  pagination,
	}
}

func (s *ChatService) CreateChat(cmd domain.CreateChatCommand) (domain.Chat, error) {
	chat, err := s.chats.CreateChat(cmd)
	if err != nil {
		return domain.Chat{}, err
	}
	s.log.Debug("Chat ready", "chat_id", chat.ID, "is_group", chat.IsGroup, "participants", len(chat.Participants))
	return chat, nil
}

func (s *ChatService) ListChats(userID string) ([]domain.Chat, error) {
	return s.chats.ListChatsForUser(userID)
}

// SendMessage persists a message and pushes it to the online participants.
// Append, activity bookkeeping and fan out run under the chat lock so that
// recipients observe messages of one chat in append order.
func (s *ChatService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	// Outsiders learn nothing about the chat, not even that their payload is invalid
	chat, err := s.chats.GetChatForParticipant(cmd.ChatID, cmd.SenderID)
	if err != nil {
		return domain.Message{}, err
	}

	cmd = cmd.Normalize()
	if err = domain.ValidateMessage(cmd.Content, cmd.Kind, cmd.Attachment); err != nil {
		return domain.Message{}, err
	}

	content := cmd.Content
	if s.censor != nil {
		var words []string
		if content, words = s.censor.Censor(content); len(words) > 0 {
			s.log.Info("Message censored", "chat_id", chat.ID, "user_id", cmd.SenderID, "words", len(words))
		}
	}

	unlock := s.locks.Lock(chat.ID.String())
	defer unlock()

	// Nothing is stored once the caller gave up
	if err = ctx.Err(); err != nil {
		return domain.Message{}, err
	}

	message, err := s.messages.Append(cmd.Draft(content))
	if err != nil {
		return domain.Message{}, err
	}

	if err = s.chats.TouchLastActivity(chat.ID, message.CreatedAt); err != nil {
		// The message exists, only the chat ordering lags behind
		s.log.Warn("Cannot touch chat activity", "chat_id", chat.ID, "error", err)
	}

	s.broadcaster.FanOut(ctx, message, chat)
	return message, nil
}

// GetMessages returns a page of a chat history, oldest first.
// A limit outside (0, MaxPageSize] is clamped.
func (s *ChatService) GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, error) {
	if _, err := s.chats.GetChatForParticipant(cmd.ChatID, cmd.RequesterID); err != nil {
		return nil, err
	}
	limit := cmd.Limit
	if limit <= 0 {
		limit = s.pagination.DefaultPageSize
	}
	if s.pagination.MaxPageSize > 0 && limit > s.pagination.MaxPageSize {
		limit = s.pagination.MaxPageSize
	}
	return s.messages.ListMessages(cmd.ChatID, max(cmd.Offset, 0), limit)
}

func (s *ChatService) Connect(userID string, conn contract.Connection) domain.ConnectionID {
	return s.registry.Admit(userID, conn)
}

func (s *ChatService) Disconnect(connectionID domain.ConnectionID, userID string) {
	s.registry.Remove(connectionID, userID)
}
