package domain

import (
	"github.com/google/uuid"
)

type CreateChatCommand struct {
	RequesterID    string
	Name           string
	IsGroup        bool
	ParticipantIDs []string
}

type SendMessageCommand struct {
	ChatID     uuid.UUID
	SenderID   string
	SenderName string
	Content    string
	Kind       MessageKind
	Attachment *Attachment
}

// Normalize defaults the kind to text.
func (c SendMessageCommand) Normalize() SendMessageCommand {
	if c.Kind == "" {
		c.Kind = KindText
	}
	return c
}

func (c SendMessageCommand) Draft(content string) MessageDraft {
	return MessageDraft{
		ChatID:     c.ChatID,
		SenderID:   c.SenderID,
		SenderName: c.SenderName,
		Content:    content,
		Kind:       c.Kind,
		Attachment: c.Attachment,
	}
}

type GetMessagesCommand struct {
	ChatID      uuid.UUID
	RequesterID string
	Offset      int
	Limit       int
}
