// Package domain contains core concepts of the chat system.
// This file defines Message records and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"chat-hub/domain/mimetypes"
	"chat-hub/errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindFile  MessageKind = "file"
)

func (k MessageKind) Valid() bool {
	switch k {
	case KindText, KindImage, KindFile:
		return true
	default:
		return false
	}
}

// KindFromMediaType picks the message kind an uploaded file should be sent as.
func KindFromMediaType(mediaType string) MessageKind {
	if mimetypes.IsImage(mediaType) {
		return KindImage
	}
	return KindFile
}

// Attachment is an already materialized file payload.
type Attachment struct {
	Data      []byte
	FileName  string
	MediaType string
}

// Message represents an immutable chat record.
// Sender fields are a snapshot taken at creation time.
type Message struct {
	ID         uuid.UUID
	ChatID     uuid.UUID
	SenderID   string
	SenderName string
	Content    string
	Kind       MessageKind
	Attachment *Attachment
	CreatedAt  time.Time
}

// MessageDraft carries everything the store needs to append a message.
// Id and creation time are assigned by the store.
type MessageDraft struct {
	ChatID     uuid.UUID
	SenderID   string
	SenderName string
	Content    string
	Kind       MessageKind
	Attachment *Attachment
}

// ValidateMessage enforces the content and attachment rules of a message.
func ValidateMessage(content string, kind MessageKind, attachment *Attachment) error {
	if strings.TrimSpace(content) == "" {
		return errors.ErrEmptyContent
	}
	if !kind.Valid() {
		return errors.ErrInvalidMessageKind
	}
	if kind == KindText && attachment != nil {
		return errors.ErrUnexpectedFile
	}
	return nil
}
