// Package event defines the events pushed to connected clients and the JSON
// representation of messages shared by the websocket stream and the REST API.
package event

import (
	"chat-hub/domain"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const NewMessageType = "new_message"

// MessagePayload is the wire shape of a message.
type MessagePayload struct {
	ID             string    `json:"id"`
	ChatID         string    `json:"chat_id"`
	SenderID       string    `json:"sender_id"`
	SenderUsername string    `json:"sender_username"`
	Content        string    `json:"content"`
	MessageType    string    `json:"message_type"`
	FileData       *string   `json:"file_data"`
	FileName       *string   `json:"file_name"`
	FileType       *string   `json:"file_type"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewMessage is the envelope delivered to every online participant except the sender.
type NewMessage struct {
	Type    string         `json:"type"`
	ChatID  string         `json:"chat_id"`
	Message MessagePayload `json:"message"`
}

func FromMessage(m domain.Message) MessagePayload {
	payload := MessagePayload{
		ID:             m.ID.String(),
		ChatID:         m.ChatID.String(),
		SenderID:       m.SenderID,
		SenderUsername: m.SenderName,
		Content:        m.Content,
		MessageType:    string(m.Kind),
		CreatedAt:      m.CreatedAt,
	}
	if m.Attachment != nil {
		payload.FileData = lo.ToPtr(base64.StdEncoding.EncodeToString(m.Attachment.Data))
		payload.FileName = lo.ToPtr(m.Attachment.FileName)
		payload.FileType = lo.ToPtr(m.Attachment.MediaType)
	}
	return payload
}

// ToMessage converts a payload received from the server back into a domain message.
func (p MessagePayload) ToMessage() (domain.Message, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("message id: %w", err)
	}
	chatID, err := uuid.Parse(p.ChatID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("chat id: %w", err)
	}
	m := domain.Message{
		ID:         id,
		ChatID:     chatID,
		SenderID:   p.SenderID,
		SenderName: p.SenderUsername,
		Content:    p.Content,
		Kind:       domain.MessageKind(p.MessageType),
		CreatedAt:  p.CreatedAt,
	}
	if p.FileData != nil {
		data, err := base64.StdEncoding.DecodeString(*p.FileData)
		if err != nil {
			return domain.Message{}, fmt.Errorf("file data: %w", err)
		}
		m.Attachment = &domain.Attachment{
			Data:      data,
			FileName:  lo.FromPtr(p.FileName),
			MediaType: lo.FromPtr(p.FileType),
		}
	}
	return m, nil
}

// EncodeNewMessage serializes the new_message envelope for a freshly appended message.
func EncodeNewMessage(m domain.Message) ([]byte, error) {
	return json.Marshal(NewMessage{
		Type:    NewMessageType,
		ChatID:  m.ChatID.String(),
		Message: FromMessage(m),
	})
}

func DecodeNewMessage(data []byte) (NewMessage, error) {
	var evt NewMessage
	if err := json.Unmarshal(data, &evt); err != nil {
		return NewMessage{}, err
	}
	if evt.Type != NewMessageType {
		return NewMessage{}, fmt.Errorf("unexpected event type %q", evt.Type)
	}
	return evt, nil
}
