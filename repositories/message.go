//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-hub/domain"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	Append(draft domain.MessageDraft) (domain.Message, error)
	ListMessages(chatID uuid.UUID, offset, limit int) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
	now func() time.Time
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func messagePrefix(chatID uuid.UUID) string { return fmt.Sprintf("msg:%s:", chatID) }

// messageKey is formatted as "msg:{chat_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Break ties between messages of the same nanosecond by id.
func messageKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", messagePrefix(m.ChatID), m.CreatedAt.UnixNano(), m.ID))
}

// Append assigns an id and a creation time and persists the message.
// Chat membership is the caller's concern.
func (m *MessageRepository) Append(draft domain.MessageDraft) (domain.Message, error) {
	message := domain.Message{
		ID:         uuid.New(),
		ChatID:     draft.ChatID,
		SenderID:   draft.SenderID,
		SenderName: draft.SenderName,
		Content:    draft.Content,
		Kind:       draft.Kind,
		Attachment: draft.Attachment,
		CreatedAt:  m.now(),
	}
	err := m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), marshalMessage(message))
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// ListMessages pages backward from the newest message of a chat: offset messages are skipped,
// then up to limit are collected. The page is returned oldest first.
func (m *MessageRepository) ListMessages(chatID uuid.UUID, offset, limit int) ([]domain.Message, error) {
	messages := make([]domain.Message, 0, max(limit, 0))
	if limit <= 0 {
		return messages, nil
	}
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix(chatID))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Start past the newest possible key: msg:{chat}:9999999999999999999
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		skipped := 0
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			if len(messages) == limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				message, err := unmarshalMessage(val)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Debug("Messages fetched", "chat_id", chatID, "offset", offset, "count", len(messages))
	return lo.Reverse(messages), nil
}
