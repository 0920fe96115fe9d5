//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/errors"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatRepository interface {
	CreateChat(cmd domain.CreateChatCommand) (domain.Chat, error)
	ListChatsForUser(userID string) ([]domain.Chat, error)
	GetChatForParticipant(chatID uuid.UUID, userID string) (domain.Chat, error)
	TouchLastActivity(chatID uuid.UUID, at time.Time) error
}

type ChatRepository struct {
	db        *badger.DB
	log       *slog.Logger
	users     contract.UserDirectory
	listLimit int
}

func NewChatRepository(db *badger.DB, log *slog.Logger, users contract.UserDirectory, listLimit int) *ChatRepository {
	return &ChatRepository{db: db, log: log, users: users, listLimit: listLimit}
}

func chatKey(id uuid.UUID) []byte { return []byte("chat:" + id.String()) }

func memberKey(userID string, chatID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("chatmember:%s:%s", userID, chatID))
}

func memberPrefix(userID string) []byte { return []byte("chatmember:" + userID + ":") }

func pairKey(pair string) []byte { return []byte("chatpair:" + pair) }

// CreateChat validates the participant set and persists a new chat.
// A private chat is unique per unordered pair: the "chatpair:{a}:{b}" key is read and written
// in the same transaction as the chat, so a concurrent creation for the same pair either
// sees the existing chat or fails with a conflict that resolves to it.
func (c *ChatRepository) CreateChat(cmd domain.CreateChatCommand) (domain.Chat, error) {
	requested := lo.Uniq(cmd.ParticipantIDs)
	if len(requested) > 0 {
		count, err := c.users.CountExisting(requested)
		if err != nil {
			return domain.Chat{}, err
		}
		if count != len(requested) {
			return domain.Chat{}, fmt.Errorf("%w: %d of %d participants not found",
				errors.ErrUnknownParticipant, len(requested)-count, len(requested))
		}
	}

	participants := domain.ParticipantSet(cmd.RequesterID, requested)
	if err := domain.ValidateParticipants(cmd.IsGroup, participants); err != nil {
		return domain.Chat{}, err
	}

	chat := domain.Chat{
		ID:           uuid.New(),
		Name:         cmd.Name,
		IsGroup:      cmd.IsGroup,
		Participants: participants,
		CreatedBy:    cmd.RequesterID,
		CreatedAt:    time.Now().UTC(),
	}

	if cmd.IsGroup {
		err := c.db.Update(func(txn *badger.Txn) error {
			return insertChat(txn, chat)
		})
		return chat, err
	}

	pair, err := domain.PairKey(participants)
	if err != nil {
		return domain.Chat{}, err
	}

	var existing *domain.Chat
	err = c.db.Update(func(txn *badger.Txn) error {
		found, err := findPairChat(txn, pair)
		if err != nil || found != nil {
			existing = found
			return err
		}
		if err = txn.Set(pairKey(pair), []byte(chat.ID.String())); err != nil {
			return err
		}
		return insertChat(txn, chat)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		// Lost the race against another creation of the same pair, which now owns the key
		err = c.db.View(func(txn *badger.Txn) error {
			found, err := findPairChat(txn, pair)
			if err == nil && found == nil {
				return fmt.Errorf("private chat %s vanished after conflict", pair)
			}
			existing = found
			return err
		})
	}
	if err != nil {
		return domain.Chat{}, err
	}
	if existing != nil {
		if !domain.SameParticipants(existing.Participants, participants) {
			return domain.Chat{}, fmt.Errorf("pair index %s points at chat %s with other participants", pair, existing.ID)
		}
		c.log.Debug("Private chat already exists", "chat_id", existing.ID, "pair", pair)
		return *existing, nil
	}
	return chat, nil
}

// ListChatsForUser returns the chats userID participates in, most recently active first.
// Private chats without a stored name are named after the other participant.
func (c *ChatRepository) ListChatsForUser(userID string) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := memberPrefix(userID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			chatID, err := uuid.ParseBytes(it.Item().Key()[len(prefix):])
			if err != nil {
				return fmt.Errorf("corrupted membership key %q: %w", it.Item().Key(), err)
			}
			chat, err := getChat(txn, chatID)
			if err != nil {
				return err
			}
			chats = append(chats, chat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	domain.SortByLastActivity(chats)
	if c.listLimit > 0 && len(chats) > c.listLimit {
		chats = chats[:c.listLimit]
	}

	for i := range chats {
		chats[i] = c.resolveName(chats[i], userID)
	}
	if chats == nil {
		chats = []domain.Chat{}
	}
	return chats, nil
}

// resolveName substitutes the other participant's display name at read time.
// Nothing is persisted.
func (c *ChatRepository) resolveName(chat domain.Chat, viewerID string) domain.Chat {
	if chat.IsGroup || chat.Name != "" {
		return chat
	}
	other, ok := chat.OtherParticipant(viewerID)
	if !ok {
		return chat
	}
	name, err := c.users.DisplayName(other)
	if err != nil {
		c.log.Debug("Cannot resolve chat name", "chat_id", chat.ID, "user_id", other, "error", err)
		return chat
	}
	chat.Name = name
	return chat
}

// GetChatForParticipant is the authorization gate of every message operation.
// A chat the user does not belong to is reported exactly like a missing one.
func (c *ChatRepository) GetChatForParticipant(chatID uuid.UUID, userID string) (domain.Chat, error) {
	var chat domain.Chat
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		chat, err = getChat(txn, chatID)
		return err
	})
	if err != nil {
		return domain.Chat{}, err
	}
	if !chat.HasParticipant(userID) {
		return domain.Chat{}, fmt.Errorf("%w: chat %s", errors.ErrNotFound, chatID)
	}
	return chat, nil
}

func (c *ChatRepository) TouchLastActivity(chatID uuid.UUID, at time.Time) error {
	return c.db.Update(func(txn *badger.Txn) error {
		chat, err := getChat(txn, chatID)
		if err != nil {
			return err
		}
		at = at.UTC()
		chat.LastActivityAt = &at
		return txn.Set(chatKey(chat.ID), marshalChat(chat))
	})
}

func insertChat(txn *badger.Txn, chat domain.Chat) error {
	if err := txn.Set(chatKey(chat.ID), marshalChat(chat)); err != nil {
		return err
	}
	for _, p := range chat.Participants {
		if err := txn.Set(memberKey(p, chat.ID), nil); err != nil {
			return err
		}
	}
	return nil
}

// findPairChat returns the private chat registered for pair, nil when there is none.
func findPairChat(txn *badger.Txn, pair string) (*domain.Chat, error) {
	item, err := txn.Get(pairKey(pair))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	chatID, err := uuid.ParseBytes(raw)
	if err != nil {
		return nil, err
	}
	chat, err := getChat(txn, chatID)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func getChat(txn *badger.Txn, chatID uuid.UUID) (domain.Chat, error) {
	item, err := txn.Get(chatKey(chatID))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Chat{}, fmt.Errorf("%w: chat %s", errors.ErrNotFound, chatID)
	}
	if err != nil {
		return domain.Chat{}, err
	}
	var chat domain.Chat
	err = item.Value(func(val []byte) error {
		chat, err = unmarshalChat(val)
		return err
	})
	return chat, err
}
