//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IUserRepository interface {
	CreateUser(username, email, hashedPassword string) (domain.User, error)
	GetUser(id string) (domain.User, error)
	GetUserByUsername(username string) (domain.User, error)
	Search(ctx context.Context, term, excludeID string, limit int) ([]domain.User, error)
	CountExisting(ids []string) (int, error)
	DisplayName(userID string) (string, error)
}

type UserRepository struct {
	db    *badger.DB
	index *UserIndex
	log   *slog.Logger
}

func NewUserRepository(db *badger.DB, index *UserIndex, log *slog.Logger) *UserRepository {
	return &UserRepository{db: db, index: index, log: log}
}

func userKey(id string) []byte { return []byte("user:" + id) }

func usernameKey(username string) []byte {
	return []byte("username:" + strings.ToLower(username))
}

func emailKey(email string) []byte { return []byte("email:" + strings.ToLower(email)) }

// CreateUser persists a new account and its unique username/email lookups in one transaction.
// It returns the newly created user.
func (u *UserRepository) CreateUser(username, email, hashedPassword string) (domain.User, error) {
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	err := u.db.Update(func(txn *badger.Txn) error {
		for _, key := range [][]byte{usernameKey(username), emailKey(email)} {
			if _, err := txn.Get(key); err == nil {
				return errors.ErrUserAlreadyExists
			} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		if err := txn.Set(usernameKey(username), []byte(user.ID)); err != nil {
			return err
		}
		if err := txn.Set(emailKey(email), []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(userKey(user.ID), marshalUser(user))
	})
	if stderrors.Is(err, badger.ErrConflict) {
		// A concurrent registration touched the same username or email
		return domain.User{}, errors.ErrUserAlreadyExists
	}
	if err != nil {
		return domain.User{}, err
	}

	if err = u.index.Index(user); err != nil {
		// The account exists, only search is degraded until the next reindex
		u.log.Error("Failed to index user", "user_id", user.ID, "error", err)
	}
	return user, nil
}

func (u *UserRepository) GetUser(id string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, id)
		return err
	})
	return user, err
}

func (u *UserRepository) GetUserByUsername(username string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		user, err = getUser(txn, string(id))
		return err
	})
	return user, err
}

// Search finds users by username substring, excluding the requester.
func (u *UserRepository) Search(ctx context.Context, term, excludeID string, limit int) ([]domain.User, error) {
	// One extra hit leaves room for the excluded requester
	ids, err := u.index.Search(ctx, term, limit+1)
	if err != nil {
		return nil, err
	}
	ids = lo.Without(ids, excludeID)

	users := make([]domain.User, 0, len(ids))
	err = u.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			if len(users) == limit {
				break
			}
			user, err := getUser(txn, id)
			if stderrors.Is(err, errors.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	return users, err
}

// CountExisting returns how many of the given ids are registered users.
func (u *UserRepository) CountExisting(ids []string) (int, error) {
	count := 0
	err := u.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			_, err := txn.Get(userKey(id))
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

func (u *UserRepository) DisplayName(userID string) (string, error) {
	user, err := u.GetUser(userID)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// Reindex pushes every stored user into the search index.
// Called at boot so that a lost or fresh index catches up with Badger.
func (u *UserRepository) Reindex() (int, error) {
	count := 0
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				user, err := unmarshalUser(val)
				if err != nil {
					return err
				}
				return u.index.Index(user)
			})
			if err != nil {
				return fmt.Errorf("reindex %s: %w", it.Item().Key(), err)
			}
			count++
		}
		return nil
	})
	return count, err
}

func getUser(txn *badger.Txn, id string) (domain.User, error) {
	item, err := txn.Get(userKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	err = item.Value(func(val []byte) error {
		user, err = unmarshalUser(val)
		return err
	})
	return user, err
}
