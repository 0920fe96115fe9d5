package services

import (
	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/mocks"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAuthService(t *testing.T) (*AuthService, *mocks.MockIUserRepository, *auth.Tokenizer) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockIUserRepository(ctrl)
	tokens := auth.NewTokenizer("test-secret", 24*time.Hour)
	return NewAuthService(mockRepo, tokens, logs.GetLoggerFromLevel(slog.LevelDebug)), mockRepo, tokens
}

func TestAuthService_Register(t *testing.T) {
	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, tokens := newAuthService(t)
		password := "ComplexPass123!"
		created := domain.User{ID: "user-uuid", Username: "alice", Email: "alice@example.com"}

		// CreateUser receives a hash, never the plain password
		mockRepo.EXPECT().
			CreateUser("alice", "alice@example.com", gomock.Not(password)).
			Return(created, nil).
			Times(1)

		session, err := svc.Register("alice", "alice@example.com", password)

		req.NoError(err)
		req.Equal(created, session.User)
		userID, err := tokens.Validate(session.Token)
		req.NoError(err)
		req.Equal("user-uuid", userID)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, _ := newAuthService(t)

		// Repository should NEVER be called
		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		session, err := svc.Register("alice", "alice@example.com", "simplepassword")

		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(session.Token)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, _ := newAuthService(t)

		mockRepo.EXPECT().
			CreateUser("alice", "alice@example.com", gomock.Any()).
			Return(domain.User{}, errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register("alice", "alice@example.com", "ComplexPass123!")

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	password := "Secret123456!"
	hashedPassword, err := auth.HashPassword(password)
	require.NoError(t, err)
	storedUser := domain.User{ID: "uuid-123", Username: "alice", PasswordHash: hashedPassword}

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, tokens := newAuthService(t)

		mockRepo.EXPECT().GetUserByUsername("alice").Return(storedUser, nil).Times(1)

		session, err := svc.Login("alice", password)

		req.NoError(err)
		userID, err := tokens.Validate(session.Token)
		req.NoError(err)
		req.Equal(storedUser.ID, userID)
	})

	t.Run("should return invalid credentials when password matches nothing", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, _ := newAuthService(t)

		mockRepo.EXPECT().GetUserByUsername("alice").Return(storedUser, nil).Times(1)

		_, err := svc.Login("alice", "WrongPassword123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials when user is not found", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, _ := newAuthService(t)

		mockRepo.EXPECT().GetUserByUsername("nobody").Return(domain.User{}, errors.ErrNotFound).Times(1)

		_, err := svc.Login("nobody", "anyPassword")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should reject empty credentials without touching storage", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, _ := newAuthService(t)

		mockRepo.EXPECT().GetUserByUsername(gomock.Any()).Times(0)

		_, err := svc.Login("", "")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Run("should resolve the token owner", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, tokens := newAuthService(t)
		user := domain.User{ID: "uuid-123", Username: "alice"}
		token, err := tokens.Generate(user.ID)
		req.NoError(err)

		mockRepo.EXPECT().GetUser(user.ID).Return(user, nil).Times(1)

		authenticated, err := svc.Authenticate(token)
		req.NoError(err)
		req.Equal(user, authenticated)
	})

	t.Run("should reject a token of a deleted user", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, tokens := newAuthService(t)
		token, err := tokens.Generate("ghost")
		req.NoError(err)

		mockRepo.EXPECT().GetUser("ghost").Return(domain.User{}, errors.ErrNotFound).Times(1)

		_, err = svc.Authenticate(token)
		req.ErrorIs(err, errors.ErrUnauthorized)
	})

	t.Run("should reject an invalid token", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, _ := newAuthService(t)

		mockRepo.EXPECT().GetUser(gomock.Any()).Times(0)

		_, err := svc.Authenticate("invalid-token-string")
		req.ErrorIs(err, errors.ErrUnauthorized)
	})
}

func TestAuthService_SearchUsers(t *testing.T) {
	req := require.New(t)
	svc, mockRepo, _ := newAuthService(t)
	ctx := context.Background()
	found := []domain.User{{ID: "bob-id", Username: "bob"}}

	mockRepo.EXPECT().Search(ctx, "bo", "alice-id", SearchLimit).Return(found, nil).Times(1)

	users, err := svc.SearchUsers(ctx, "alice-id", "  bo ")
	req.NoError(err)
	req.Equal(found, users)

	// Blank terms never reach the index
	users, err = svc.SearchUsers(ctx, "alice-id", "   ")
	req.NoError(err)
	req.Empty(users)
}
