package services

import (
	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
)

// SearchLimit caps the number of users returned by a directory search.
const SearchLimit = 10

type IAuthService interface {
	Register(username, email, password string) (Session, error)
	Login(username, password string) (Session, error)
	Authenticate(token string) (domain.User, error)
	SearchUsers(ctx context.Context, requesterID, term string) ([]domain.User, error)
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	Token string
	User  domain.User
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.Tokenizer
	log            *slog.Logger
}

func NewAuthService(repo repositories.IUserRepository, tokens *auth.Tokenizer, log *slog.Logger) *AuthService {
	return &AuthService{userRepository: repo, tokens: tokens, log: log}
}

func (s *AuthService) Register(username, email, password string) (Session, error) {
	// Business rules first, before any expensive hashing
	err := auth.ValidateRegister(auth.RegisterRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return Session{}, err
	}

	// The repository never sees plain passwords
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(username, email, hashedPassword)
	if err != nil {
		return Session{}, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return Session{}, err
	}
	s.log.Info("User registered", "user_id", user.ID, "username", user.Username)
	return Session{Token: token, User: user}, nil
}

func (s *AuthService) Login(username, password string) (Session, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Username: username, Password: password}); err != nil {
		return Session{}, errors.ErrInvalidCredentials
	}

	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		// Same answer for unknown users and wrong passwords
		return Session{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return Session{}, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: user}, nil
}

// Authenticate verifies a bearer token and loads the account it was issued for.
// A token whose user no longer exists is unauthorized.
func (s *AuthService) Authenticate(token string) (domain.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.userRepository.GetUser(userID)
	if stderrors.Is(err, errors.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: unknown user %s", errors.ErrUnauthorized, userID)
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// SearchUsers returns at most SearchLimit users whose username contains term, the requester excluded.
func (s *AuthService) SearchUsers(ctx context.Context, requesterID, term string) ([]domain.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.User{}, nil
	}
	return s.userRepository.Search(ctx, term, requesterID, SearchLimit)
}
