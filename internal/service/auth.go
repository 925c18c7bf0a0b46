package service

import (
	"bitwise74/files-manager/db"
	"bitwise74/files-manager/internal/model"
	"bitwise74/files-manager/internal/session"
	"bitwise74/files-manager/pkg/validators"
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type UserRepository interface {
	FindUser(ctx context.Context, id string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	InsertUser(ctx context.Context, u *model.User) error
}

type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Validate(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// Hasher derives and checks stored credentials
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, encoded string) (bool, error)
}

type AuthService struct {
	signals

	Users    UserRepository
	Sessions SessionStore
	Hasher   Hasher
	Jobs     Enqueuer
}

func NewAuthService(users UserRepository, sessions SessionStore, hasher Hasher, jobs Enqueuer) *AuthService {
	return &AuthService{
		Users:    users,
		Sessions: sessions,
		Hasher:   hasher,
		Jobs:     jobs,
	}
}

// ResolveRequester returns the user behind token, or nil for anonymous
// callers (no token, unknown or expired token, deleted user). An error is
// returned only when a store can't be reached.
func (s *AuthService) ResolveRequester(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.Sessions.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, nil
		}

		return nil, internal(err)
	}

	user, err := s.Users.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}

		return nil, internal(err)
	}

	return user, nil
}

// Register creates a user and schedules its welcome notification
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}

	if password == "" {
		return nil, ErrMissingPassword
	}

	if err := validators.EmailValidator(email); err != nil {
		return nil, ErrInvalidEmail
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, internal(fmt.Errorf("failed to hash password, %w", err))
	}

	id, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return nil, internal(fmt.Errorf("failed to generate user ID, %w", err))
	}

	user := &model.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.Users.InsertUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}

		return nil, internal(err)
	}

	s.signal(ctx, "welcome", func(ctx context.Context) error {
		return s.Jobs.EnqueueWelcome(ctx, id)
	})

	return user, nil
}

// Connect checks the credentials and opens a session for their owner
func (s *AuthService) Connect(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrUnauthorized
		}

		return "", internal(err)
	}

	ok, err := s.Hasher.Compare(password, user.PasswordHash)
	if err != nil {
		return "", internal(fmt.Errorf("failed to verify password, %w", err))
	}

	if !ok {
		return "", ErrUnauthorized
	}

	token, err := s.Sessions.Create(ctx, user.ID)
	if err != nil {
		return "", internal(err)
	}

	return token, nil
}

// Disconnect closes the session behind token. Unknown tokens are Unauthorized.
func (s *AuthService) Disconnect(ctx context.Context, token string) error {
	if _, err := s.Sessions.Validate(ctx, token); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return ErrUnauthorized
		}

		return internal(err)
	}

	if err := s.Sessions.Delete(ctx, token); err != nil {
		return internal(err)
	}

	return nil
}
