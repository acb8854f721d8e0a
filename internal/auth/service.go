package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-product-api/internal/logging"
	"github.com/redmonkez12/go-product-api/internal/user"
)

// UserStore is the persistence the auth flows need.
type UserStore interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// PasswordHasher is implemented by *password.Hasher.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, encoded string) (bool, error)
}

// Service handles authentication business logic
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenService
	logger *logging.Logger
	now    func() time.Time

	dummyMu   sync.Mutex
	dummyHash string
}

func NewService(users UserStore, hasher PasswordHasher, tokens TokenService, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterInput carries already validated registration fields.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// Register hashes the password and stores a new user. Email uniqueness is
// left to the store; a conflict is reported as ErrDuplicateEmail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &user.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         user.DefaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// Login checks the credentials and returns a signed bearer token for the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Spend the same hashing work as a real mismatch.
			s.burnVerify(ctx, password)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, password, existing.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password for user %s: %w", existing.ID, err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing.ID, s.now())
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}

// CurrentUser loads the user a verified token refers to. A user removed
// after the token was issued counts as unauthenticated.
func (s *Service) CurrentUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *Service) burnVerify(ctx context.Context, password string) {
	hash, err := s.dummy(ctx)
	if err != nil {
		s.logger.Warn("failed to prepare dummy hash", "error", err.Error())
		return
	}

	_, _ = s.hasher.Verify(ctx, password, hash)
}

// dummy returns the hash compared against for unknown emails. It is built on
// first use, detached from the caller's cancellation, and retried on the next
// call if building it failed.
func (s *Service) dummy(ctx context.Context) (string, error) {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash != "" {
		return s.dummyHash, nil
	}

	hash, err := s.hasher.Hash(context.WithoutCancel(ctx), "not-a-real-password")
	if err != nil {
		return "", err
	}
	s.dummyHash = hash

	return hash, nil
}
