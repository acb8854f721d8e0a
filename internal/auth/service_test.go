package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/go-product-api/internal/logging"
	"github.com/redmonkez12/go-product-api/internal/password"
	"github.com/redmonkez12/go-product-api/internal/user"
)

type serviceTestDeps struct {
	users   *MockUserStore
	hasher  *MockHasher
	tokens  *MockTokenService
	service *Service
}

func setupServiceTest(t *testing.T) *serviceTestDeps {
	t.Helper()

	d := &serviceTestDeps{
		users:  &MockUserStore{},
		hasher: &MockHasher{},
		tokens: &MockTokenService{},
	}
	d.service = NewService(d.users, d.hasher, d.tokens, logging.Discard())
	d.service.now = func() time.Time { return t0 }

	t.Cleanup(func() {
		d.users.AssertExpectations(t)
		d.hasher.AssertExpectations(t)
		d.tokens.AssertExpectations(t)
	})

	return d
}

func storedUser() *user.User {
	return &user.User{
		ID:           uuid.New(),
		Email:        "a@b.com",
		PasswordHash: "$argon2id$stored",
		FullName:     "A B",
		Role:         user.DefaultRole,
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	in := RegisterInput{Email: "a@b.com", Password: "secret1", FullName: "A B"}

	isNewUser := mock.MatchedBy(func(u *user.User) bool {
		return u.ID != uuid.Nil &&
			u.Email == "a@b.com" &&
			u.PasswordHash == "hashed" &&
			u.FullName == "A B" &&
			u.Role == user.DefaultRole &&
			u.CreatedAt.Equal(t0) &&
			u.UpdatedAt.Equal(t0)
	})

	testCases := []struct {
		name        string
		mockSetup   func(*serviceTestDeps)
		expectedErr error
		internalErr bool
	}{
		{
			name: "Success",
			mockSetup: func(d *serviceTestDeps) {
				d.hasher.On("Hash", ctx, "secret1").Return("hashed", nil)
				d.users.On("Create", ctx, isNewUser).Return(storedUser(), nil)
			},
		},
		{
			name: "Duplicate email",
			mockSetup: func(d *serviceTestDeps) {
				d.hasher.On("Hash", ctx, "secret1").Return("hashed", nil)
				d.users.On("Create", ctx, isNewUser).Return(nil, user.ErrDuplicateEmail)
			},
			expectedErr: ErrDuplicateEmail,
		},
		{
			name: "Hashing fails",
			mockSetup: func(d *serviceTestDeps) {
				d.hasher.On("Hash", ctx, "secret1").Return("", errors.New("entropy exhausted"))
			},
			internalErr: true,
		},
		{
			name: "Store fails",
			mockSetup: func(d *serviceTestDeps) {
				d.hasher.On("Hash", ctx, "secret1").Return("hashed", nil)
				d.users.On("Create", ctx, isNewUser).Return(nil, errors.New("connection refused"))
			},
			internalErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := setupServiceTest(t)
			tc.mockSetup(d)

			created, err := d.service.Register(ctx, in)

			switch {
			case tc.expectedErr != nil:
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.ErrorIs(t, err, user.ErrDuplicateEmail)
				assert.Nil(t, created)
			case tc.internalErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrDuplicateEmail)
				assert.Nil(t, created)
			default:
				require.NoError(t, err)
				assert.Equal(t, "a@b.com", created.Email)
				assert.Equal(t, user.DefaultRole, created.Role)
			}
		})
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		d := setupServiceTest(t)
		u := storedUser()

		d.users.On("GetByEmail", ctx, "a@b.com").Return(u, nil)
		d.hasher.On("Verify", ctx, "secret1", u.PasswordHash).Return(true, nil)
		d.tokens.On("CreateToken", u.ID, t0).Return("signed-token", nil)

		token, err := d.service.Login(ctx, "a@b.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("Wrong password", func(t *testing.T) {
		d := setupServiceTest(t)
		u := storedUser()

		d.users.On("GetByEmail", ctx, "a@b.com").Return(u, nil)
		d.hasher.On("Verify", ctx, "wrong", u.PasswordHash).Return(false, nil)

		_, err := d.service.Login(ctx, "a@b.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email still spends a verification", func(t *testing.T) {
		d := setupServiceTest(t)

		d.users.On("GetByEmail", ctx, "x@y.com").Return(nil, user.ErrNotFound)
		d.hasher.On("Hash", mock.Anything, mock.AnythingOfType("string")).Return("dummy", nil).Once()
		d.hasher.On("Verify", ctx, "secret1", "dummy").Return(false, nil)

		_, err := d.service.Login(ctx, "x@y.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Dummy hash failure is retried", func(t *testing.T) {
		d := setupServiceTest(t)

		d.users.On("GetByEmail", ctx, "x@y.com").Return(nil, user.ErrNotFound)
		d.hasher.On("Hash", mock.Anything, mock.AnythingOfType("string")).Return("", errors.New("busy")).Once()
		d.hasher.On("Hash", mock.Anything, mock.AnythingOfType("string")).Return("dummy", nil).Once()
		d.hasher.On("Verify", ctx, "secret1", "dummy").Return(false, nil).Twice()

		for i := 0; i < 3; i++ {
			_, err := d.service.Login(ctx, "x@y.com", "secret1")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		}
	})

	t.Run("Empty fields", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.Login(ctx, "", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = d.service.Login(ctx, "a@b.com", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Malformed stored hash is internal", func(t *testing.T) {
		d := setupServiceTest(t)
		u := storedUser()

		d.users.On("GetByEmail", ctx, "a@b.com").Return(u, nil)
		d.hasher.On("Verify", ctx, "secret1", u.PasswordHash).Return(false, password.ErrMalformedHash)

		_, err := d.service.Login(ctx, "a@b.com", "secret1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
		assert.ErrorIs(t, err, password.ErrMalformedHash)
	})

	t.Run("Store failure is internal", func(t *testing.T) {
		d := setupServiceTest(t)

		d.users.On("GetByEmail", ctx, "a@b.com").Return(nil, errors.New("pool closed"))

		_, err := d.service.Login(ctx, "a@b.com", "secret1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Signing failure is internal", func(t *testing.T) {
		d := setupServiceTest(t)
		u := storedUser()

		d.users.On("GetByEmail", ctx, "a@b.com").Return(u, nil)
		d.hasher.On("Verify", ctx, "secret1", u.PasswordHash).Return(true, nil)
		d.tokens.On("CreateToken", u.ID, t0).Return("", errors.New("signer broken"))

		_, err := d.service.Login(ctx, "a@b.com", "secret1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_CurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		d := setupServiceTest(t)
		u := storedUser()
		d.users.On("GetByID", ctx, u.ID).Return(u, nil)

		got, err := d.service.CurrentUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u, got)
	})

	t.Run("Deleted user", func(t *testing.T) {
		d := setupServiceTest(t)
		id := uuid.New()
		d.users.On("GetByID", ctx, id).Return(nil, user.ErrNotFound)

		_, err := d.service.CurrentUser(ctx, id)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("Store failure", func(t *testing.T) {
		d := setupServiceTest(t)
		id := uuid.New()
		d.users.On("GetByID", ctx, id).Return(nil, errors.New("boom"))

		_, err := d.service.CurrentUser(ctx, id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestService_RealHasherRoundTrip(t *testing.T) {
	ctx := context.Background()
	hasher := password.NewHasher(password.Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 32, SaltLen: 16}, 2)
	tokens, err := NewJWTService([]byte("secret"))
	require.NoError(t, err)

	svc := NewService(newMemoryStore(), hasher, tokens, logging.Discard())
	svc.now = func() time.Time { return t0 }

	created, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "secret1", FullName: "A B"})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", created.PasswordHash)

	token, err := svc.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(token, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, created.ID.String(), claims.Subject)

	_, err = svc.Login(ctx, "a@b.com", "wrong1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "A@B.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// countingHasher counts successful Verify calls on the wrapped hasher.
type countingHasher struct {
	PasswordHasher
	mu       sync.Mutex
	verifies int
}

func (h *countingHasher) Verify(ctx context.Context, plaintext, encoded string) (bool, error) {
	ok, err := h.PasswordHasher.Verify(ctx, plaintext, encoded)
	if err == nil {
		h.mu.Lock()
		h.verifies++
		h.mu.Unlock()
	}
	return ok, err
}

func TestService_UnknownEmailAfterCancelledLogin(t *testing.T) {
	hasher := &countingHasher{
		PasswordHasher: password.NewHasher(password.Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 32, SaltLen: 16}, 1),
	}
	tokens, err := NewJWTService([]byte("secret"))
	require.NoError(t, err)

	svc := NewService(newMemoryStore(), hasher, tokens, logging.Discard())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Login(cancelled, "x@y.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotEmpty(t, svc.dummyHash)

	before := hasher.verifies
	for i := 0; i < 3; i++ {
		_, err := svc.Login(context.Background(), "x@y.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, before+3, hasher.verifies)
}
