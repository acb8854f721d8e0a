package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// PasetoService handles PASETO token creation and validation.
// Uses v4.local (XChaCha20 + BLAKE2b-MAC) with a key derived from the
// configured secret, so any secret length works.
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
}

func NewPasetoService(secret []byte) (*PasetoService, error) {
	if len(secret) == 0 {
		return nil, errors.New("paseto secret must not be empty")
	}

	sum := sha256.Sum256(secret)
	key, err := paseto.V4SymmetricKeyFromBytes(sum[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{symmetricKey: key}, nil
}

func (s *PasetoService) CreateToken(subject uuid.UUID, now time.Time) (string, error) {
	now = now.Truncate(time.Second)
	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(TokenTTL))
	token.SetSubject(subject.String())

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken decrypts tokenStr and checks its expiry against now rather
// than the wall clock used by the library's default rules.
func (s *PasetoService) VerifyToken(tokenStr string, now time.Time) (*TokenClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil || !now.Before(expiresAt) {
		return nil, ErrInvalidToken
	}

	subject, err := token.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		Subject:   subject,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
