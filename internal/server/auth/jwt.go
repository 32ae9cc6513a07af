package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCodec issues and decodes signed, expiring session tokens whose
// subject claim is the account email. Tokens are not stored anywhere and
// stay valid until they expire.
type TokenCodec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a TokenCodec.
type Option func(*TokenCodec)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec builds a codec for an HMAC algorithm ("HS256", "HS384", "HS512").
func NewTokenCodec(secret []byte, algorithm string, ttl time.Duration, opts ...Option) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, common.ErrEmptySecret
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedAlgorithm, algorithm)
	}

	c := &TokenCodec{
		secret: secret,
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL is the lifetime applied by Issue.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject that expires after the configured TTL.
func (c *TokenCodec) Issue(subject string) (string, error) {
	return c.IssueWithTTL(subject, c.ttl)
}

// IssueWithTTL signs a token for subject that expires after ttl.
func (c *TokenCodec) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := c.now()

	token := jwt.NewWithClaims(c.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the algorithm, signature and expiration of tokenString and
// returns its subject. Failures wrap one of common.ErrTokenMalformed,
// ErrTokenAlgorithm, ErrTokenSignatureInvalid, ErrTokenExpired or ErrInvalidToken.
func (c *TokenCodec) Decode(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", classifyTokenError(err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}
	return claims.Subject, nil
}

// keyFunc rejects foreign algorithms here rather than through
// jwt.WithValidMethods, which would report them as bad signatures.
func (c *TokenCodec) keyFunc(t *jwt.Token) (any, error) {
	if t.Method == nil || t.Method.Alg() != c.method.Alg() {
		return nil, common.ErrTokenAlgorithm
	}
	return c.secret, nil
}

func classifyTokenError(err error) error {
	var sentinel error
	switch {
	case errors.Is(err, common.ErrTokenAlgorithm), errors.Is(err, jwt.ErrTokenUnverifiable):
		sentinel = common.ErrTokenAlgorithm
	case errors.Is(err, jwt.ErrTokenMalformed):
		sentinel = common.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		sentinel = common.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		sentinel = common.ErrTokenExpired
	default:
		sentinel = common.ErrInvalidToken
	}
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
