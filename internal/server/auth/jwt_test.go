package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newCodec(t *testing.T, secret, alg string, clock *fakeClock) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec([]byte(secret), alg, time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return c
}

func TestTokenCodec_IssueAndDecode(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	c := newCodec(t, "super-secret", "HS256", clock)

	tok, err := c.Issue("a@example.com")
	require.NoError(t, err)
	assert.NotContains(t, tok, "super-secret")

	sub, err := c.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", sub)
}

func TestTokenCodec_DeterministicForSameInstant(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	c := newCodec(t, "k", "HS256", clock)

	a, err := c.Issue("a@example.com")
	require.NoError(t, err)
	b, err := c.Issue("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTokenCodec_ClaimsCarrySubjectAndExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	c := newCodec(t, "k", "HS256", &fakeClock{now: now})

	tok, err := c.IssueWithTTL("a@example.com", 30*time.Minute)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Subject)
	assert.Equal(t, now.Add(30*time.Minute), claims.ExpiresAt.Time.UTC())
}

func TestTokenCodec_Expired(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	c := newCodec(t, "secret", "HS256", clock)

	tok, err := c.Issue("u1@example.com")
	require.NoError(t, err)

	clock.now = clock.now.Add(59 * time.Minute)
	_, err = c.Decode(tok)
	require.NoError(t, err, "still valid before expiry")

	clock.now = clock.now.Add(time.Minute)
	_, err = c.Decode(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired, "expiry instant itself is no longer valid")
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	tok, err := newCodec(t, "right-secret", "HS256", clock).Issue("u2@example.com")
	require.NoError(t, err)

	_, err = newCodec(t, "wrong-secret", "HS256", clock).Decode(tok)
	assert.ErrorIs(t, err, common.ErrTokenSignatureInvalid)
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	t.Parallel()

	c := newCodec(t, "k", "HS256", &fakeClock{now: time.Now()})
	tok, err := c.Issue("u3@example.com")
	require.NoError(t, err)

	tampered := flipChar(tok, strings.LastIndex(tok, ".")+5)
	_, err = c.Decode(tampered)
	assert.ErrorIs(t, err, common.ErrTokenSignatureInvalid)
}

func TestTokenCodec_AlgorithmMismatch(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	tok, err := newCodec(t, "shared", "HS512", clock).Issue("u4@example.com")
	require.NoError(t, err)

	_, err = newCodec(t, "shared", "HS256", clock).Decode(tok)
	assert.ErrorIs(t, err, common.ErrTokenAlgorithm)
}

func TestTokenCodec_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "attacker@example.com",
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newCodec(t, "k", "HS256", clock).Decode(unsigned)
	assert.ErrorIs(t, err, common.ErrTokenAlgorithm)
}

func TestTokenCodec_Malformed(t *testing.T) {
	t.Parallel()

	c := newCodec(t, "k", "HS256", &fakeClock{now: time.Now()})

	for _, in := range []string{"", "not.a.jwt", "garbage", "a.b", "@@@.###.$$$"} {
		_, err := c.Decode(in)
		assert.ErrorIs(t, err, common.ErrTokenMalformed, "input=%q", in)
	}
}

func TestTokenCodec_MissingExpiryOrSubject(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	c := newCodec(t, "k", "HS256", clock)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x@example.com"}).
		SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = c.Decode(noExp)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	noSub, err := c.Issue("")
	require.NoError(t, err)
	_, err = c.Decode(noSub)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestNewTokenCodec_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTokenCodec(nil, "HS256", time.Hour)
	assert.ErrorIs(t, err, common.ErrEmptySecret)

	for _, alg := range []string{"RS256", "ES256", "none", "bogus", ""} {
		_, err := NewTokenCodec([]byte("k"), alg, time.Hour)
		assert.ErrorIs(t, err, common.ErrUnsupportedAlgorithm, "alg=%q", alg)
	}

	c, err := NewTokenCodec([]byte("k"), "HS384", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, c.TTL())
}

func flipChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
