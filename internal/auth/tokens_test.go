package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens("test-secret", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, tokens.TTL())

	for _, email := range []string{"u@x.com", "", "not-an-email", "ünïcode@example.org"} {
		token, err := tokens.Issue(email)
		require.NoError(t, err)

		got, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, email, got)
	}
}

func TestTokensExpireAfterOneHour(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewTokens("test-secret", time.Hour, fixedClock(issuedAt))
	require.NoError(t, err)
	token, err := issuer.Issue("u@x.com")
	require.NoError(t, err)

	within, err := NewTokens("test-secret", time.Hour, fixedClock(issuedAt.Add(59*time.Minute)))
	require.NoError(t, err)
	_, err = within.Verify(token)
	require.NoError(t, err)

	later, err := NewTokens("test-secret", time.Hour, fixedClock(issuedAt.Add(61*time.Minute)))
	require.NoError(t, err)
	_, err = later.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectTamperedSignature(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour, nil)
	require.NoError(t, err)
	token, err := tokens.Issue("a@x.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tokens.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

// The last character of an HS256 signature carries two unused bits; a
// lenient decoder would map several characters onto the same signature.
func TestTokensRejectTamperedFinalCharacter(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	tokens, err := NewTokens("test-secret", time.Hour, nil)
	require.NoError(t, err)

	for _, email := range []string{"a@x.com", "b@x.com", "donor@example.org"} {
		token, err := tokens.Issue(email)
		require.NoError(t, err)

		last := token[len(token)-1]
		for i := 0; i < len(alphabet); i++ {
			if alphabet[i] == last {
				continue
			}
			tampered := token[:len(token)-1] + string(alphabet[i])
			_, err := tokens.Verify(tampered)
			require.ErrorIs(t, err, ErrInvalidToken, "replaced %q with %q", last, alphabet[i])
		}
	}
}

func TestTokensRejectSwappedPayload(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour, nil)
	require.NoError(t, err)
	token, err := tokens.Issue("a@x.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.ReplaceAll(string(raw), "a@x.com", "b@x.com")
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = tokens.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokensRejectForeignSecret(t *testing.T) {
	other, err := NewTokens("other-secret", time.Hour, nil)
	require.NoError(t, err)
	token, err := other.Issue("a@x.com")
	require.NoError(t, err)

	tokens, err := NewTokens("test-secret", time.Hour, nil)
	require.NoError(t, err)
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokensRejectMalformed(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour, nil)
	require.NoError(t, err)

	for _, raw := range []string{"", "abc", "a.b", "not.a.token"} {
		_, err := tokens.Verify(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrMalformed), "token %q: got %v", raw, err)
	}
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens("  ", time.Hour, nil)
	assert.Error(t, err)
}
