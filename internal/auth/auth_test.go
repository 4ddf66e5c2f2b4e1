package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	h := NewHasher(1000)

	cred, err := h.Hash("Sofa-2024!")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(cred.String(), "pbkdf2_sha256$1000$"))
	assert.NotContains(t, cred.String(), "Sofa-2024!")
	assert.True(t, h.Verify("Sofa-2024!", cred))
	assert.False(t, h.Verify("sofa-2024!", cred))
	assert.False(t, h.Verify("", cred))
}

func TestHashUsesFreshSalt(t *testing.T) {
	h := NewHasher(1000)
	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a.String(), b.String())
	assert.True(t, h.Verify("same-password", a))
	assert.True(t, h.Verify("same-password", b))
}

func TestVerifyUsesStoredIterations(t *testing.T) {
	old := NewHasher(500)
	cred, err := old.Hash("Mesa#Roble1")
	require.NoError(t, err)

	current := NewHasher(2000)
	assert.True(t, current.Verify("Mesa#Roble1", cred))
}

func TestParseHashedCredential(t *testing.T) {
	h := NewHasher(1000)
	cred, err := h.Hash("Lampara!9")
	require.NoError(t, err)

	parsed, err := ParseHashedCredential(cred.String())
	require.NoError(t, err)
	assert.Equal(t, cred.String(), parsed.String())
	assert.True(t, h.Verify("Lampara!9", parsed))

	for _, bad := range []string{
		"",
		"Lampara!9",
		"bcrypt$1000$salt$a2V5",
		"pbkdf2_sha256$abc$salt$a2V5",
		"pbkdf2_sha256$1000$$a2V5",
		"pbkdf2_sha256$1000$salt$%%%",
	} {
		_, err := ParseHashedCredential(bad)
		assert.ErrorIs(t, err, ErrMalformedHash, bad)
	}
}

func TestScanValueIsIdempotent(t *testing.T) {
	h := NewHasher(1000)
	cred, err := h.Hash("Silla*Nogal3")
	require.NoError(t, err)

	stored, err := cred.Value()
	require.NoError(t, err)

	var loaded HashedCredential
	require.NoError(t, loaded.Scan(stored))

	again, err := loaded.Value()
	require.NoError(t, err)
	assert.Equal(t, stored, again)
}

func TestScanRejectsRawPassword(t *testing.T) {
	var c HashedCredential
	assert.ErrorIs(t, c.Scan("plaintext"), ErrMalformedHash)

	_, err := HashedCredential{}.Value()
	assert.Error(t, err)
}

func TestTokensIssueAndParse(t *testing.T) {
	tk := NewTokens("test-secret", "decohogar", 15*time.Minute, 24*time.Hour)

	s, err := tk.Issue("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, s.AccessToken)
	require.NotEmpty(t, s.RefreshToken)
	assert.True(t, s.RefreshExpiresAt.After(s.AccessExpiresAt))

	claims, err := tk.Parse(s.AccessToken, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	_, err = tk.Parse(s.RefreshToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tk.Parse(s.AccessToken, RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRefresh(t *testing.T) {
	tk := NewTokens("test-secret", "decohogar", 15*time.Minute, 24*time.Hour)
	s, err := tk.Issue("user-7")
	require.NoError(t, err)

	access, exp, err := tk.Refresh(s.RefreshToken)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := tk.Parse(access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-7", claims.Subject)

	_, _, err = tk.Refresh(s.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectExpiredAndForeign(t *testing.T) {
	tk := NewTokens("test-secret", "decohogar", time.Minute, time.Hour)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return base }

	s, err := tk.Issue("user-1")
	require.NoError(t, err)

	tk.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = tk.Parse(s.AccessToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokens("other-secret", "decohogar", time.Minute, time.Hour)
	other.now = func() time.Time { return base }
	_, err = other.Parse(s.AccessToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tk.Parse("not-a-token", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
