package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cscportal/api/internal/models"
)

var testParams = Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestPasswordHasher_Argon2RoundTrip(t *testing.T) {
	h := NewPasswordHasher(testParams)

	digest, err := h.Hash("Admin@12345")
	require.NoError(t, err)
	assert.NotContains(t, string(digest), "Admin@12345")
	assert.False(t, h.NeedsRehash(digest))

	ok, err := h.Verify("Admin@12345", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", digest)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := h.Hash("Admin@12345")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other, "salt must differ between hashes")
}

func TestPasswordHasher_LegacyBcrypt(t *testing.T) {
	h := NewPasswordHasher(testParams)
	legacy, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := h.Verify("secret-pass", legacy)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, h.NeedsRehash(legacy))

	ok, err = h.Verify("nope", legacy)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_UnknownFormat(t *testing.T) {
	h := NewPasswordHasher(testParams)
	ok, err := h.Verify("x", []byte("plaintext"))
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestTokenSigner_RoundTrip(t *testing.T) {
	signer := NewTokenSigner("test-secret", 24*time.Hour)
	admin := models.Administrator{ID: "adm1", Email: "a@b.test", Role: models.AdminRoleAdmin}

	token, expires, err := signer.Sign(admin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expires, 5*time.Second)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "adm1", claims.AdminID)
	assert.Equal(t, "a@b.test", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenSigner_Rejects(t *testing.T) {
	signer := NewTokenSigner("test-secret", time.Hour)
	admin := models.Administrator{ID: "adm1", Role: models.AdminRoleAdmin}

	past := NewTokenSigner("test-secret", time.Hour)
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := past.Sign(admin)
	require.NoError(t, err)

	foreign, _, err := NewTokenSigner("other-secret", time.Hour).Sign(admin)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, AdminClaims{
		AdminID:          "adm1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":        expired,
		"foreign secret": foreign,
		"alg none":       unsigned,
		"garbage":        "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := signer.Verify(token)
			assert.True(t, errors.Is(err, models.ErrInvalidToken))
		})
	}
}

func TestAuthorize(t *testing.T) {
	admin := &models.Administrator{Role: models.AdminRoleAdmin}

	assert.NoError(t, Authorize(admin, models.ManagementRoles...))
	assert.ErrorIs(t, Authorize(admin, models.AdminRoleSuperAdmin), models.ErrForbidden)
	assert.ErrorIs(t, Authorize(nil, models.ManagementRoles...), models.ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(admin), models.ErrForbidden)
}
