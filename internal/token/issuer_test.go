package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-auth-service/internal/model"
)

func testUser() model.User {
	return model.User{
		ID:    "user-1",
		Email: "a@x.com",
		Role:  model.RoleNormal,
	}
}

func TestNewIssuer(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewIssuer("  ", time.Minute, time.Hour)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive TTLs", func(t *testing.T) {
		_, err := NewIssuer("secret", 0, time.Hour)
		assert.Error(t, err)

		_, err = NewIssuer("secret", time.Minute, -time.Hour)
		assert.Error(t, err)
	})
}

func TestIssuer_Generate(t *testing.T) {
	issuer, err := NewIssuer("secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	t.Run("pairs are signed and carry the device claims", func(t *testing.T) {
		pair, err := issuer.Generate(testUser(), "d1")
		require.NoError(t, err)

		assert.Equal(t, "Bearer", pair.TokenType)
		assert.Equal(t, int64((15 * time.Minute).Seconds()), pair.ExpiresIn)

		access, err := issuer.Validate(pair.AccessToken, TypeAccess)
		require.NoError(t, err)
		assert.Equal(t, "user-1", access.UserID)
		assert.Equal(t, "d1", access.DeviceID)
		assert.Equal(t, "a@x.com", access.Email)
		assert.Equal(t, model.RoleNormal, access.Role)
		assert.NotEmpty(t, access.TokenID)

		refresh, err := issuer.Validate(pair.RefreshToken, TypeRefresh)
		require.NoError(t, err)
		assert.Equal(t, "user-1", refresh.UserID)
		assert.Equal(t, "d1", refresh.DeviceID)
	})

	t.Run("every pair is fresh", func(t *testing.T) {
		first, err := issuer.Generate(testUser(), "d1")
		require.NoError(t, err)
		second, err := issuer.Generate(testUser(), "d1")
		require.NoError(t, err)

		assert.NotEqual(t, first.AccessToken, second.AccessToken)
		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	})
}

func TestIssuer_Validate(t *testing.T) {
	issuer, err := NewIssuer("secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	t.Run("rejects the wrong token type", func(t *testing.T) {
		pair, err := issuer.Generate(testUser(), "d1")
		require.NoError(t, err)

		_, err = issuer.Validate(pair.RefreshToken, TypeAccess)
		assert.Error(t, err)
		_, err = issuer.Validate(pair.AccessToken, TypeRefresh)
		assert.Error(t, err)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other, err := NewIssuer("other-secret", 15*time.Minute, 24*time.Hour)
		require.NoError(t, err)

		pair, err := other.Generate(testUser(), "d1")
		require.NoError(t, err)

		_, err = issuer.Validate(pair.AccessToken, TypeAccess)
		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		shortLived, err := NewIssuer("secret", time.Nanosecond, time.Millisecond)
		require.NoError(t, err)

		pair, err := shortLived.Generate(testUser(), "d1")
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		_, err = shortLived.Validate(pair.AccessToken, TypeAccess)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := issuer.Validate("not-a-token", TypeAccess)
		assert.Error(t, err)
	})
}
