package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthsoc/blogapi/auth"
)

func newTestAuther(t *testing.T, clock auth.Clock, provider auth.IdentityProvider) *auth.Auther {
	t.Helper()

	tokens := newTestTokenService(t, clock)
	registry := auth.NewRevocationRegistry(clock)

	return auth.NewAuthenticator(provider, tokens, registry)
}

func TestAuther_Login(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	t.Run("valid credentials mint a verifiable token", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", context.Background(), "editor@example.com", "s3cret").
			Return(stubIdentity(auth.RoleAdmin), nil)

		auther := newTestAuther(t, clock, provider)

		token, err := auther.Login(context.Background(), "editor@example.com", "s3cret")
		require.NoError(t, err)

		claims, err := auther.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "editor@example.com", claims.Subject())

		provider.AssertExpectations(t)
	})

	t.Run("provider rejection propagates untouched", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", context.Background(), "editor@example.com", "wrong").
			Return(nil, auth.ErrInvalidCredentials)

		auther := newTestAuther(t, clock, provider)

		_, err := auther.Login(context.Background(), "editor@example.com", "wrong")
		assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))
	})
}

func TestAuther_Verify(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	provider := &MockIdentityProvider{}
	provider.On("VerifyIdentity", context.Background(), "editor@example.com", "s3cret").
		Return(stubIdentity(auth.RoleAdmin), nil)

	auther := newTestAuther(t, clock, provider)

	token, err := auther.Login(context.Background(), "editor@example.com", "s3cret")
	require.NoError(t, err)

	t.Run("fresh token verifies", func(t *testing.T) {
		claims, err := auther.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "editor@example.com", claims.Subject())
	})

	t.Run("revoked token fails with the revocation error", func(t *testing.T) {
		claims, err := auther.TokenService().Verify(token)
		require.NoError(t, err)

		auther.Registry().Revoke(token, claims.Expires())

		_, err = auther.Verify(token)
		assert.True(t, errors.Is(err, auth.ErrTokenRevoked))
	})

	t.Run("expired token fails before the revocation check", func(t *testing.T) {
		clock.Advance(16 * time.Minute)

		_, err := auther.Verify(token)
		assert.True(t, errors.Is(err, auth.ErrTokenExpired))
	})
}

func TestAuther_Refresh(t *testing.T) {
	t.Run("refresh rotates and revokes the old token", func(t *testing.T) {
		clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", context.Background(), "editor@example.com", "s3cret").
			Return(stubIdentity(auth.RoleAdmin), nil)

		auther := newTestAuther(t, clock, provider)

		token, err := auther.Login(context.Background(), "editor@example.com", "s3cret")
		require.NoError(t, err)

		clock.Advance(5 * time.Minute)

		fresh, err := auther.Refresh(context.Background(), token)
		require.NoError(t, err)
		assert.NotEqual(t, token, fresh)

		// the old token is spent, the new one works
		_, err = auther.Verify(token)
		assert.True(t, errors.Is(err, auth.ErrTokenRevoked))

		claims, err := auther.Verify(fresh)
		require.NoError(t, err)
		assert.Equal(t, "editor@example.com", claims.Subject())
		assert.True(t, clock.Now().Add(15*time.Minute).Equal(claims.Expires()), "refresh should restart the TTL")
	})

	t.Run("an expired token cannot refresh", func(t *testing.T) {
		clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", context.Background(), "editor@example.com", "s3cret").
			Return(stubIdentity(auth.RoleAdmin), nil)

		auther := newTestAuther(t, clock, provider)

		token, err := auther.Login(context.Background(), "editor@example.com", "s3cret")
		require.NoError(t, err)

		clock.Advance(time.Hour)

		_, err = auther.Refresh(context.Background(), token)
		assert.True(t, errors.Is(err, auth.ErrTokenExpired))
	})

	t.Run("concurrent refreshes produce exactly one winner", func(t *testing.T) {
		clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", context.Background(), "editor@example.com", "s3cret").
			Return(stubIdentity(auth.RoleAdmin), nil)

		auther := newTestAuther(t, clock, provider)

		token, err := auther.Login(context.Background(), "editor@example.com", "s3cret")
		require.NoError(t, err)

		const racers = 32

		var wg sync.WaitGroup
		results := make(chan error, racers)

		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := auther.Refresh(context.Background(), token)
				results <- err
			}()
		}

		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.True(t, errors.Is(err, auth.ErrTokenRevoked))
			}
		}

		assert.Equal(t, 1, succeeded)
	})
}

func TestAuther_Logout(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	provider := &MockIdentityProvider{}
	provider.On("VerifyIdentity", context.Background(), "editor@example.com", "s3cret").
		Return(stubIdentity(auth.RoleAdmin), nil)

	auther := newTestAuther(t, clock, provider)

	token, err := auther.Login(context.Background(), "editor@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, auther.Logout(token))

	_, err = auther.Verify(token)
	assert.True(t, errors.Is(err, auth.ErrTokenRevoked))

	t.Run("logout is idempotent", func(t *testing.T) {
		assert.NoError(t, auther.Logout(token))
	})

	t.Run("garbage cannot be logged out", func(t *testing.T) {
		assert.Error(t, auther.Logout("not-a-token"))
	})
}
