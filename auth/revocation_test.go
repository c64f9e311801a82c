package auth_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/healthsoc/blogapi/auth"
)

func TestRevocationRegistry_Revoke(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := auth.NewRevocationRegistry(clock)

	expiry := clock.Now().Add(15 * time.Minute)

	assert.False(t, registry.IsRevoked("token-a"))

	registry.Revoke("token-a", expiry)
	assert.True(t, registry.IsRevoked("token-a"))
	assert.False(t, registry.IsRevoked("token-b"))

	t.Run("revoking twice is a no-op", func(t *testing.T) {
		registry.Revoke("token-a", expiry)
		assert.True(t, registry.IsRevoked("token-a"))
		assert.Equal(t, 1, registry.Len())
	})
}

func TestRevocationRegistry_RevokeIfActive(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := auth.NewRevocationRegistry(clock)
	expiry := clock.Now().Add(15 * time.Minute)

	assert.True(t, registry.RevokeIfActive("token-a", expiry))
	assert.False(t, registry.RevokeIfActive("token-a", expiry))
	assert.True(t, registry.IsRevoked("token-a"))
}

func TestRevocationRegistry_ConcurrentRevocation(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := auth.NewRevocationRegistry(clock)
	expiry := clock.Now().Add(15 * time.Minute)

	const racers = 64

	var wg sync.WaitGroup
	wins := make(chan bool, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- registry.RevokeIfActive("contested", expiry)
		}()
	}

	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}

	assert.Equal(t, 1, winners, "exactly one racer should observe the revocation")
	assert.True(t, registry.IsRevoked("contested"))
}

func TestRevocationRegistry_PurgeExpired(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry := auth.NewRevocationRegistry(clock)

	registry.Revoke("short", clock.Now().Add(time.Minute))
	registry.Revoke("long", clock.Now().Add(time.Hour))

	assert.Equal(t, 0, registry.PurgeExpired())
	assert.Equal(t, 2, registry.Len())

	clock.Advance(time.Minute)

	assert.Equal(t, 1, registry.PurgeExpired())
	assert.False(t, registry.IsRevoked("short"))
	assert.True(t, registry.IsRevoked("long"))

	clock.Advance(time.Hour)

	assert.Equal(t, 1, registry.PurgeExpired())
	assert.Equal(t, 0, registry.Len())
}
