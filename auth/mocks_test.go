package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/healthsoc/blogapi/auth"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockIdentity implements auth.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() auth.Role {
	args := m.Called()
	return args.Get(0).(auth.Role)
}

// MockAdminStore implements auth.AdminStore for testing
type MockAdminStore struct {
	mock.Mock
}

func (m *MockAdminStore) GetByIdentifier(ctx context.Context, identifier string) (*auth.Admin, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Admin), args.Error(1)
}

func (m *MockAdminStore) TrackSuccessfulLogin(ctx context.Context, admin *auth.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

// MockIdentityProvider implements auth.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

func stubIdentity(role auth.Role) *MockIdentity {
	identity := &MockIdentity{}
	identity.On("ID").Return("7c9e6679-7425-40de-944b-e07fc1f90ae7").Maybe()
	identity.On("Username").Return("editor").Maybe()
	identity.On("Email").Return("editor@example.com").Maybe()
	identity.On("Role").Return(role).Maybe()
	return identity
}
