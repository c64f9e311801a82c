package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// AdminStore is the slice of the persistence layer this core borrows:
// identifier lookup and the last-login side effect.
type AdminStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*Admin, error)
	TrackSuccessfulLogin(ctx context.Context, admin *Admin) error
}

// AdminProvider verifies supplied credentials against stored admin records
type AdminProvider struct {
	store  AdminStore
	logger Logger
}

// NewAdminProvider will create a new AdminProvider
func NewAdminProvider(store AdminStore) *AdminProvider {
	return &AdminProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (p *AdminProvider) WithLogger(l Logger) *AdminProvider {
	p.logger = l
	return p
}

// VerifyIdentity looks up the admin by username or email, compares the
// password against the stored hash and resolves the role. Unknown identifier
// and wrong password surface as the same error so responses cannot be used
// to enumerate accounts.
func (p *AdminProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	admin, err := p.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve admin during verification")
	}

	if admin == nil {
		return nil, ErrInvalidCredentials
	}

	if !admin.Active {
		return nil, ErrAccountDisabled.Clone().
			WithMetadata(map[string]any{"admin_id": admin.ID.String()})
	}

	if err := ComparePasswordAndHash(password, admin.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !admin.Role.IsValid() {
		return nil, ErrInvalidRole.Clone().
			WithMetadata(map[string]any{"role": string(admin.Role), "admin_id": admin.ID.String()})
	}

	// last-login bookkeeping should not block a successful login
	if err := p.store.TrackSuccessfulLogin(ctx, admin); err != nil {
		p.logger.Error("failed to track successful login: %v", err)
	}

	return adminIdentity{
		id:       admin.ID.String(),
		username: admin.Username,
		email:    admin.Email,
		role:     admin.Role,
	}, nil
}

type adminIdentity struct {
	id       string
	username string
	email    string
	role     Role
}

func (a adminIdentity) ID() string       { return a.id }
func (a adminIdentity) Username() string { return a.username }
func (a adminIdentity) Email() string    { return a.email }
func (a adminIdentity) Role() Role       { return a.role }

var _ Identity = adminIdentity{}
