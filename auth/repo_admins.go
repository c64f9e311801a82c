package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Admins exposes the credential store. GetByIdentifier and GetByIdentifierTx
// come from the embedded repository interface; the implementation here widens
// the lookup to id, email, or username.
type Admins interface {
	repository.Repository[*Admin]

	TrackSuccessfulLogin(ctx context.Context, admin *Admin) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, admin *Admin) error
}

type admins struct {
	repository.Repository[*Admin]
	db *bun.DB
}

var _ Admins = (*admins)(nil)

// NewAdminsRepository builds the bun-backed credential store
func NewAdminsRepository(db *bun.DB) Admins {
	repo := repository.NewRepository[*Admin](db, repository.ModelHandlers[*Admin]{
		NewRecord: func() *Admin { return &Admin{} },
		GetID: func(a *Admin) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Admin, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &admins{
		Repository: repo,
		db:         db,
	}
}

func (a *admins) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*Admin, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

// GetByIdentifierTx resolves an admin by id, email, or username. Email and
// username comparisons are case-insensitive.
func (a *admins) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*Admin, error) {
	options := resolveAdminIdentifier(identifier)
	if len(options) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"identifier": identifier})
	}

	for _, opt := range options {
		record := &Admin{}
		q := tx.NewSelect().Model(record)

		for _, c := range criteria {
			q.Apply(c)
		}

		if opt.caseInsensitive {
			q = q.Where(fmt.Sprintf("lower(?TableAlias.%s) = lower(?)", opt.column), opt.value)
		} else {
			q = q.Where(fmt.Sprintf("?TableAlias.%s = ?", opt.column), opt.value)
		}

		err := q.Limit(1).Scan(ctx)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, err
		}

		return record, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{"identifier": identifier})
}

func (a *admins) TrackSuccessfulLogin(ctx context.Context, admin *Admin) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, admin)
}

func (a *admins) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, admin *Admin) error {
	lastLogin := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "admins" AS "adm"
		SET
			"last_login_at" = ?,
			"updated_at" = ?
		WHERE
			("adm".id = ?);
	`, lastLogin, lastLogin, admin.ID).Exec(ctx)

	return err
}

type identifierOption struct {
	column          string
	value           string
	caseInsensitive bool
}

func resolveAdminIdentifier(identifier string) []identifierOption {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil
	}

	options := make([]identifierOption, 0, 3)

	if isUUID(trimmed) {
		options = append(options, identifierOption{
			column: "id",
			value:  trimmed,
		})
	}

	if isEmail(trimmed) {
		options = append(options, identifierOption{
			column:          "email",
			value:           trimmed,
			caseInsensitive: true,
		})
	}

	options = append(options, identifierOption{
		column:          "username",
		value:           trimmed,
		caseInsensitive: true,
	})

	return options
}

func isEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}
