package repository

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	blogapi "github.com/healthsoc/blogapi"
)

// Members is the committee member store
type Members interface {
	repository.Repository[*blogapi.Member]

	Active(ctx context.Context) ([]*blogapi.Member, error)
	All(ctx context.Context) ([]*blogapi.Member, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type members struct {
	repository.Repository[*blogapi.Member]
	db *bun.DB
}

var _ Members = (*members)(nil)

func NewMembersRepository(db *bun.DB) Members {
	repo := repository.NewRepository[*blogapi.Member](db, repository.ModelHandlers[*blogapi.Member]{
		NewRecord: func() *blogapi.Member { return &blogapi.Member{} },
		GetID: func(m *blogapi.Member) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *blogapi.Member, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})

	return &members{Repository: repo, db: db}
}

// Active is the public roster, ordered by join date
func (m *members) Active(ctx context.Context) ([]*blogapi.Member, error) {
	var records []*blogapi.Member
	err := m.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_active = ?", true).
		Order("joined_at ASC").
		Scan(ctx)
	return records, err
}

func (m *members) All(ctx context.Context) ([]*blogapi.Member, error) {
	var records []*blogapi.Member
	err := m.db.NewSelect().
		Model(&records).
		Order("joined_at ASC").
		Scan(ctx)
	return records, err
}

func (m *members) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := m.db.NewDelete().
		Model((*blogapi.Member)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
