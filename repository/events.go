package repository

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	blogapi "github.com/healthsoc/blogapi"
)

// Events is the event store
type Events interface {
	repository.Repository[*blogapi.Event]

	All(ctx context.Context) ([]*blogapi.Event, error)
	Upcoming(ctx context.Context) ([]*blogapi.Event, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*blogapi.Event, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type events struct {
	repository.Repository[*blogapi.Event]
	db *bun.DB
}

var _ Events = (*events)(nil)

func NewEventsRepository(db *bun.DB) Events {
	repo := repository.NewRepository[*blogapi.Event](db, repository.ModelHandlers[*blogapi.Event]{
		NewRecord: func() *blogapi.Event { return &blogapi.Event{} },
		GetID: func(e *blogapi.Event) uuid.UUID {
			if e == nil {
				return uuid.Nil
			}
			return e.ID
		},
		SetID: func(e *blogapi.Event, id uuid.UUID) {
			if e != nil {
				e.ID = id
			}
		},
	})

	return &events{Repository: repo, db: db}
}

func (e *events) All(ctx context.Context) ([]*blogapi.Event, error) {
	var records []*blogapi.Event
	err := e.db.NewSelect().
		Model(&records).
		Order("event_date DESC").
		Scan(ctx)
	return records, err
}

func (e *events) Upcoming(ctx context.Context) ([]*blogapi.Event, error) {
	var records []*blogapi.Event
	err := e.db.NewSelect().
		Model(&records).
		Where("?TableAlias.event_date >= current_date").
		Order("event_date ASC").
		Scan(ctx)
	return records, err
}

func (e *events) GetByUUID(ctx context.Context, id uuid.UUID) (*blogapi.Event, error) {
	record := &blogapi.Event{}
	err := e.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (e *events) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := e.db.NewDelete().
		Model((*blogapi.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
