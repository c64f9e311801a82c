package repository

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	blogapi "github.com/healthsoc/blogapi"
)

// Subscribers is the newsletter list store
type Subscribers interface {
	repository.Repository[*blogapi.NewsletterSubscriber]

	All(ctx context.Context) ([]*blogapi.NewsletterSubscriber, error)
	Active(ctx context.Context) ([]*blogapi.NewsletterSubscriber, error)
	GetByEmail(ctx context.Context, email string) (*blogapi.NewsletterSubscriber, error)
	GetByCode(ctx context.Context, code string) (*blogapi.NewsletterSubscriber, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	Unsubscribe(ctx context.Context, email string) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type subscribers struct {
	repository.Repository[*blogapi.NewsletterSubscriber]
	db *bun.DB
}

var _ Subscribers = (*subscribers)(nil)

func NewSubscribersRepository(db *bun.DB) Subscribers {
	repo := repository.NewRepository[*blogapi.NewsletterSubscriber](db, repository.ModelHandlers[*blogapi.NewsletterSubscriber]{
		NewRecord: func() *blogapi.NewsletterSubscriber { return &blogapi.NewsletterSubscriber{} },
		GetID: func(s *blogapi.NewsletterSubscriber) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *blogapi.NewsletterSubscriber, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
	})

	return &subscribers{Repository: repo, db: db}
}

func (s *subscribers) All(ctx context.Context) ([]*blogapi.NewsletterSubscriber, error) {
	var records []*blogapi.NewsletterSubscriber
	err := s.db.NewSelect().
		Model(&records).
		Order("subscribed_at DESC").
		Scan(ctx)
	return records, err
}

func (s *subscribers) Active(ctx context.Context) ([]*blogapi.NewsletterSubscriber, error) {
	var records []*blogapi.NewsletterSubscriber
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_active = ?", true).
		Where("?TableAlias.is_verified = ?", true).
		Order("subscribed_at DESC").
		Scan(ctx)
	return records, err
}

// GetByEmail is case insensitive; addresses are compared lowered
func (s *subscribers) GetByEmail(ctx context.Context, email string) (*blogapi.NewsletterSubscriber, error) {
	record := &blogapi.NewsletterSubscriber{}
	err := s.db.NewSelect().
		Model(record).
		Where("lower(?TableAlias.email) = lower(?)", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *subscribers) GetByCode(ctx context.Context, code string) (*blogapi.NewsletterSubscriber, error) {
	record := &blogapi.NewsletterSubscriber{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.verification_code = ?", code).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *subscribers) MarkVerified(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.NewUpdate().
		Model((*blogapi.NewsletterSubscriber)(nil)).
		Set("is_verified = ?", true).
		Set("verified_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// Unsubscribe flips the active flag but keeps the row, so a later resubscribe
// reuses the same record.
func (s *subscribers) Unsubscribe(ctx context.Context, email string) error {
	_, err := s.db.NewUpdate().
		Model((*blogapi.NewsletterSubscriber)(nil)).
		Set("is_active = ?", false).
		Where("lower(email) = lower(?)", email).
		Exec(ctx)
	return err
}

func (s *subscribers) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.NewDelete().
		Model((*blogapi.NewsletterSubscriber)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// DeleteUnverifiedBefore drops rows that subscribed before the cutoff and
// never completed verification. The cleanup job calls this on a schedule.
func (s *subscribers) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.NewDelete().
		Model((*blogapi.NewsletterSubscriber)(nil)).
		Where("is_verified = ?", false).
		Where("subscribed_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
