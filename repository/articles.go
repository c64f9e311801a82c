package repository

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	blogapi "github.com/healthsoc/blogapi"
)

// Articles is the article store. Public readers only ever go through
// Published/Featured; the admin console uses the full surface.
type Articles interface {
	repository.Repository[*blogapi.Article]

	Published(ctx context.Context) ([]*blogapi.Article, error)
	Featured(ctx context.Context) ([]*blogapi.Article, error)
	All(ctx context.Context) ([]*blogapi.Article, error)
	GetPublishedByID(ctx context.Context, id uuid.UUID) (*blogapi.Article, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type articles struct {
	repository.Repository[*blogapi.Article]
	db *bun.DB
}

var _ Articles = (*articles)(nil)

func NewArticlesRepository(db *bun.DB) Articles {
	repo := repository.NewRepository[*blogapi.Article](db, repository.ModelHandlers[*blogapi.Article]{
		NewRecord: func() *blogapi.Article { return &blogapi.Article{} },
		GetID: func(a *blogapi.Article) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *blogapi.Article, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
	})

	return &articles{Repository: repo, db: db}
}

func (a *articles) Published(ctx context.Context) ([]*blogapi.Article, error) {
	var records []*blogapi.Article
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_published = ?", true).
		Order("published_at DESC").
		Scan(ctx)
	return records, err
}

func (a *articles) Featured(ctx context.Context) ([]*blogapi.Article, error) {
	var records []*blogapi.Article
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_published = ?", true).
		Where("?TableAlias.is_featured = ?", true).
		Order("published_at DESC").
		Scan(ctx)
	return records, err
}

func (a *articles) All(ctx context.Context) ([]*blogapi.Article, error) {
	var records []*blogapi.Article
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	return records, err
}

// GetPublishedByID is the public single-article read; drafts stay invisible
func (a *articles) GetPublishedByID(ctx context.Context, id uuid.UUID) (*blogapi.Article, error) {
	record := &blogapi.Article{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.is_published = ?", true).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (a *articles) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := a.db.NewDelete().
		Model((*blogapi.Article)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// PrepareCreate stamps defaults before insert
func PrepareArticle(record *blogapi.Article) *blogapi.Article {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Published && record.PublishedAt == nil {
		now := time.Now()
		record.PublishedAt = &now
	}
	return record
}
