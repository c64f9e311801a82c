package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"

	"github.com/healthsoc/blogapi/auth"
)

// Manager exposes all repositories
type Manager interface {
	Admins() auth.Admins
	Articles() Articles
	Events() Events
	Members() Members
	Subscribers() Subscribers

	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
}

type mngr struct {
	db          *bun.DB
	admins      auth.Admins
	articles    Articles
	events      Events
	members     Members
	subscribers Subscribers
}

// NewManager wires every repository over one bun handle
func NewManager(db *bun.DB) Manager {
	return &mngr{
		db:          db,
		admins:      auth.NewAdminsRepository(db),
		articles:    NewArticlesRepository(db),
		events:      NewEventsRepository(db),
		members:     NewMembersRepository(db),
		subscribers: NewSubscribersRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.admins == nil {
		return errors.New("repository admins should be initialized")
	}

	if m.articles == nil {
		return errors.New("repository articles should be initialized")
	}

	if m.events == nil {
		return errors.New("repository events should be initialized")
	}

	if m.members == nil {
		return errors.New("repository members should be initialized")
	}

	if m.subscribers == nil {
		return errors.New("repository subscribers should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Admins() auth.Admins           { return m.admins }
func (m mngr) Articles() Articles            { return m.articles }
func (m mngr) Events() Events                { return m.events }
func (m mngr) Members() Members              { return m.members }
func (m mngr) Subscribers() Subscribers      { return m.subscribers }
