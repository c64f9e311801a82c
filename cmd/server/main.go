package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	blogapi "github.com/healthsoc/blogapi"
	"github.com/healthsoc/blogapi/auth"
	"github.com/healthsoc/blogapi/config"
	"github.com/healthsoc/blogapi/mailer"
	"github.com/healthsoc/blogapi/repository"
	"github.com/healthsoc/blogapi/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	if err := createSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	repo := repository.NewManager(db)
	repo.MustValidate()

	tokens, err := auth.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenTTL(),
		cfg.GetIssuer(),
		auth.SystemClock(),
		nil,
	)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	registry := auth.NewRevocationRegistry(auth.SystemClock())
	provider := auth.NewAdminProvider(adminStoreAdapter{admins: repo.Admins()})
	auther := auth.NewAuthenticator(provider, tokens, registry)

	var mail mailer.Mailer = mailer.Noop{}
	if cfg.MailEnabled() {
		smtp, err := mailer.NewSMTPMailer(
			cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUser, cfg.SMTPPass,
			cfg.SMTPFrom, cfg.PublicBaseURL,
		)
		if err != nil {
			log.Fatalf("mailer: %v", err)
		}
		mail = smtp
	}

	srv := server.New(cfg, repo, auther, server.WithMailer(mail))

	sweep := server.NewMaintenance(registry, repo, cfg.RetentionWindow(), nil)
	if err := sweep.Start(cfg.CleanupSchedule); err != nil {
		log.Fatalf("maintenance: %v", err)
	}

	go func() {
		if err := srv.Listen(); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sweep.Stop()
	if err := srv.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// adminStoreAdapter narrows the bun-backed repository down to the two calls
// the credential provider makes.
type adminStoreAdapter struct {
	admins auth.Admins
}

func (a adminStoreAdapter) GetByIdentifier(ctx context.Context, identifier string) (*auth.Admin, error) {
	return a.admins.GetByIdentifier(ctx, identifier)
}

func (a adminStoreAdapter) TrackSuccessfulLogin(ctx context.Context, admin *auth.Admin) error {
	return a.admins.TrackSuccessfulLogin(ctx, admin)
}

func createSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.Admin)(nil),
		(*blogapi.Article)(nil),
		(*blogapi.Event)(nil),
		(*blogapi.Member)(nil),
		(*blogapi.NewsletterSubscriber)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}
