// Package server is the HTTP surface: a fiber app fronted by the request
// authentication gate, with JSON controllers for the public site and the
// admin console.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/healthsoc/blogapi/auth"
	"github.com/healthsoc/blogapi/config"
	"github.com/healthsoc/blogapi/mailer"
	"github.com/healthsoc/blogapi/middleware/authware"
	"github.com/healthsoc/blogapi/repository"
)

type Server struct {
	app    *fiber.App
	cfg    *config.Config
	repo   repository.Manager
	auther *auth.Auther
	mail   mailer.Mailer
	policy *auth.Policy
	logger auth.Logger
}

type Option func(*Server)

func WithLogger(logger auth.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMailer(m mailer.Mailer) Option {
	return func(s *Server) {
		if m != nil {
			s.mail = m
		}
	}
}

// WithPolicy swaps the route authorization table, mostly for tests.
func WithPolicy(p *auth.Policy) Option {
	return func(s *Server) {
		if p != nil {
			s.policy = p
		}
	}
}

func New(cfg *config.Config, repo repository.Manager, auther *auth.Auther, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		repo:   repo,
		auther: auther,
		mail:   mailer.Noop{},
		policy: DefaultPolicy(),
		logger: defLogger{},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "blogapi",
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: cfg.IsProduction(),
	})

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	s.app.Use(authware.New(authware.Config{
		Verifier:     auther.TokenService(),
		Registry:     auther.Registry(),
		Policy:       s.policy,
		ContextKey:   cfg.GetContextKey(),
		TokenLookup:  cfg.GetTokenLookup(),
		AuthScheme:   cfg.GetAuthScheme(),
		Logger:       s.logger,
		ErrorHandler: s.errorHandler,
	}))

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api/v1")

	newAuthController(s).register(api.Group("/admin/auth"))
	newArticlesController(s).register(api.Group("/articles"))
	newEventsController(s).register(api.Group("/events"))
	newMembersController(s).register(api.Group("/members"))
	newNewsletterController(s).register(api.Group("/newsletter"))

	s.app.Use(notFound)
}

// App exposes the fiber app for tests
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen() error {
	s.logger.Info("listening on %s", s.cfg.ServerAddr)
	return s.app.Listen(s.cfg.ServerAddr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
