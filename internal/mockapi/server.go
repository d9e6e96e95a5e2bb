// Package mockapi is an in-memory implementation of the helpdesk REST API used for
// local development and end-to-end tests of the client.
package mockapi

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/config"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/auth"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/handlers"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/repository"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/service"
	"github.com/spec-kit/helpdesk-client/internal/observability"
)

// Server bundles the fiber app with the services behind it.
type Server struct {
	App     *fiber.App
	Auth    *service.AuthService
	Tickets *service.TicketService
	Tags    *service.TagService
	Mailbox *service.MailboxService

	mailRepo repository.MailboxRepository
	logger   *zap.Logger
}

// Option customises a Server.
type Option func(*options)

type options struct {
	clock    repository.Clock
	registry *prometheus.Registry
	version  string
	seed     bool
}

// WithClock replaces time.Now for timestamps and token expiry.
func WithClock(clock repository.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithRegistry exposes the backend collectors on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) Option {
	return func(o *options) { o.version = version }
}

// WithoutSeed starts the server with empty repositories.
func WithoutSeed() Option {
	return func(o *options) { o.seed = false }
}

// New builds the backend, registers its routes and loads the demo data set.
func New(ctx context.Context, cfg config.MockAPIConfig, logger *zap.Logger, opts ...Option) (*Server, error) {
	o := options{clock: time.Now, version: "dev", seed: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}
	logger = observability.Named(logger, "mockapi")

	userRepo := repository.NewUserRepository(o.clock)
	refreshRepo := repository.NewRefreshTokenRepository(o.clock)
	ticketRepo := repository.NewTicketRepository(o.clock)
	entryRepo := repository.NewEntryRepository(o.clock)
	tagRepo := repository.NewTagRepository()
	mailRepo := repository.NewMailboxRepository()

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshRepo,
		Clock:            o.clock,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		EntryRepo:  entryRepo,
		TagRepo:    tagRepo,
		UserRepo:   userRepo,
	})
	tagService := service.NewTagService(tagRepo, ticketRepo, entryRepo)
	mailboxService := service.NewMailboxService(mailRepo)

	s := &Server{
		App: fiber.New(fiber.Config{
			AppName:               "helpdesk-mockapi",
			DisableStartupMessage: true,
		}),
		Auth:     authService,
		Tickets:  ticketService,
		Tags:     tagService,
		Mailbox:  mailboxService,
		mailRepo: mailRepo,
		logger:   logger,
	}

	registerMiddlewares(s.App, logger, observability.NewServerMetrics(o.registry))
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})))
	registerRoutes(s.App, routeConfig{
		Health:         handlers.NewHealthHandler("helpdesk-mockapi", o.version),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Entries:        handlers.NewEntriesHandler(ticketService),
		Tags:           handlers.NewTagsHandler(tagService),
		Mailbox:        handlers.NewMailboxHandler(mailboxService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	if o.seed {
		if err := s.Seed(ctx); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}
	return s, nil
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("mockapi listening", zap.String("addr", ln.Addr().String()))
	return s.App.Listener(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
