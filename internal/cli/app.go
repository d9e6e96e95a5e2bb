package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/api/httpclient"
	"github.com/spec-kit/helpdesk-client/internal/config"
	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/i18n"
	"github.com/spec-kit/helpdesk-client/internal/observability"
	"github.com/spec-kit/helpdesk-client/internal/persistence"
	"github.com/spec-kit/helpdesk-client/internal/render"
	"github.com/spec-kit/helpdesk-client/internal/resource"
	"github.com/spec-kit/helpdesk-client/internal/router"
	"github.com/spec-kit/helpdesk-client/internal/session"
	"github.com/spec-kit/helpdesk-client/internal/store"
	"github.com/spec-kit/helpdesk-client/internal/worker"
)

const msgOperationFailed = "operation did not complete"

// Options configures NewApp.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	// Registry receives the client metrics. Nil uses a private registry.
	Registry *prometheus.Registry
	// Store overrides the configured key-value backend.
	Store  persistence.KeyValueStore
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// App wires the client stack behind the commands.
type App struct {
	Session  *session.Store
	Tickets  *store.TicketStore
	Clients  resource.Clients
	Locales  *i18n.Locales
	Guard    *router.Guard
	Routes   *router.Table
	Renderer *render.Renderer
	Registry *prometheus.Registry

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	kv     persistence.KeyValueStore
	logger *zap.Logger
}

// NewApp opens the key-value store and builds every client component on top of it.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("cli: config is required")
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	kv := opts.Store
	if kv == nil {
		opened, err := persistence.Open(ctx, cfg.Storage, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
		}
		kv = opened
	}

	tokens, err := session.NewTokenHolder(ctx, kv, logger)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	client, err := httpclient.New(httpclient.Config{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.RequestTimeout(),
		IncludeCredentials: cfg.API.IncludeCredentials(),
		RateLimit:          cfg.API.RateLimitPerSecond,
		RateBurst:          cfg.API.RateLimitBurst,
		Tokens:             tokens,
		Logger:             logger,
		Metrics:            observability.NewMetrics(reg),
	})
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	clients := resource.NewClients(client)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	locales, err := i18n.NewLocales(ctx, kv, dispatcher, cfg.App.DefaultLocale)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	sess := session.NewStore(session.Dependencies{
		Auth:       clients.Auth,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	routes := router.NewTable(router.DefaultRoutes)

	app := &App{
		Session: sess,
		Tickets: store.NewTicketStore(store.TicketDependencies{
			Tickets:    clients.Tickets,
			Entries:    clients.Entries,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		Clients:  clients,
		Locales:  locales,
		Guard:    router.NewGuard(routes, sess),
		Routes:   routes,
		Renderer: render.New(),
		Registry: reg,
		stdin:    opts.Stdin,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
		kv:       kv,
		logger:   logger,
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app, nil
}

// Close releases the key-value store.
func (a *App) Close() error {
	return a.kv.Close()
}

// enter resolves the named route through the guard. A redirect is reported as a failure.
func (a *App) enter(name string, params map[string]string) (router.Decision, error) {
	path, err := a.Routes.Path(name, params)
	if err != nil {
		return router.Decision{}, err
	}
	d, err := a.Guard.Resolve(path)
	if err != nil {
		return d, err
	}
	if !d.Allow {
		if d.Route.Access == router.AccessAuth {
			return d, fmt.Errorf("login required (redirected to %s); run 'helpdesk login' first", d.Redirect)
		}
		return d, fmt.Errorf("already logged in (redirected to %s)", d.Redirect)
	}
	return d, nil
}

// failed prints a store error message and yields exit code 1. A store reports
// no message when its load was superseded, so a generic one is printed instead.
func (a *App) failed(msg string) error {
	if strings.TrimSpace(msg) == "" {
		msg = msgOperationFailed
	}
	a.logger.Debug("command failed", zap.String("error", msg))
	fmt.Fprintf(a.stderr, "error: %s\n", msg)
	return &ExitError{Code: 1}
}
