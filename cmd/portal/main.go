package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/api"
	"github.com/authapp/portal/internal/api/middleware"
	"github.com/authapp/portal/internal/api/view"
	"github.com/authapp/portal/internal/core/ports"
	"github.com/authapp/portal/internal/core/service"
	"github.com/authapp/portal/internal/infrastructure/accountapi"
	"github.com/authapp/portal/internal/infrastructure/auditlog"
	"github.com/authapp/portal/internal/infrastructure/db/memory"
	mongodb "github.com/authapp/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/authapp/portal/internal/infrastructure/db/redis"
	"github.com/authapp/portal/internal/infrastructure/http/handlers"
	"github.com/authapp/portal/internal/infrastructure/queue"
	"github.com/authapp/portal/internal/pkg/config"
	"github.com/authapp/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	readiness := map[string]handlers.Pinger{}

	sessions, closeSessions, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSessions()
	readiness["sessions"] = sessions

	auditRepo, closeAudit, err := openAuditRepository(ctx, cfg, log, readiness)
	if err != nil {
		return err
	}
	defer closeAudit()

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	accounts, err := accountapi.New(accountapi.Config{
		BaseURL: cfg.Account.BaseURL,
		Timeout: cfg.Account.Timeout,
	}, logger.Component("accountapi"))
	if err != nil {
		return err
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}

	gate := service.NewSubmissionGate()
	svcLog := logger.Component("service")

	e := api.NewRouter(api.Dependencies{
		Log:      logger.Component("http"),
		Renderer: renderer,
		Sessions: sessions,
		Resolver: service.NewSessionResolver(accounts, svcLog),
		Tokens:   middleware.NewSessionTokens(cfg.Session.Secret, cfg.Session.TTL),
		Cookie: middleware.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
			TTL:    cfg.Session.TTL,
		},
		Credentials: service.NewCredentialService(accounts, gate, dispatcher, svcLog),
		Profiles:    service.NewProfileService(accounts, gate, dispatcher, svcLog),
		Roles:       service.NewRoleAdminService(accounts, gate, dispatcher, svcLog),
		Readiness:   readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down portal...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("portal stopped")
	return nil
}

type sessionStore interface {
	ports.SessionStore
	Ping(ctx context.Context) error
}

func openSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (sessionStore, func(), error) {
	switch cfg.Session.Store {
	case "memory":
		log.Warn().Msg("browser sessions kept in process memory")
		return memory.NewSessionStore(cfg.Session.TTL), func() {}, nil
	case "embedded":
		client, stop, err := redisdb.StartEmbedded()
		if err != nil {
			return nil, nil, err
		}
		log.Warn().Msg("browser sessions kept in embedded redis")
		return redisdb.NewSessionStore(client, cfg.Session.TTL), stop, nil
	default:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		return redisdb.NewSessionStore(client, cfg.Session.TTL), func() { _ = client.Close() }, nil
	}
}

// openAuditRepository persists audit events to MongoDB when configured and
// falls back to the structured log otherwise.
func openAuditRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger, readiness map[string]handlers.Pinger) (ports.AuditRepository, func(), error) {
	if cfg.Mongo.URI == "" {
		log.Info().Msg("MONGO_URI not set, audit events go to the log")
		return auditlog.NewRepository(logger.Component("audit")), func() {}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "portal",
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { mongodb.Disconnect(client) }

	repo := mongodb.NewAuditRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	readiness["mongo"] = mongodb.Pinger{Client: client}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
	return repo, closeFn, nil
}
