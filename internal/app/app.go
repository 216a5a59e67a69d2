package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/kickabout/internal/config"
	"github.com/riskibarqy/kickabout/internal/domain/badge"
	"github.com/riskibarqy/kickabout/internal/domain/notification"
	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/domain/session"
	"github.com/riskibarqy/kickabout/internal/infrastructure/auth"
	"github.com/riskibarqy/kickabout/internal/infrastructure/notify"
	"github.com/riskibarqy/kickabout/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/kickabout/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/kickabout/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/kickabout/internal/platform/id"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
	"github.com/riskibarqy/kickabout/internal/platform/resilience"
	"github.com/riskibarqy/kickabout/internal/usecase"
)

// App owns the HTTP server and the resources that must be released after
// it stops.
type App struct {
	Server     *http.Server
	dispatcher *notify.AsyncDispatcher
	db         *sqlx.DB
	logger     *logging.Logger
}

type stores struct {
	sessions session.Repository
	accounts reliability.Repository
	badges   badge.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}
	st, err := a.openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dispatcher, err := newDispatcher(cfg, logger)
	if err != nil {
		a.closeDB()
		return nil, err
	}
	a.dispatcher = dispatcher

	verifier, err := auth.NewJWTVerifier(auth.JWTVerifierConfig{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		ClockSkew: cfg.JWTClockSkew,
	}, logger)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	sessionSvc := usecase.NewSessionService(st.sessions, st.accounts, dispatcher, idgen.NewUUIDGenerator(), logger)
	badgeSvc := usecase.NewBadgeService(badge.DefaultCatalog(), st.accounts, st.badges, dispatcher, logger)
	attendanceSvc := usecase.NewAttendanceService(st.sessions, badgeSvc, dispatcher, cfg.BadgeWorkers, logger)
	reliabilitySvc := usecase.NewReliabilityService(st.accounts, logger)

	handler := httpapi.NewHandler(sessionSvc, attendanceSvc, reliabilitySvc, badgeSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return stores{}, err
		}
		a.db = db
		a.logger.Info("store ready", "driver", config.StorePostgres, "db_name", sessionsDBName(cfg.DBURL))
		return stores{
			sessions: postgres.NewSessionRepository(db),
			accounts: postgres.NewAccountRepository(db),
			badges:   postgres.NewBadgeRepository(db),
		}, nil
	case config.StoreMemory, "":
		accounts := memory.NewAccountRepository()
		a.logger.Warn("store ready", "driver", config.StoreMemory, "note", "state is lost on restart")
		return stores{
			sessions: memory.NewSessionRepository(accounts),
			accounts: accounts,
			badges:   memory.NewBadgeRepository(),
		}, nil
	default:
		return stores{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func newDispatcher(cfg config.Config, logger *logging.Logger) (*notify.AsyncDispatcher, error) {
	var sink notification.Sink = notify.NewLogSink(logger)
	if cfg.NotifyWebhookURL != "" {
		webhook, err := notify.NewWebhookSink(notify.WebhookSinkConfig{
			URL:     cfg.NotifyWebhookURL,
			Token:   cfg.NotifyWebhookToken,
			Timeout: cfg.NotifyWebhookTimeout,
			CircuitBreaker: resilience.Config{
				Enabled:          cfg.NotifyCircuitEnabled,
				FailureThreshold: cfg.NotifyCircuitFailureCount,
				OpenTimeout:      cfg.NotifyCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.NotifyCircuitHalfOpenMaxReq,
			},
		}, logger)
		if err != nil {
			return nil, err
		}
		sink = webhook
	}

	return notify.NewAsyncDispatcher(notify.DispatcherConfig{
		Workers:     cfg.NotifyWorkers,
		QueueSize:   cfg.NotifyQueueSize,
		SendTimeout: cfg.NotifySendTimeout,
	}, sink, logger)
}

// Close drains pending notifications and closes the database. Call it
// after the HTTP server has stopped accepting requests.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.dispatcher != nil {
		if err := a.dispatcher.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeDB() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	if err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	return nil
}
