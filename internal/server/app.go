// Package server wires configuration, storage, services and transports
// together and runs the REST API and the gRPC health service until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/odsregistry/internal/dbx"
	"github.com/dmitrijs2005/odsregistry/internal/logging"
	"github.com/dmitrijs2005/odsregistry/internal/server/auth"
	"github.com/dmitrijs2005/odsregistry/internal/server/config"
	"github.com/dmitrijs2005/odsregistry/internal/server/events"
	"github.com/dmitrijs2005/odsregistry/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/odsregistry/internal/server/rest"
	"github.com/dmitrijs2005/odsregistry/internal/server/services"

	gs "github.com/dmitrijs2005/odsregistry/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	issuer         auth.Issuer
	pingers        gs.Pingers
	publisher      events.Publisher
	userService    *services.UserService
	companyService *services.CompanyService
	closers        []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))
	gin.SetMode(c.GinMode)

	db, err := dbx.Open(ctx, c.DSN(), dbx.PoolOptions{MaxConns: c.DBMaxConns, ConnectTimeout: c.DBConnectTimeout})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}
	app.closers = append(app.closers, db.Close)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	issuer, closeIssuer, pingers, err := newIssuer(ctx, c)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("auth init error: %w", err)
	}
	app.issuer = issuer
	app.closers = append(app.closers, closeIssuer)
	app.pingers = append(gs.Pingers{db}, pingers...)

	app.publisher = newPublisher(ctx, c, logger)
	app.closers = append(app.closers, app.publisher.Close)

	app.userService = services.NewUserService(db, rm, c)
	app.companyService = services.NewCompanyService(db, rm, c, app.publisher, logger.With("module", "company_service"))

	return app, nil
}

// newIssuer builds the proof issuer for the configured strategy. It
// returns a closer for whatever backing store it opened and the pingers
// the health service should watch besides the database.
func newIssuer(ctx context.Context, c *config.Config) (auth.Issuer, func() error, []gs.Pinger, error) {
	noop := func() error { return nil }
	secret := []byte(c.SecretKey)

	switch c.AuthStrategy {
	case config.AuthStrategyJWT:
		return auth.NewJWTIssuer(secret, c.TokenValidityDuration), noop, nil, nil
	case config.AuthStrategySession:
		switch c.SessionStore {
		case config.SessionStoreCookie:
			store := auth.NewCookieSessionStore(secret)
			return auth.NewSessionIssuer(store, c.TokenValidityDuration, c.CookieSecure), noop, nil, nil
		case config.SessionStoreRedis:
			rdb, err := auth.NewRedisClient(ctx, c.RedisURL)
			if err != nil {
				return nil, nil, nil, err
			}
			store, closePool, err := auth.NewRedisSessionStore(c.RedisURL, secret)
			if err != nil {
				_ = rdb.Close()
				return nil, nil, nil, err
			}
			closeAll := func() error { return errors.Join(closePool(), rdb.Close()) }
			iss := auth.NewSessionIssuer(store, c.TokenValidityDuration, c.CookieSecure)
			return iss, closeAll, []gs.Pinger{auth.RedisPinger{Client: rdb}}, nil
		}
		return nil, nil, nil, fmt.Errorf("unknown session store %q", c.SessionStore)
	}
	return nil, nil, nil, fmt.Errorf("unknown auth strategy %q", c.AuthStrategy)
}

// newPublisher connects to the broker when one is configured. A broker
// that cannot be reached disables events instead of failing startup.
func newPublisher(ctx context.Context, c *config.Config, logger logging.Logger) events.Publisher {
	if c.RabbitURI == "" {
		return events.NopPublisher{}
	}
	pub, err := events.NewAMQPPublisher(c.RabbitURI, c.RabbitQueue)
	if err != nil {
		logger.Warn(ctx, "rabbitmq unavailable, company events disabled", "error", err)
		return events.NopPublisher{}
	}
	return pub
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.HTTPAddr(), app.logger, app.userService, app.companyService, app.issuer, rest.Options{
		RegisterRequiresAuth: app.config.RegisterRequiresAuth,
		AllowedOrigins:       app.config.CORSAllowedOrigins,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.pingers)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i]())
	}
	return errors.Join(errs...)
}

// Run serves until a signal arrives or either server fails, then releases
// every resource NewApp acquired.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.close(); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
