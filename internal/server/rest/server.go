// Package rest exposes the registry over HTTP using gin.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/odsregistry/internal/common"
	"github.com/dmitrijs2005/odsregistry/internal/logging"
	"github.com/dmitrijs2005/odsregistry/internal/server/auth"
)

const shutdownTimeout = 5 * time.Second

// Options configures the router.
type Options struct {
	// RegisterRequiresAuth puts POST /register behind RequireAuth.
	RegisterRequiresAuth bool
	// AllowedOrigins lists CORS origins. Empty allows any origin without
	// credentials.
	AllowedOrigins []string
}

type Server struct {
	address string
	logger  logging.Logger
	router  *gin.Engine
}

func NewServer(address string, l logging.Logger, us UserService, cs CompanyService, issuer auth.Issuer, opts Options) *Server {
	logger := l.With("module", "rest_server")
	h := &handlers{users: us, companies: cs, issuer: issuer, log: logger}
	return &Server{
		address: address,
		logger:  logger,
		router:  newRouter(h, logger, opts),
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		common.AuthorizationHeaderName,
	}
	cfg.ExposeHeaders = []string{common.RequestIDHeaderName}
	return cfg
}

// sessionMounter is implemented by issuers that need per-request session
// loading ahead of the handlers.
type sessionMounter interface {
	Middleware() gin.HandlerFunc
}

func newRouter(h *handlers, logger logging.Logger, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), cors.New(corsConfig(opts.AllowedOrigins)))
	if m, ok := h.issuer.(sessionMounter); ok {
		router.Use(m.Middleware())
	}

	requireAuth := RequireAuth(h.issuer, logger)

	router.GET("/health", health)
	router.GET("/", OptionalAuth(h.issuer), h.whoami)

	if opts.RegisterRequiresAuth {
		router.POST("/register", requireAuth, h.register)
	} else {
		router.POST("/register", h.register)
	}
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)

	protected := router.Group("")
	protected.Use(requireAuth)
	{
		protected.POST("/register-company", h.registerCompany)
		protected.GET("/list-companies", h.listCompanies)
		protected.GET("/list-ods", h.listCategories)
	}

	return router
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve serves on lis until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(lis)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
