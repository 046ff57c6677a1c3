// Package httpserver exposes the funrun JSON API and protected pages over
// gin, with the access gate applied to every request.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/funrun/internal/logging"
	"github.com/dmitrijs2005/funrun/internal/server/access"
	"github.com/dmitrijs2005/funrun/internal/server/auth"
	"github.com/dmitrijs2005/funrun/internal/server/models"
	"github.com/dmitrijs2005/funrun/internal/server/observability"
	"github.com/dmitrijs2005/funrun/internal/server/services"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*services.Session, error)
	ParseSession(token string) (*auth.SessionClaims, error)
	RegisterUser(ctx context.Context, in services.Registration) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	IssuePasswordResetToken(ctx context.Context, email string) error
	VerifyPasswordResetToken(ctx context.Context, email, token string) error
	ResetPassword(ctx context.Context, email, token, newPassword string) error
	CurrentUser(ctx context.Context, id string) (*models.User, error)
}

type CollectionService interface {
	List(ctx context.Context, name string, page, limit int) (*services.Page, error)
	Counts(ctx context.Context) ([]services.CollectionCount, error)
}

type Options struct {
	Address         string
	SecureCookies   bool
	SessionValidity time.Duration
	AssetsDir       string
}

type Server struct {
	opts        Options
	auth        AuthService
	collections CollectionService
	policy      *access.Policy
	metrics     *observability.Metrics
	logger      logging.Logger
}

func NewServer(opts Options, as AuthService, cs CollectionService, m *observability.Metrics, l logging.Logger) *Server {
	return &Server{
		opts:        opts,
		auth:        as,
		collections: cs,
		policy:      access.NewPolicy(),
		metrics:     m,
		logger:      l.With("module", "http_server"),
	}
}

// Handler builds the router. Middleware order: recovery, observation, gate.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(s.recovery, s.observe, s.gate)

	r.GET("/", s.home)
	r.GET("/healthz", s.healthz)

	api := r.Group("/api")
	{
		a := api.Group("/auth")
		a.POST("/register", s.register)
		a.POST("/check-email", s.checkEmail)
		a.POST("/forgot-password", s.forgotPassword)
		a.POST("/verify-reset-token", s.verifyResetToken)
		a.POST("/reset-password", s.resetPassword)
		a.POST("/login", s.login)
		a.POST("/logout", s.logout)
		a.GET("/session", s.sessionInfo)

		api.GET("/collections/:name", s.listCollection)
		api.POST("/collections/:name", s.listCollection)
	}

	r.GET("/dashboard", s.dashboard)
	r.GET("/profile", s.profile)
	r.GET("/admin", s.adminPage)
	r.GET("/runner", s.runnerPage)
	r.GET("/marshal", s.marshalPage)

	if s.opts.AssetsDir != "" {
		r.Static("/assets", s.opts.AssetsDir)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
