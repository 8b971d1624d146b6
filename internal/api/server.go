package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/trustedlogin/go-vendor/internal/auth"
	"github.com/trustedlogin/go-vendor/internal/config"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/audit"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/helpdesk"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/keystore"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/license"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/redirect"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/storage"

	// Import postgres driver for database/sql package
	_ "github.com/lib/pq"
)

type Router struct {
	Routes []*echo.Route

	Root           *echo.Group
	Management     *echo.Group
	APIV1Support   *echo.Group
	APIV1Webhook   *echo.Group
	APIV1Keys      *echo.Group
	APIV1Audit     *echo.Group
	APIV1Settings  *echo.Group
	TrustedLoginV1 *echo.Group
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config config.Server
	DB     *sql.DB
	Clock  time2.Clock
	Auth   *auth.Service

	// vendor services
	Store           storage.Store
	KeyStore        keystore.Service
	AuditLogger     audit.Logger
	RedirectService redirect.Service
	Helpdesks       *helpdesk.Registry
	LicenseService  license.Service
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	db *sql.DB,
	clock time2.Clock,
	authService *auth.Service,
	store storage.Store,
	keyStore keystore.Service,
	auditLogger audit.Logger,
	redirectService redirect.Service,
	helpdesks *helpdesk.Registry,
	licenseService license.Service,
) *Server {
	return &Server{
		Config:          cfg,
		DB:              db,
		Clock:           clock,
		Auth:            authService,
		Store:           store,
		KeyStore:        keyStore,
		AuditLogger:     auditLogger,
		RedirectService: redirectService,
		Helpdesks:       helpdesks,
		LicenseService:  licenseService,
	}
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

func (s *Server) Ready() bool {
	if s.Echo == nil || s.Router == nil {
		log.Debug().Msg("Server router is not initialized")
		return false
	}

	if s.DB == nil ||
		s.Clock == nil ||
		s.Auth == nil ||
		s.Store == nil ||
		s.KeyStore == nil ||
		s.AuditLogger == nil ||
		s.RedirectService == nil ||
		s.Helpdesks == nil ||
		s.LicenseService == nil {
		log.Debug().Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.DB != nil {
		log.Debug().Msg("Closing database connection")

		if err := s.DB.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Error().Err(err).Msg("Failed to close database connection")
			errs = append(errs, err)
		}
	}

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	return errs
}
