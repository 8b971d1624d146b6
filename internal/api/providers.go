package api

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/trustedlogin/go-vendor/internal/auth"
	"github.com/trustedlogin/go-vendor/internal/config"
	"github.com/trustedlogin/go-vendor/internal/persistence"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/audit"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/helpdesk"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/keystore"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/license"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/redirect"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/remote"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/storage"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirements for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if useMock {
		clock = time2.NewMockClock(time.Now())
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

func NewAuthService(cfg config.Server) (*auth.Service, error) {
	return auth.NewService(cfg)
}

func NewDB(cfg config.Server) (*sql.DB, error) {
	return persistence.NewDB(cfg.Database)
}

func NoTest() []*testing.T {
	return nil
}

// NewStore creates the settings/audit/license store.
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewStore(db *sql.DB) storage.Store {
	return storage.NewPostgreSQLStore(db)
}

// NewKeyStore creates the vendor key pair service.
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewKeyStore(store storage.Store) keystore.Service {
	return keystore.NewService(store)
}

// NewAuditLogger creates the activity audit logger.
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewAuditLogger(cfg config.Server, store storage.Store, clock time2.Clock) audit.Logger {
	return audit.NewLogger(store, clock, cfg.Auth.AdminRole)
}

// NewAccountVerifier creates the SaaS-facing client used to verify the vendor
// account and fetch the token set.
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewAccountVerifier(cfg config.Server) redirect.AccountVerifier {
	return remote.NewClient(
		remote.TargetSaaS,
		cfg.TrustedLogin.SaaSBaseURL,
		cfg.TrustedLogin.APIKey,
		remote.WithDebug(cfg.TrustedLogin.DebugEnabled),
		remote.WithHTTPClient(newRemoteHTTPClient(cfg)),
	)
}

func newRemoteHTTPClient(cfg config.Server) *http.Client {
	timeout := cfg.TrustedLogin.HTTPTimeout
	if timeout <= 0 {
		timeout = remote.DefaultTimeout
	}

	return &http.Client{Timeout: timeout}
}

// NewVaultClientFactory returns a factory making vault clients scoped to the
// read key of the current token set.
func NewVaultClientFactory(cfg config.Server) redirect.VaultClientFactory {
	return func(readKey string) redirect.VaultClient {
		return remote.NewClient(
			remote.TargetVault,
			cfg.TrustedLogin.VaultBaseURL,
			readKey,
			remote.WithDebug(cfg.TrustedLogin.DebugEnabled),
			remote.WithHTTPClient(newRemoteHTTPClient(cfg)),
		)
	}
}

// NewRedirectService creates the redirect orchestration service.
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewRedirectService(
	cfg config.Server,
	store storage.Store,
	keyStore keystore.Service,
	auditLogger audit.Logger,
	clock time2.Clock,
	saas redirect.AccountVerifier,
	vaultFor redirect.VaultClientFactory,
) redirect.Service {
	return redirect.NewService(cfg, store, keyStore, auditLogger, clock, saas, vaultFor)
}

// NewHelpdeskRegistry registers all helpdesk integrations and marks the
// configured provider as active.
func NewHelpdeskRegistry(cfg config.Server) *helpdesk.Registry {
	return helpdesk.NewRegistry(
		cfg.Helpdesk.Provider,
		helpdesk.NewHelpScout(cfg.Helpdesk.HelpScoutSecret, cfg.Helpdesk.LoginURL),
		helpdesk.NewIntercom(cfg.Helpdesk.IntercomSecret, cfg.Helpdesk.LoginURL),
	)
}

// NewLicenseService creates the license lookup service.
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewLicenseService(cfg config.Server, store storage.Store) license.Service {
	return license.NewService(store, cfg.Verify.AllowedTypes)
}
