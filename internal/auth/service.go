package auth

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/config"
)

var ErrTokenUnknown = errors.New("unknown agent token")

// Service resolves bearer tokens to actors. Token-to-identity mapping is
// sourced from configuration; the actual authentication system (SSO, IdP) is
// an external collaborator that provisions these tokens.
type Service struct {
	actors map[string]*Actor
}

// NewService parses config.Auth.AgentTokens entries of the form
// "token=user:role1|role2" into the lookup table. Malformed entries are
// rejected so a typo never silently grants an empty role set.
func NewService(cfg config.Server) (*Service, error) {
	actors := make(map[string]*Actor, len(cfg.Auth.AgentTokens))

	for _, entry := range cfg.Auth.AgentTokens {
		token, spec, found := strings.Cut(entry, "=")
		if !found || token == "" {
			return nil, errors.Errorf("malformed agent token entry %q", entry)
		}

		user, roleSpec, found := strings.Cut(spec, ":")
		if !found || user == "" || roleSpec == "" {
			return nil, errors.Errorf("agent token entry for %q is missing user or roles", token)
		}

		roles := strings.Split(roleSpec, "|")
		actors[token] = &Actor{ID: user, Roles: roles}
	}

	return &Service{actors: actors}, nil
}

// Authenticate maps a bearer token to an actor.
func (s *Service) Authenticate(token string) (*Actor, error) {
	actor, ok := s.actors[token]
	if !ok {
		return nil, ErrTokenUnknown
	}

	return actor, nil
}
