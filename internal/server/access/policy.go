// Package access decides, per request path and session, whether a request
// may proceed. It knows nothing about HTTP; the server adapts it into
// middleware.
package access

import (
	"strings"

	"github.com/dmitrijs2005/funrun/internal/server/models"
)

type Outcome string

const (
	Allow         Outcome = "allow"
	RedirectLogin Outcome = "redirect_login"
	RedirectHome  Outcome = "redirect_home"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decision is the terminal result of evaluating one request.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Section restricts every path starting with Prefix to the listed roles.
// Admin passes every section regardless of Roles.
type Section struct {
	Prefix string
	Roles  []models.Role
}

// Policy holds the public allow-list and the role-restricted sections.
type Policy struct {
	publicExact    []string
	publicPrefixes []string
	publicContains []string
	publicSuffixes []string
	sections       []Section
}

// DefaultSections is the role capability table.
var DefaultSections = []Section{
	{Prefix: "/admin", Roles: []models.Role{models.RoleAdmin}},
	{Prefix: "/runner", Roles: []models.Role{models.RoleRunner}},
	{Prefix: "/marshal", Roles: []models.Role{models.RoleMarshal}},
}

func NewPolicy() *Policy {
	return &Policy{
		publicExact: []string{
			"/", "/login", "/register", "/forgot-password", "/reset-password", "/healthz",
		},
		publicPrefixes: []string{"/api", "/assets/"},
		publicContains: []string{"_next", "favicon.ico"},
		publicSuffixes: []string{".jpg", ".png", ".svg"},
		sections:       DefaultSections,
	}
}

// IsPublic reports whether path is reachable without a session.
func (p *Policy) IsPublic(path string) bool {
	for _, s := range p.publicExact {
		if path == s {
			return true
		}
	}
	for _, s := range p.publicPrefixes {
		if strings.HasPrefix(path, s) {
			return true
		}
	}
	for _, s := range p.publicContains {
		if strings.Contains(path, s) {
			return true
		}
	}
	for _, s := range p.publicSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// Permits reports whether role may enter path. Paths outside every section
// are open to any valid role.
func (p *Policy) Permits(path string, role models.Role) bool {
	if !role.Valid() {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	for _, s := range p.sections {
		if !strings.HasPrefix(path, s.Prefix) {
			continue
		}
		for _, r := range s.Roles {
			if r == role {
				return true
			}
		}
		return false
	}
	return true
}

// Evaluate runs classify, authenticate and authorize in that order. session
// is only called for non-public paths; it returns the verified role, or
// false when there is no usable session.
func (p *Policy) Evaluate(path string, session func() (models.Role, bool)) Decision {
	if p.IsPublic(path) {
		return Decision{Outcome: Allow}
	}

	role, ok := session()
	if !ok {
		return Decision{Outcome: RedirectLogin, Location: LoginPath}
	}

	if !p.Permits(path, role) {
		return Decision{Outcome: RedirectHome, Location: HomePath}
	}

	return Decision{Outcome: Allow}
}
