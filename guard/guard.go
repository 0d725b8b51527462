// Package guard decides whether a navigation may proceed given the session's
// authentication state. Locations are slash-separated paths; the CLI maps each
// command path onto one ("users list" is "/users/list").
package guard

import (
	"sort"
	"strings"
)

// Access is the rule that applies to a location.
type Access int

const (
	// Public locations are reachable in any state.
	Public Access = iota
	// Protected locations require an authenticated session.
	Protected
	// LoginOnly locations are for anonymous sessions, e.g. the login screen.
	LoginOnly
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case LoginOnly:
		return "login-only"
	default:
		return "unknown"
	}
}

// Rule sets the access of Path and everything below it.
type Rule struct {
	Path   string
	Access Access
}

// Navigation is a request to move to Path. From is the location remembered by
// an earlier redirect to the login route, if any.
type Navigation struct {
	Path string
	From string
}

// Decision is the outcome of Check. When Allowed is false the caller should go
// to Redirect and carry From along so it can be used after login.
type Decision struct {
	Allowed  bool
	Redirect string
	From     string
}

// Guard decides whether a location may be entered in the current session.
type Guard struct {
	rules         []Rule
	loginRoute    string
	defaultRoute  string
	defaultAccess Access
}

type Option func(*Guard)

// WithDefaultAccess sets the access of locations no rule matches. Defaults to Protected.
func WithDefaultAccess(access Access) Option {
	return func(g *Guard) {
		g.defaultAccess = access
	}
}

// WithRules adds access rules. The login route is always LoginOnly.
func WithRules(rules ...Rule) Option {
	return func(g *Guard) {
		g.rules = append(g.rules, rules...)
	}
}

func New(loginRoute, defaultRoute string, options ...Option) *Guard {
	g := &Guard{
		loginRoute:    clean(loginRoute),
		defaultRoute:  clean(defaultRoute),
		defaultAccess: Protected,
	}
	for _, opt := range options {
		opt(g)
	}
	g.rules = append(g.rules, Rule{Path: g.loginRoute, Access: LoginOnly})
	for i := range g.rules {
		g.rules[i].Path = clean(g.rules[i].Path)
	}
	// Longest path first; later rules win over earlier ones for the same path.
	sort.SliceStable(g.rules, func(i, j int) bool {
		return len(g.rules[i].Path) > len(g.rules[j].Path)
	})
	return g
}

func (g *Guard) LoginRoute() string {
	return g.loginRoute
}

func (g *Guard) DefaultRoute() string {
	return g.defaultRoute
}

// Access returns the access of path: the rule with the longest matching path,
// or the default access.
func (g *Guard) Access(path string) Access {
	path = clean(path)
	matched, access := -1, g.defaultAccess
	for _, r := range g.rules {
		if len(r.Path) < matched {
			break
		}
		if covers(r.Path, path) {
			matched, access = len(r.Path), r.Access
		}
	}
	return access
}

// Check decides nav for a session that is (or is not) authenticated. It has no
// side effects and is meant to be consulted on every navigation.
func (g *Guard) Check(authenticated bool, nav Navigation) Decision {
	switch g.Access(nav.Path) {
	case Protected:
		if !authenticated {
			return Decision{Redirect: g.loginRoute, From: clean(nav.Path)}
		}
	case LoginOnly:
		if authenticated {
			return Decision{Redirect: g.AfterLogin(nav.From)}
		}
	}
	return Decision{Allowed: true, From: nav.From}
}

// AfterLogin returns where to go once a login succeeds: the remembered location,
// or the default route when nothing usable was remembered.
func (g *Guard) AfterLogin(from string) string {
	if strings.TrimSpace(from) == "" || g.Access(from) == LoginOnly {
		return g.defaultRoute
	}
	return clean(from)
}

func covers(prefix, path string) bool {
	if prefix == "/" || prefix == path {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

func clean(path string) string {
	return "/" + strings.Trim(strings.TrimSpace(path), "/")
}
