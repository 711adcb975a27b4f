// Package auth decides whether the current session may proceed or must be
// sent to the login entry point first.
package auth

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/gauchoracing/aamctl/internal/nav"
)

// Status is the result of a credential validity check. Zero is valid; every
// other value is invalid.
type Status int

const (
	StatusValid Status = iota
	StatusNoToken
	StatusRejected
	StatusUnreachable
)

func (s Status) Valid() bool { return s == StatusValid }

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusNoToken:
		return "no-token"
	case StatusRejected:
		return "rejected"
	case StatusUnreachable:
		return "unreachable"
	default:
		return "invalid"
	}
}

// RootRoute is the default landing route. Redirects from it carry no return
// route.
const RootRoute = "/"

// Checker reports whether the held credentials are valid. It never fails:
// transport problems are folded into a non-zero Status.
type Checker interface {
	Check(ctx context.Context) Status
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) Status

func (f CheckerFunc) Check(ctx context.Context) Status { return f(ctx) }

// Gate guards a route behind the validity check.
type Gate struct {
	checker Checker
}

func NewGate(checker Checker) *Gate {
	return &Gate{checker: checker}
}

// CheckAuth runs the validity check for route, the path and query the caller
// is on. It returns nav.None when the caller may proceed, and otherwise a
// login intent that resumes route (or the default route when route is "/").
func (g *Gate) CheckAuth(ctx context.Context, route string) nav.Intent {
	currentRoute := route
	status := g.checker.Check(ctx)
	if status.Valid() {
		return nav.None()
	}

	log.Debug("Authentication required", "status", status, "route", currentRoute)
	if currentRoute == RootRoute {
		return nav.Login("")
	}
	return nav.Login(currentRoute)
}
