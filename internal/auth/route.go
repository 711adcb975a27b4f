package auth

import (
	"fmt"
	"net/url"
)

// DefaultLoginRoute is the login entry point.
const DefaultLoginRoute = "/auth/login"

// ReturnParam is the query parameter carrying the return route.
const ReturnParam = "route"

// LoginTarget builds the login redirect target for returnRoute. An empty
// return route yields the bare login route.
func LoginTarget(loginRoute, returnRoute string) string {
	if loginRoute == "" {
		loginRoute = DefaultLoginRoute
	}
	if returnRoute == "" {
		return loginRoute
	}
	return loginRoute + "?" + ReturnParam + "=" + url.QueryEscape(returnRoute)
}

// ReturnRouteFrom decodes the return route carried by a login target. It
// returns "" when the target carries none.
func ReturnRouteFrom(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid login target %q: %w", target, err)
	}
	return u.Query().Get(ReturnParam), nil
}
