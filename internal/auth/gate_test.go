package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauchoracing/aamctl/internal/nav"
)

func staticChecker(s Status) Checker {
	return CheckerFunc(func(context.Context) Status { return s })
}

func TestCheckAuthValid(t *testing.T) {
	g := NewGate(staticChecker(StatusValid))
	assert.Equal(t, nav.None(), g.CheckAuth(context.Background(), "/launch"))
}

func TestCheckAuthInvalidFromRoot(t *testing.T) {
	g := NewGate(staticChecker(StatusNoToken))
	intent := g.CheckAuth(context.Background(), "/")

	assert.Equal(t, nav.KindLogin, intent.Kind)
	assert.Empty(t, intent.ReturnRoute)
	assert.Equal(t, "/auth/login", LoginTarget(DefaultLoginRoute, intent.ReturnRoute))
}

func TestCheckAuthInvalidPreservesRoute(t *testing.T) {
	for _, s := range []Status{StatusNoToken, StatusRejected, StatusUnreachable, Status(42)} {
		t.Run(s.String(), func(t *testing.T) {
			g := NewGate(staticChecker(s))
			intent := g.CheckAuth(context.Background(), "/launch?region=us-east-1")
			assert.Equal(t, nav.Login("/launch?region=us-east-1"), intent)
		})
	}
}

func TestLoginTargetRoundTrip(t *testing.T) {
	routes := []string{
		"/launch",
		"/launch?region=us-east-1",
		"/aws/launch?a=1&b=two words",
		"/x?next=%2Fy%3Fz%3D1",
		"/unicode/ß?q=é&r=&",
		"/launch?route=/nested?x=1",
	}
	for _, route := range routes {
		t.Run(route, func(t *testing.T) {
			target := LoginTarget(DefaultLoginRoute, route)
			assert.Contains(t, target, DefaultLoginRoute+"?"+ReturnParam+"=")

			got, err := ReturnRouteFrom(target)
			require.NoError(t, err)
			assert.Equal(t, route, got)
		})
	}
}

func TestLoginTargetWithoutReturnRoute(t *testing.T) {
	assert.Equal(t, "/auth/login", LoginTarget("", ""))
	assert.Equal(t, "/signin", LoginTarget("/signin", ""))

	got, err := ReturnRouteFrom("/auth/login")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStatusString(t *testing.T) {
	assert.True(t, StatusValid.Valid())
	assert.False(t, StatusRejected.Valid())
	assert.Equal(t, "invalid", Status(9).String())
}
