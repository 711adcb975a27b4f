package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree() (*cobra.Command, *cobra.Command) {
	root := &cobra.Command{Use: "aamctl"}
	launch := &cobra.Command{Use: "launch", RunE: func(*cobra.Command, []string) error { return nil }}
	launch.Flags().Bool("print", false, "")
	launch.Flags().Bool("no-open", false, "")
	root.AddCommand(launch)
	return root, launch
}

func TestRouteOf(t *testing.T) {
	_, launch := newTestTree()
	assert.Equal(t, "/launch", RouteOf(launch))

	require.NoError(t, launch.Flags().Set("print", "true"))
	assert.Equal(t, "/launch?print=true", RouteOf(launch))

	require.NoError(t, launch.Flags().Set("no-open", "true"))
	assert.Equal(t, "/launch?no-open=true&print=true", RouteOf(launch))
}

func TestRouteOfNestedCommand(t *testing.T) {
	assert.Equal(t, "/token/show", RouteOf(tokenShowCmd))
}

func TestArgsForRoute(t *testing.T) {
	tests := []struct {
		route string
		want  []string
	}{
		{"/", nil},
		{"/launch", []string{"launch"}},
		{"/launch?print=true", []string{"launch", "--print=true"}},
		{"/launch?print=true&export=true", []string{"launch", "--export=true", "--print=true"}},
		{"/token/show", []string{"token", "show"}},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			got, err := ArgsForRoute(tt.route)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgsForRouteRejectsNonPaths(t *testing.T) {
	for _, route := range []string{"launch", "https://evil.example/launch", "//evil.example/launch"} {
		_, err := ArgsForRoute(route)
		assert.Error(t, err, route)
	}
}

func TestRouteRoundTrip(t *testing.T) {
	root, launch := newTestTree()
	require.NoError(t, launch.Flags().Set("print", "true"))

	args, err := ArgsForRoute(RouteOf(launch))
	require.NoError(t, err)

	found, rest, err := root.Find(args)
	require.NoError(t, err)
	assert.Same(t, launch, found)
	assert.Equal(t, []string{"--print=true"}, rest)
}

func TestNormalizeReturnRoute(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/launch?print=true", "/launch?print=true"},
		{"/auth/login", ""},
		{"/auth/login?route=%2Flaunch%3Fprint%3Dtrue", "/launch?print=true"},
	}
	for _, tt := range tests {
		got, err := normalizeReturnRoute(tt.in, "/auth/login")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
