package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gauchoracing/aamctl/internal/auth"
)

// RouteOf returns the route of cmd: its command path below the root as a
// path, plus the local flags the user set as the query.
// `aamctl launch --print` is /launch?print=true.
func RouteOf(cmd *cobra.Command) string {
	names := strings.Fields(cmd.CommandPath())
	route := "/" + strings.Join(names[1:], "/")

	q := url.Values{}
	cmd.LocalFlags().Visit(func(f *pflag.Flag) {
		q.Set(f.Name, f.Value.String())
	})
	if len(q) > 0 {
		route += "?" + q.Encode()
	}
	return route
}

// ArgsForRoute turns a route back into command line arguments.
func ArgsForRoute(route string) ([]string, error) {
	u, err := url.Parse(route)
	if err != nil {
		return nil, fmt.Errorf("invalid route %q: %w", route, err)
	}
	if !strings.HasPrefix(u.Path, "/") || u.Host != "" {
		return nil, fmt.Errorf("invalid route %q: must be an absolute path", route)
	}

	var args []string
	if p := strings.Trim(u.Path, "/"); p != "" {
		args = strings.Split(p, "/")
	}

	q := u.Query()
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, val := range q[k] {
			args = append(args, "--"+k+"="+val)
		}
	}
	return args, nil
}

// normalizeReturnRoute accepts either a return route or a full login target
// (/auth/login?route=...) and returns the return route.
func normalizeReturnRoute(route, loginRoute string) (string, error) {
	if loginRoute == "" {
		loginRoute = auth.DefaultLoginRoute
	}
	if route == loginRoute || strings.HasPrefix(route, loginRoute+"?") {
		return auth.ReturnRouteFrom(route)
	}
	return route, nil
}

// resume runs the command a route names, as if the user had typed it.
func resume(ctx context.Context, route string) error {
	if route == "" || route == auth.RootRoute {
		return nil
	}
	args, err := ArgsForRoute(route)
	if err != nil {
		return err
	}

	target, rest, err := rootCmd.Find(args)
	if err != nil {
		return fmt.Errorf("cannot resume %s: %w", route, err)
	}
	if target == rootCmd || target.RunE == nil {
		return fmt.Errorf("cannot resume %s: not a command", route)
	}
	if target.Name() == "login" {
		return errors.New("cannot resume the login route itself")
	}
	if err := target.ParseFlags(rest); err != nil {
		return fmt.Errorf("cannot resume %s: %w", route, err)
	}

	log.Debug("Resuming route", "route", route, "command", target.CommandPath())
	target.SetContext(ctx)
	return target.RunE(target, target.Flags().Args())
}
