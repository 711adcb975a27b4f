package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauchoracing/aamctl/internal/auth"
	"github.com/gauchoracing/aamctl/internal/config"
	"github.com/gauchoracing/aamctl/internal/exchange"
	"github.com/gauchoracing/aamctl/internal/nav"
)

const consoleURL = "https://signin.aws.amazon.com/federation?Action=login"

// fakeAAM is an AAM backend that accepts one identity token.
type fakeAAM struct {
	iamStatus int
	iamBody   string

	userCalls atomic.Int32
	iamCalls  atomic.Int32
}

func (b *fakeAAM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	authorized := r.Header.Get("Authorization") == "Bearer id-token"
	switch r.URL.Path {
	case "/ping":
		fmt.Fprint(w, `{"message":"AAM v1.0.0 is online!"}`)
	case "/users/@me":
		b.userCalls.Add(1)
		if !authorized {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"you are not authorized to access this resource"}`)
			return
		}
		fmt.Fprint(w, `{"id":"u1","username":"bharat","email":"a@b.c"}`)
	case "/iam/login":
		b.iamCalls.Add(1)
		w.WriteHeader(b.iamStatus)
		fmt.Fprint(w, b.iamBody)
	default:
		http.NotFound(w, r)
	}
}

// setupCLI points the command globals at be with an in-process token store,
// no terminal and a recording browser. It returns the URLs opened.
func setupCLI(t *testing.T, be *fakeAAM) *[]string {
	t.Helper()
	srv := httptest.NewServer(be)
	t.Cleanup(srv.Close)

	tv := viper.New()
	config.SetDefaults(tv)
	c := config.Load(tv)
	c.BackendURL = srv.URL
	c.StorageBackend = "memory"
	c.HTTPTimeout = 5 * time.Second

	var opened []string
	prevCfg, prevSession, prevStdin, prevTerminal, prevOpen := cfg, session, stdin, isTerminal, openURL
	cfg, session, stdin = c, nil, strings.NewReader("")
	isTerminal = func(*os.File) bool { return false }
	openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	launchNoOpen, launchPrint, launchExport = false, false, false
	t.Cleanup(func() {
		cfg, session, stdin, isTerminal, openURL = prevCfg, prevSession, prevStdin, prevTerminal, prevOpen
	})
	return &opened
}

func okCredentials() *fakeAAM {
	return &fakeAAM{
		iamStatus: http.StatusOK,
		iamBody: `{"access_key_id":"ASIAEXAMPLE","secret_access_key":"secret","session_token":"session",` +
			`"expiration":"2030-01-02T03:04:05+00:00","assumed_role_arn":"arn:aws:sts::123:assumed-role/SentinelMember/a@b.c",` +
			`"login_url":"` + consoleURL + `"}`,
	}
}

func TestLaunchSignsInAndResumes(t *testing.T) {
	be := okCredentials()
	opened := setupCLI(t, be)
	stdin = strings.NewReader("id-token\n")

	require.NoError(t, runLaunch(context.Background(), "/launch"))

	assert.EqualValues(t, 1, be.iamCalls.Load(), "one exchange after signing in")
	assert.EqualValues(t, 2, be.userCalls.Load(), "checked on login and again on resume")
	assert.Equal(t, []string{consoleURL}, *opened)

	sess, err := currentSession()
	require.NoError(t, err)
	token, ok, err := sess.Token()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "id-token", token)
}

func TestLoginResumesRouteWithMemoryStore(t *testing.T) {
	be := okCredentials()
	opened := setupCLI(t, be)

	require.NoError(t, runLogin(context.Background(), "/auth/login?route=%2Flaunch", "id-token"))

	assert.EqualValues(t, 1, be.iamCalls.Load())
	assert.Equal(t, []string{consoleURL}, *opened)
}

func TestLoginRejectedTokenIsDropped(t *testing.T) {
	be := okCredentials()
	setupCLI(t, be)

	err := runLogin(context.Background(), "/launch", "stolen-token")
	assert.EqualError(t, err, "the backend rejected this identity token")
	assert.Zero(t, be.iamCalls.Load(), "no resume after a rejected login")

	sess, err := currentSession()
	require.NoError(t, err)
	_, ok, err := sess.Token()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginWithoutTokenFails(t *testing.T) {
	setupCLI(t, okCredentials())

	err := runLogin(context.Background(), "", "")
	assert.ErrorContains(t, err, "no identity token given")
}

func TestLaunchHeadlessRejected(t *testing.T) {
	be := &fakeAAM{iamStatus: http.StatusForbidden, iamBody: "forbidden"}
	opened := setupCLI(t, be)

	sess, err := currentSession()
	require.NoError(t, err)
	require.NoError(t, sess.SetToken("id-token"))

	err = runLaunch(context.Background(), "/launch")
	assert.EqualError(t, err, "credential exchange failed: forbidden")
	assert.EqualValues(t, 1, be.iamCalls.Load())
	assert.Empty(t, *opened)
}

func TestLaunchHeadlessWithoutToken(t *testing.T) {
	be := okCredentials()
	opened := setupCLI(t, be)

	sess, err := currentSession()
	require.NoError(t, err)
	client := newBackend()
	gate := auth.NewGate(&auth.BackendChecker{Session: sess, Users: client})

	var intents []nav.Intent
	exitNav := nav.ExecutorFunc(func(_ context.Context, intent nav.Intent) error {
		intents = append(intents, intent)
		return nil
	})

	require.NoError(t, launchHeadless(context.Background(), "/launch?print=true", gate, exchange.NewClient(sess, client), client, exitNav))

	assert.Equal(t, []nav.Intent{nav.Login("/launch?print=true")}, intents)
	assert.Zero(t, be.iamCalls.Load())
	assert.Zero(t, be.userCalls.Load(), "no token means no validity request")
	assert.Empty(t, *opened)
}

func TestCurrentSessionIsShared(t *testing.T) {
	setupCLI(t, okCredentials())

	first, err := currentSession()
	require.NoError(t, err)
	require.NoError(t, first.SetToken("id-token"))

	second, err := currentSession()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLogoColorEndpoints(t *testing.T) {
	assert.Equal(t, "#ffc400", string(logoColor(0)))
	assert.Equal(t, "#be1e78", string(logoColor(1)))
}
