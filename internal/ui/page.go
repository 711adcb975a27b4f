package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/gauchoracing/aamctl/internal"
	"github.com/gauchoracing/aamctl/internal/auth"
	"github.com/gauchoracing/aamctl/internal/backend"
	"github.com/gauchoracing/aamctl/internal/clipboard"
	"github.com/gauchoracing/aamctl/internal/exchange"
	"github.com/gauchoracing/aamctl/internal/nav"
	"github.com/gauchoracing/aamctl/internal/notify"
)

// toastDuration is how long a notification stays on screen.
const toastDuration = 3 * time.Second

// Credential field labels. They double as clipboard field keys.
const (
	FieldAccessKeyID     = "Access Key ID"
	FieldSecretAccessKey = "Secret Access Key"
	FieldSessionToken    = "Session Token"
)

// Pinger is the backend liveness probe.
type Pinger interface {
	Ping(ctx context.Context) (string, error)
}

// PageDeps are the collaborators of the launch page.
type PageDeps struct {
	Session   *internal.Session
	Gate      *auth.Gate
	Exchange  *exchange.Client
	Pinger    Pinger
	Navigator nav.Executor
	// Route is the path and query of the page, used as return route.
	Route string

	// Clipboard options, for tests.
	ClipboardOptions []clipboard.Option
}

// PageResult is what the page leaves behind once it closes.
type PageResult struct {
	// Exit is the navigation to perform after the page closed.
	Exit        nav.Intent
	Credentials *backend.IamCredentialSet
	Error       string
}

type (
	authCheckedMsg struct{ intent nav.Intent }
	pingMsg        struct {
		message string
		err     error
	}
	credentialsMsg struct {
		state  exchange.State
		intent nav.Intent
		err    error
	}
	navigatedMsg     struct{ err error }
	copiedFieldMsg   struct{ active string }
	notificationMsg  notify.Notification
	clearToastMsg    struct{ seq int }
	copyFinishedMsg  struct{}
)

// Page is the launch view: it gates on authentication, exchanges the
// identity token for IAM credentials, hands off to the console and shows the
// credentials while the browser opens.
type Page struct {
	deps   PageDeps
	ctx    context.Context
	cancel context.CancelFunc

	spinner  spinner.Model
	state    exchange.State
	liveness string
	copied   string
	toast    *notify.Notification
	toastSeq int

	clip   *clipboard.Controller
	events chan tea.Msg

	exit     nav.Intent
	quitting bool
	width    int
}

// NewPage builds the page. Cancelling ctx tears the page down and discards
// any in-flight exchange.
func NewPage(ctx context.Context, deps PageDeps) *Page {
	ctx, cancel := context.WithCancel(ctx)
	m := &Page{
		deps:    deps,
		ctx:     ctx,
		cancel:  cancel,
		spinner: newSpinner(),
		state:   exchange.State{Loading: true},
		events:  make(chan tea.Msg, 16),
	}

	opts := []clipboard.Option{
		clipboard.WithNotifier(notify.Func(func(n notify.Notification) { m.send(notificationMsg(n)) })),
		clipboard.WithOnChange(func(active string) { m.send(copiedFieldMsg{active: active}) }),
	}
	m.clip = clipboard.New(append(opts, deps.ClipboardOptions...)...)
	return m
}

// send queues a message from a background callback. It gives up once the
// page is torn down.
func (m *Page) send(msg tea.Msg) {
	select {
	case m.events <- msg:
	case <-m.ctx.Done():
	}
}

func (m *Page) waitForEvent() tea.Msg {
	select {
	case msg := <-m.events:
		return msg
	case <-m.ctx.Done():
		return nil
	}
}

// Result returns the outcome once the page has closed.
func (m *Page) Result() PageResult {
	return PageResult{
		Exit:        m.exit,
		Credentials: m.state.Credentials,
		Error:       m.state.Error,
	}
}

// Init starts the auth check and the liveness probe together.
func (m *Page) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.checkAuth, m.ping, m.waitForEvent)
}

func (m *Page) checkAuth() tea.Msg {
	return authCheckedMsg{intent: m.deps.Gate.CheckAuth(m.ctx, m.deps.Route)}
}

func (m *Page) ping() tea.Msg {
	if m.deps.Pinger == nil {
		return nil
	}
	msg, err := m.deps.Pinger.Ping(m.ctx)
	return pingMsg{message: msg, err: err}
}

func (m *Page) fetchCredentials() tea.Msg {
	st, intent, err := m.deps.Exchange.FetchCredentials(m.ctx)
	return credentialsMsg{state: st, intent: intent, err: err}
}

func (m *Page) navigate(intent nav.Intent) tea.Cmd {
	return func() tea.Msg {
		return navigatedMsg{err: m.deps.Navigator.Navigate(m.ctx, intent)}
	}
}

func (m *Page) copy(value, field string) tea.Cmd {
	return func() tea.Msg {
		m.clip.Copy(value, field)
		return copyFinishedMsg{}
	}
}

func (m *Page) quit(intent nav.Intent) (tea.Model, tea.Cmd) {
	m.exit = intent
	m.quitting = true
	m.clip.Close()
	m.cancel()
	return m, tea.Quit
}

func (m *Page) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case authCheckedMsg:
		if !msg.intent.IsNone() {
			return m.quit(msg.intent)
		}
		return m, m.fetchCredentials

	case credentialsMsg:
		if errors.Is(msg.err, exchange.ErrDiscarded) || errors.Is(msg.err, exchange.ErrInFlight) {
			return m, nil
		}
		m.state = msg.state
		switch msg.intent.Kind {
		case nav.KindLogin:
			return m.quit(msg.intent)
		case nav.KindExternal:
			return m, m.navigate(msg.intent)
		}
		return m, nil

	case navigatedMsg:
		if msg.err != nil {
			log.Warn("Console hand-off failed", "error", msg.err)
			return m, m.showToast(notify.Notification{Kind: notify.KindError, Message: "Failed to open the console: " + msg.err.Error()})
		}
		return m, nil

	case pingMsg:
		if msg.err != nil {
			return m, m.showToast(notify.Notification{Kind: notify.KindError, Message: backend.ErrorMessage(msg.err)})
		}
		m.liveness = msg.message
		return m, nil

	case copiedFieldMsg:
		m.copied = msg.active
		return m, m.waitForEvent

	case notificationMsg:
		return m, tea.Batch(m.showToast(notify.Notification(msg)), m.waitForEvent)

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil
	}
	return m, nil
}

func (m *Page) showToast(n notify.Notification) tea.Cmd {
	m.toastSeq++
	seq := m.toastSeq
	m.toast = &n
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} })
}

func (m *Page) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m.quit(nav.None())
	}

	switch {
	case m.state.Ready():
		creds := m.state.Credentials
		switch msg.String() {
		case "1":
			return m, m.copy(creds.AccessKeyID, FieldAccessKeyID)
		case "2":
			return m, m.copy(creds.SecretAccessKey, FieldSecretAccessKey)
		case "3":
			return m, m.copy(creds.SessionToken, FieldSessionToken)
		case "o", "enter":
			if creds.LoginURL != "" {
				return m, m.navigate(nav.External(creds.LoginURL))
			}
		}

	case !m.state.Loading && m.state.Error != "":
		if msg.String() == "r" || msg.String() == "enter" {
			if err := m.deps.Session.Invalidate(); err != nil {
				log.Warn("Logout failed", "error", err)
			}
			return m.quit(nav.Login(m.deps.Route))
		}
	}
	return m, nil
}

func (m *Page) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch {
	case m.state.Loading:
		body = m.loadingView()
	case m.state.Error == "":
		body = m.readyView()
	default:
		body = m.errorView()
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if m.toast != nil {
		style := toastOKStyle
		if m.toast.Kind == notify.KindError {
			style = toastErrStyle
		}
		b.WriteString(style.Render(m.toast.Message))
		b.WriteString("\n")
	}
	if m.liveness != "" {
		b.WriteString(footerStyle.Render(m.liveness))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Page) cardWidth() int {
	if m.width > 0 && m.width < 90 {
		return m.width - 2
	}
	return 88
}

func (m *Page) loadingView() string {
	return cardStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), valueStyle.Render("Initializing your IAM session...")))
}

func (m *Page) errorView() string {
	lines := []string{
		titleStyle.Render("AWS Federation Error"),
		"",
		"Something went wrong when trying to initialize your IAM session.",
		"",
		errorStyle.Render(m.state.Error),
		"",
		helpLine("r", "sign on again", "q", "quit"),
	}
	return errorCardStyle.Width(m.cardWidth()).Render(strings.Join(lines, "\n"))
}

func (m *Page) readyView() string {
	creds := m.state.Credentials
	if creds == nil {
		creds = &backend.IamCredentialSet{}
	}
	valueWidth := m.cardWidth() - 6

	lines := []string{
		titleStyle.Render("AWS IAM Session Credentials"),
		"",
		"Your session is now ready. The AWS console is opening in your browser.",
		"",
		m.fieldView("1", FieldAccessKeyID, creds.AccessKeyID, valueWidth),
		m.fieldView("2", FieldSecretAccessKey, creds.SecretAccessKey, valueWidth),
		m.fieldView("3", FieldSessionToken, creds.SessionToken, valueWidth),
		labelStyle.Render("Expiration"),
		valueStyle.Render(internal.FormatLocal(creds.Expiration)) + " " +
			mutedStyle.Render("("+internal.FormatRemaining(creds.Expiration, time.Now())+")"),
		"",
		labelStyle.Render("Role ARN"),
		valueStyle.Width(valueWidth).Render(creds.AssumedRoleArn),
		"",
		helpLine("1/2/3", "copy", "o", "launch console", "q", "quit"),
	}
	return cardStyle.Width(m.cardWidth()).Render(strings.Join(lines, "\n"))
}

func (m *Page) fieldView(key, label, value string, width int) string {
	marker := mutedStyle.Render("[" + key + "] copy")
	if m.copied == label {
		marker = copiedStyle.Render("✓ copied")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(label)+"  "+marker,
		valueStyle.Width(width).Render(value),
		"",
	)
}

func helpLine(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, keyStyle.Render(pairs[i])+" "+mutedStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, mutedStyle.Render(" • "))
}

// RunPage runs the launch page on stderr until the user quits or the page
// redirects to login.
func RunPage(ctx context.Context, deps PageDeps) (PageResult, error) {
	m := NewPage(ctx, deps)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return PageResult{}, err
	}
	return m.Result(), nil
}
