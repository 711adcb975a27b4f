// Package nav describes where the client should go next and carries out the
// move. Data-fetching code returns an Intent; only the Executor navigates.
package nav

import "fmt"

// Kind is the kind of navigation an Intent asks for.
type Kind int

const (
	KindNone Kind = iota
	KindLogin
	KindExternal
)

// Intent is a navigation decision. The zero value means "stay".
type Intent struct {
	Kind Kind
	// ReturnRoute is the route to resume after login. Empty means the
	// default landing route.
	ReturnRoute string
	// URL is the external destination. It is passed through untouched.
	URL string
}

// None is the intent to stay put.
func None() Intent { return Intent{} }

// Login is the intent to go to the login entry point, resuming returnRoute
// afterwards.
func Login(returnRoute string) Intent {
	return Intent{Kind: KindLogin, ReturnRoute: returnRoute}
}

// External is the intent to leave for an external URL.
func External(url string) Intent {
	return Intent{Kind: KindExternal, URL: url}
}

func (i Intent) IsNone() bool { return i.Kind == KindNone }

func (i Intent) String() string {
	switch i.Kind {
	case KindLogin:
		if i.ReturnRoute == "" {
			return "login"
		}
		return fmt.Sprintf("login(%s)", i.ReturnRoute)
	case KindExternal:
		return fmt.Sprintf("external(%s)", i.URL)
	default:
		return "none"
	}
}
