// Package route resolves browser paths to the view that should handle them.
package route

import (
	"regexp"
)

// Kind identifies a top-level view.
type Kind int

const (
	KindLogin Kind = iota
	KindDashboard
	KindPublicForm
)

func (k Kind) String() string {
	switch k {
	case KindDashboard:
		return "dashboard"
	case KindPublicForm:
		return "public-form"
	default:
		return "login"
	}
}

// Target is the outcome of resolving a path.
type Target struct {
	Kind   Kind
	FormID string
}

var formPath = regexp.MustCompile(`^/form/(.+)$`)

// FormID extracts the form id from a public form path. The match is greedy,
// so ids may contain '/'.
func FormID(path string) (string, bool) {
	m := formPath.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Resolve picks the view for path. Public form paths need no session; any
// other path shows the dashboard when authenticated and the login otherwise.
func Resolve(path string, authenticated bool) Target {
	if id, ok := FormID(path); ok {
		return Target{Kind: KindPublicForm, FormID: id}
	}
	if authenticated {
		return Target{Kind: KindDashboard}
	}
	return Target{Kind: KindLogin}
}
