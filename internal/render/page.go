package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// Messages shown on the public page.
const (
	MessageNotFound     = "Form not found or failed to load."
	MessageInactive     = "This form is no longer accepting responses"
	MessageSubmitFailed = "Failed to submit feedback. Please try again."
	MessageThankYou     = "Thank you! Your feedback has been submitted."
	ActionSubmitAnother = "Submit Another Response"
)

// PageState selects what the public page shows.
type PageState int

const (
	StateForm PageState = iota
	StateNotFound
	StateInactive
	StateThankYou
)

// Page is the view model of the public form page.
type Page struct {
	State    PageState
	Form     *domain.FeedbackForm
	Controls []Control
	Errors   []string
	Notice   string
	Action   string
}

// CanSubmit reports whether the page offers a submit control.
func (p Page) CanSubmit() bool {
	return p.State == StateForm
}

// NewFormPage builds the page for an active form, optionally pre-filled.
func NewFormPage(form *domain.FeedbackForm, values domain.Responses, errs []string) Page {
	if form == nil {
		return Page{State: StateNotFound, Notice: MessageNotFound}
	}
	if !form.IsActive {
		return Page{State: StateInactive, Form: form, Notice: MessageInactive}
	}
	return Page{State: StateForm, Form: form, Controls: Controls(*form, values), Errors: errs}
}

//go:embed templates/form.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("form.html").Funcs(template.FuncMap{
	"isState": func(p Page, s string) bool {
		switch s {
		case "form":
			return p.State == StateForm
		case "notFound":
			return p.State == StateNotFound
		case "inactive":
			return p.State == StateInactive
		case "thankYou":
			return p.State == StateThankYou
		}
		return false
	},
}).ParseFS(templateFS, "templates/form.html"))

// Write renders page as HTML.
func Write(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}
