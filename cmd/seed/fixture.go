package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

type fixtureField struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Type        string `yaml:"type"`
	Required    bool   `yaml:"required"`
	Placeholder string `yaml:"placeholder"`
}

type fixtureForm struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Active      *bool          `yaml:"isActive"`
	Fields      []fixtureField `yaml:"fields"`
}

type fixture struct {
	Forms []fixtureForm `yaml:"forms"`
}

func loadFixture(path string) (fixture, error) {
	if strings.TrimSpace(path) == "" {
		return sampleFixture(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(fx.Forms) == 0 {
		return fixture{}, fmt.Errorf("fixture %s has no forms", path)
	}
	return fx, nil
}

// buildForms converts fixture entries to validated domain forms authored by
// createdBy.
func (fx fixture) buildForms(createdBy string, now time.Time) ([]domain.FeedbackForm, error) {
	forms := make([]domain.FeedbackForm, 0, len(fx.Forms))
	for i, f := range fx.Forms {
		fields := domain.DefaultFields()
		if len(f.Fields) > 0 {
			fields = make([]domain.FormField, 0, len(f.Fields))
			for _, field := range f.Fields {
				fields = append(fields, domain.FormField{
					ID:          field.ID,
					Label:       field.Label,
					Type:        domain.FieldType(field.Type),
					Required:    field.Required,
					Placeholder: field.Placeholder,
				})
			}
		}
		active := true
		if f.Active != nil {
			active = *f.Active
		}
		form := domain.FeedbackForm{
			Title:       strings.TrimSpace(f.Title),
			Description: strings.TrimSpace(f.Description),
			CreatedBy:   createdBy,
			CreatedAt:   now.Add(-time.Duration(len(fx.Forms)-i) * time.Hour).UTC(),
			IsActive:    active,
			Fields:      domain.AssignFieldIDs(fields),
		}
		if err := form.Validate(); err != nil {
			return nil, fmt.Errorf("fixture form %d: %w", i+1, err)
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func sampleFixture() fixture {
	closed := false
	return fixture{Forms: []fixtureForm{
		{
			Title:       "Customer Satisfaction",
			Description: "Tell us about your recent experience with our support team.",
		},
		{
			Title:       "Product Launch Survey",
			Description: "Help us improve the new release.",
			Fields: []fixtureField{
				{Label: "Name", Type: "text", Required: true, Placeholder: "Enter your name"},
				{Label: "Work email", Type: "email", Required: false, Placeholder: "you@company.com"},
				{Label: "What should we build next?", Type: "textarea", Required: true},
				{Label: "Overall", Type: "rating", Required: true},
			},
		},
		{
			Title:       "Event Feedback 2024",
			Description: "Thanks for attending. This survey has closed.",
			Active:      &closed,
		},
	}}
}

var (
	sampleNames = []string{"Ann Lee", "Bob Martin", "Chen Wei", "Dana Cruz", "Eli Novak", "Fatima Khan", "George Hall", "Hana Sato"}
	sampleNotes = []string{
		"Great experience, very responsive team.",
		"It was fine, nothing special.",
		"Checkout kept failing, please fix.",
		"Loved the new dashboard, super clear!",
		"Support took too long to answer.",
		"Pricing is confusing, otherwise good.",
	}
)

// randomFeedbacks produces count submissions for form, spread over the last
// 30 days before now.
func randomFeedbacks(rng *rand.Rand, form domain.FeedbackForm, count int, now time.Time) []domain.Feedback {
	feedbacks := make([]domain.Feedback, 0, count)
	for i := 0; i < count; i++ {
		name := sampleNames[rng.Intn(len(sampleNames))]
		responses := make(domain.Responses, len(form.Fields))
		for _, field := range form.Fields {
			switch field.Type {
			case domain.FieldRating:
				responses[field.ID] = domain.NumberValue(float64(rng.Intn(domain.MaxRating) + domain.MinRating))
			case domain.FieldEmail:
				local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
				responses[field.ID] = domain.TextValue(local + "@example.com")
			case domain.FieldTextarea:
				responses[field.ID] = domain.TextValue(sampleNotes[rng.Intn(len(sampleNotes))])
			default:
				responses[field.ID] = domain.TextValue(name)
			}
		}
		createdAt := now.Add(-time.Duration(rng.Int63n(int64(30 * 24 * time.Hour)))).UTC()
		feedbacks = append(feedbacks, domain.NewFeedback(form, responses, createdAt))
	}
	return feedbacks
}
