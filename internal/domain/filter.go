package domain

import "strings"

// AllFormsID is the sentinel form id meaning "no form filter".
const AllFormsID = "all"

// FeedbackFilter narrows a feedback listing. Zero values mean "all";
// non-zero criteria are ANDed.
type FeedbackFilter struct {
	Search string
	Rating int
	FormID string
}

// AllForms reports whether the filter spans every form.
func (f FeedbackFilter) AllForms() bool {
	id := strings.TrimSpace(f.FormID)
	return id == "" || id == AllFormsID
}

// Normalized trims the criteria and folds "all" into the empty form id.
func (f FeedbackFilter) Normalized() FeedbackFilter {
	out := FeedbackFilter{
		Search: strings.TrimSpace(f.Search),
		Rating: f.Rating,
		FormID: strings.TrimSpace(f.FormID),
	}
	if out.FormID == AllFormsID {
		out.FormID = ""
	}
	return out
}

// Matches evaluates the filter against a single record.
func (f FeedbackFilter) Matches(fb Feedback) bool {
	n := f.Normalized()
	if n.FormID != "" && fb.FormID != n.FormID {
		return false
	}
	if n.Rating != 0 && fb.Rating != n.Rating {
		return false
	}
	if n.Search != "" {
		needle := strings.ToLower(n.Search)
		if !strings.Contains(strings.ToLower(fb.Name), needle) &&
			!strings.Contains(strings.ToLower(fb.Email), needle) &&
			!strings.Contains(strings.ToLower(fb.Message), needle) {
			return false
		}
	}
	return true
}

// CountByForm tallies feedbacks per form id.
func CountByForm(feedbacks []Feedback) map[string]int {
	counts := make(map[string]int)
	for _, f := range feedbacks {
		counts[f.FormID]++
	}
	return counts
}
