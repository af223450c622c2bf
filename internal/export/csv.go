// Package export renders feedback listings as CSV downloads.
package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// TimestampLayout is the locale-style layout used for the Created At column.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

var header = []string{"Name", "Email", "Message", "Rating", "Created At"}

// CSV renders feedbacks in input order. Every data cell is double quoted; only
// the message is escaped ('"' doubled, then ',' replaced by ';'). An empty
// list renders as the empty string.
func CSV(feedbacks []domain.Feedback, loc *time.Location) string {
	if len(feedbacks) == 0 {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}

	lines := make([]string, 0, len(feedbacks)+1)
	lines = append(lines, strings.Join(header, ","))
	for _, f := range feedbacks {
		cells := []string{
			f.Name,
			f.Email,
			escapeMessage(f.Message),
			strconv.Itoa(f.Rating),
			f.CreatedAt.In(loc).Format(TimestampLayout),
		}
		for i, cell := range cells {
			cells[i] = `"` + cell + `"`
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func escapeMessage(message string) string {
	return strings.ReplaceAll(strings.ReplaceAll(message, `"`, `""`), ",", ";")
}

// Filename is the download name for an export taken at now.
func Filename(now time.Time) string {
	return "feedbacks-" + now.UTC().Format("2006-01-02") + ".csv"
}
