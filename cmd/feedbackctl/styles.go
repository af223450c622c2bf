package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E06C75"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)

	sentimentStyles = map[domain.Sentiment]lipgloss.Style{
		domain.SentimentPositive: lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379")),
		domain.SentimentNeutral:  lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		domain.SentimentNegative: lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75")),
	}
)

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func ratingBadge(rating int) string {
	style := sentimentStyles[domain.Classify(rating)]
	return style.Render(fmt.Sprintf("%d/5", rating))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
