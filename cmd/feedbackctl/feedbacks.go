package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sngm3741/feedback-forms/api/internal/client"
	"github.com/sngm3741/feedback-forms/api/internal/domain"
	"github.com/sngm3741/feedback-forms/api/internal/export"
)

// Each command owns its filter so flags parsed for one never leak into another.
var (
	listQuery       client.FeedbackQuery
	exportQuery     client.FeedbackQuery
	analyticsFormID string
)

func addFilterFlags(cmd *cobra.Command, query *client.FeedbackQuery) {
	cmd.Flags().StringVar(&query.Search, "search", "", "match name, email or message (case-insensitive)")
	cmd.Flags().IntVar(&query.Rating, "rating", 0, "only this rating (1-5)")
	cmd.Flags().StringVar(&query.FormID, "form", domain.AllFormsID, "form id or \"all\"")
}

func validateQuery(query client.FeedbackQuery) error {
	if query.Rating != 0 && (query.Rating < domain.MinRating || query.Rating > domain.MaxRating) {
		return errors.New("--rating must be between 1 and 5")
	}
	return nil
}

var feedbacksCmd = &cobra.Command{
	Use:   "feedbacks",
	Short: "Browse submitted feedback",
}

var feedbacksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedback with analytics for the filter",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := validateQuery(listQuery); err != nil {
			return err
		}
		a, ctx, cancel, err := authedApp(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		dashboard := client.NewDashboard(a.client, a.logger)
		dashboard.SetFilter(listQuery)
		snapshot, err := dashboard.Refresh(ctx)
		if err != nil {
			return err
		}
		if snapshot.Err != nil {
			return snapshot.Err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderAnalytics(snapshot.Analytics))
		if len(snapshot.Feedbacks) == 0 {
			fmt.Fprintln(out, mutedStyle.Render("No feedback matches the filter."))
			return nil
		}
		rows := make([][]string, 0, len(snapshot.Feedbacks))
		for _, fb := range snapshot.Feedbacks {
			rows = append(rows, []string{
				truncate(fb.Name, 20),
				truncate(fb.Email, 28),
				truncate(fb.Message, 48),
				ratingBadge(fb.Rating),
				fb.CreatedAt.Local().Format(export.TimestampLayout),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Name", "Email", "Message", "Rating", "Created At"}, rows))
		return nil
	},
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show totals, average rating and sentiment split",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, ctx, cancel, err := authedApp(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		analytics, err := a.client.Analytics(ctx, analyticsFormID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderAnalytics(analytics))
		return nil
	},
}

var (
	exportPath     string
	exportTimezone string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered feedback list to a CSV file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := validateQuery(exportQuery); err != nil {
			return err
		}
		loc, err := time.LoadLocation(exportTimezone)
		if err != nil {
			return fmt.Errorf("--tz: %w", err)
		}
		a, ctx, cancel, err := authedApp(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		feedbacks, err := a.client.Feedbacks(ctx, exportQuery)
		if err != nil {
			return err
		}
		if len(feedbacks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Nothing to export."))
			return nil
		}

		path := exportPath
		if path == "" {
			path = export.Filename(time.Now().In(loc))
		}
		data := export.CSV(client.DomainFeedbacks(feedbacks), loc)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(feedbacks), path)
		return nil
	},
}

func renderAnalytics(a client.Analytics) string {
	stat := func(label string, style lipgloss.Style, value string) string {
		return style.Render(label) + " " + value
	}
	return strings.Join([]string{
		titleStyle.Render("Feedback"),
		stat("total", mutedStyle, strconv.Itoa(a.TotalFeedbacks)),
		stat("avg", mutedStyle, strconv.FormatFloat(a.AverageRating, 'f', 1, 64)),
		stat("positive", sentimentStyles[domain.SentimentPositive], strconv.Itoa(a.PositiveCount)),
		stat("neutral", sentimentStyles[domain.SentimentNeutral], strconv.Itoa(a.NeutralCount)),
		stat("negative", sentimentStyles[domain.SentimentNegative], strconv.Itoa(a.NegativeCount)),
	}, "  ")
}

func init() {
	addFilterFlags(feedbacksListCmd, &listQuery)
	addFilterFlags(exportCmd, &exportQuery)
	analyticsCmd.Flags().StringVar(&analyticsFormID, "form", domain.AllFormsID, "form id or \"all\"")
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "", "output file (default feedbacks-YYYY-MM-DD.csv)")
	exportCmd.Flags().StringVar(&exportTimezone, "tz", "Local", "timezone for the Created At column")

	feedbacksCmd.AddCommand(feedbacksListCmd)
}
