package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sngm3741/feedback-forms/api/internal/client"
)

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List and manage feedback forms",
}

var formsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List forms with their response counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, ctx, cancel, err := authedApp(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		forms, err := a.client.Forms(ctx)
		if err != nil {
			return err
		}
		counts, err := a.client.FormCounts(ctx)
		if err != nil {
			return err
		}
		if len(forms) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No forms yet. Create one with `feedbackctl forms create`."))
			return nil
		}

		rows := make([][]string, 0, len(forms))
		for _, f := range forms {
			status := successStyle.Render("active")
			if !f.IsActive {
				status = mutedStyle.Render("inactive")
			}
			rows = append(rows, []string{
				f.ID,
				truncate(f.Title, 40),
				status,
				strconv.Itoa(len(f.Fields)),
				strconv.Itoa(counts[f.ID]),
				f.CreatedAt.Local().Format("2006-01-02"),
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Status", "Fields", "Responses", "Created"}, rows))
		return nil
	},
}

var (
	createTitle       string
	createDescription string
	createFieldsFile  string
	createInactive    bool
)

var formsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a form (default fields unless --fields is given)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, ctx, cancel, err := authedApp(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		input := client.FormInput{Title: createTitle, Description: createDescription}
		if createInactive {
			active := false
			input.IsActive = &active
		}
		if createFieldsFile != "" {
			fields, err := readFields(createFieldsFile)
			if err != nil {
				return err
			}
			input.Fields = fields
		}

		form, err := a.client.CreateForm(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%s\n", successStyle.Render("Created"), form.ID, a.client.FormLink(form.ID))
		return nil
	},
}

var formsToggleCmd = &cobra.Command{
	Use:   "toggle <form-id>",
	Short: "Flip a form between active and inactive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, ctx, cancel, err := authedApp(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		form, err := a.client.Form(ctx, args[0])
		if err != nil {
			return err
		}
		next := !form.IsActive
		updated, err := a.client.UpdateForm(ctx, form.ID, client.FormUpdate{IsActive: &next})
		if err != nil {
			return err
		}
		state := "inactive"
		if updated.IsActive {
			state = "active"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", updated.Title, state)
		return nil
	},
}

var deleteConfirmed bool

var formsDeleteCmd = &cobra.Command{
	Use:   "delete <form-id>",
	Short: "Delete a form and all of its responses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteConfirmed {
			return errors.New("this deletes the form and all of its responses; pass --yes to confirm")
		}
		a, ctx, cancel, err := authedApp(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		if err := a.client.DeleteForm(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted "+args[0])
		return nil
	},
}

var formsLinkCmd = &cobra.Command{
	Use:   "link <form-id>",
	Short: "Print the public URL of a form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), client.New(apiURL, nil).FormLink(args[0]))
		return nil
	},
}

// readFields loads a YAML list of field definitions.
func readFields(path string) ([]client.Field, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}
	var fields []client.Field
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse fields %s: %w", path, err)
	}
	return fields, nil
}

func init() {
	formsCreateCmd.Flags().StringVar(&createTitle, "title", "", "form title")
	formsCreateCmd.Flags().StringVar(&createDescription, "description", "", "form description")
	formsCreateCmd.Flags().StringVar(&createFieldsFile, "fields", "", "YAML file with a list of fields")
	formsCreateCmd.Flags().BoolVar(&createInactive, "inactive", false, "create the form closed to responses")
	_ = formsCreateCmd.MarkFlagRequired("title")
	_ = formsCreateCmd.MarkFlagRequired("description")

	formsDeleteCmd.Flags().BoolVar(&deleteConfirmed, "yes", false, "confirm deletion")

	formsCmd.AddCommand(formsListCmd, formsCreateCmd, formsToggleCmd, formsDeleteCmd, formsLinkCmd)
}
