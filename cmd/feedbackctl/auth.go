package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, ctx, cancel, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		password := loginPassword
		if password == "" {
			password = os.Getenv("FEEDBACK_PASSWORD")
		}
		if strings.TrimSpace(loginEmail) == "" || password == "" {
			return errors.New("--email and --password (or FEEDBACK_PASSWORD) are required")
		}

		ok, err := a.session.Login(ctx, loginEmail, password)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("Invalid credentials. Check email and password.")
		}
		user, _ := a.session.User()
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Signed in as "+user.Email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session token and forget it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, ctx, cancel, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		if err := a.session.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, _, cancel, err := authedApp(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		user, _ := a.session.User()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", titleStyle.Render(user.Name), mutedStyle.Render("<"+user.Email+"> "+user.Role))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
}
