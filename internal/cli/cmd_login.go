package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/drawer/internal/store"
)

func newLoginCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var username string
	var password string
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			token = strings.TrimSpace(token)
			if token == "" {
				if strings.TrimSpace(username) == "" || password == "" {
					return fmt.Errorf("%w: --username and --password, or --token, are required", errInvalidFlag)
				}
				token, err = app.client.Login(ctx, username, password)
				if err != nil {
					return fmt.Errorf("login: %w", err)
				}
			}

			sess := store.Session{
				Server:   app.client.BaseURL(),
				Username: strings.TrimSpace(username),
				Token:    token,
			}
			if err := app.store.SaveSession(ctx, sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			app.logger.Info("session stored", "server", sess.Server)

			resp := LoginResponse{Server: sess.Server, Username: sess.Username}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			if resp.Username != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", resp.Server, resp.Username)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", resp.Server)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account name")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&token, "token", "", "Use an existing auth token instead of logging in")
	return cmd
}

func newLogoutCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			if err := app.store.ClearSession(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), LogoutResponse{LoggedOut: true})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
