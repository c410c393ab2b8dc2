package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/snailsynk/snailsynk-go/internal/session"
)

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				password, ok, err := app.dialogs.Prompt(ctx, "Login", "Admin password", "Password", true)
				if err != nil || !ok {
					return err
				}
				resp, err := app.client.Login(ctx, password)
				if err != nil {
					return err
				}
				return app.store.Save(&session.TokenFile{
					Token:     resp.Token,
					ExpiresAt: resp.ExpiresAt,
					Server:    app.cfg.ServerURL,
				})
			})
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				// Best effort: the local token is dropped even when the
				// server is unreachable.
				_ = app.client.Logout(ctx)
				return app.store.Delete()
			})
		},
	}
}
