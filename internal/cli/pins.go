package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snailsynk/snailsynk-go/internal/pins"
)

func newPinCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Manage pinned messages",
	}

	model := func() *pins.Model {
		return pins.NewModel(app.client, app.dialogs, app.notifier)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pinned messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.Load(ctx); err != nil {
					return err
				}
				for _, p := range m.Pins() {
					fmt.Printf("%s\t%s\n", p.ID, p.Text)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Pin a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.Load(ctx); err != nil {
					return err
				}
				return m.Add(ctx, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one pin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				return model().Delete(ctx, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every pin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				return model().Clear(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a pin's text to the OS clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.Load(ctx); err != nil {
					return err
				}
				return m.Copy(args[0])
			})
		},
	})

	return cmd
}
