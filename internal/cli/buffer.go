package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/snailsynk/snailsynk-go/internal/buffer"
)

func newBufferCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buffer",
		Short: "Read and write the shared text buffer",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the shared text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := buffer.NewModel(app.client, app.notifier)
				if err := m.Load(ctx); err != nil {
					return err
				}
				text, _ := m.Text()
				fmt.Println(text)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [text]",
		Short: "Replace the shared text; reads stdin when no argument given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				var text string
				if len(args) == 1 {
					text = args[0]
				} else {
					data, err := io.ReadAll(os.Stdin)
					if err != nil {
						return err
					}
					text = string(data)
				}
				m := buffer.NewModel(app.client, app.notifier)
				m.SetText(text)
				return m.Commit(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the shared text for everyone",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				return buffer.NewModel(app.client, app.notifier).Clear(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "paste",
		Short: "Append the OS clipboard to the shared text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := buffer.NewModel(app.client, app.notifier)
				if err := m.Load(ctx); err != nil {
					return err
				}
				return m.Paste(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "copy",
		Short: "Copy the shared text to the OS clipboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := buffer.NewModel(app.client, app.notifier)
				if err := m.Load(ctx); err != nil {
					return err
				}
				return m.CopyAll()
			})
		},
	})

	return cmd
}
