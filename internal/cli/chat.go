package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snailsynk/snailsynk-go/internal/chat"
)

func newChatCmd(app *App) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the server's AI assistant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := chat.NewModel(app.client, app.notifier)

				if len(args) == 1 && !interactive {
					reply, err := m.Send(ctx, args[0])
					if err != nil {
						return err
					}
					fmt.Println(reply)
					return nil
				}

				// Interactive loop; the rolling history rides along so
				// the assistant keeps context between turns.
				reader := bufio.NewReader(os.Stdin)
				for {
					fmt.Fprint(os.Stderr, "> ")
					line, err := reader.ReadString('\n')
					if err != nil {
						return nil
					}
					line = strings.TrimSpace(line)
					if line == "" {
						continue
					}
					if line == "/quit" {
						return nil
					}
					if line == "/clear" {
						m.Clear()
						continue
					}
					reply, err := m.Send(ctx, line)
					if err != nil {
						continue
					}
					fmt.Println(reply)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start an interactive session")
	return cmd
}
