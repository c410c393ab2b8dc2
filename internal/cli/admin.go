package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snailsynk/snailsynk-go/internal/admin"
)

func newAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Dashboard: clients, blocklist, stats and the action log",
	}

	model := func() *admin.Model {
		return admin.NewModel(app.client, app.dialogs, app.notifier)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clients",
		Short: "List connected clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.RefreshClients(ctx); err != nil {
					return err
				}
				for _, c := range m.Clients() {
					fmt.Printf("%s\tsince %s\n", c.IP, c.ConnectedSince)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "blocklist",
		Short: "List blocked IPs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.RefreshBlocklist(ctx); err != nil {
					return err
				}
				for _, ip := range m.Blocklist() {
					fmt.Println(ip)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show usage counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.RefreshStats(ctx); err != nil {
					return err
				}
				s := m.Stats()
				fmt.Printf("total logs:      %d\n", s.TotalLogs)
				fmt.Printf("unique ips:      %d\n", s.UniqueIPs)
				fmt.Printf("recent activity: %d\n", s.RecentActivity)
				return nil
			})
		},
	})

	var logPages int
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the action log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				m := model()
				if err := m.ReloadLogs(ctx); err != nil {
					return err
				}
				for page := 1; page < logPages; page++ {
					if err := m.LoadMoreLogs(ctx); err != nil {
						return err
					}
				}
				logs, hasMore := m.Logs()
				for _, l := range logs {
					fmt.Printf("%s\t%s\t%s\n", l.Timestamp, l.IPAddress, l.Action)
				}
				if hasMore {
					fmt.Println("... more rows on the server, raise --pages")
				}
				return nil
			})
		},
	}
	logsCmd.Flags().IntVar(&logPages, "pages", 1, "pages to fetch")
	cmd.AddCommand(logsCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "block <ip>",
		Short: "Block an IP and disconnect it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				return model().Block(ctx, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unblock <ip>",
		Short: "Remove an IP from the blocklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				return model().Unblock(ctx, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear-logs",
		Short: "Delete the entire action log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				return model().ClearLogs(ctx)
			})
		},
	})

	return cmd
}
