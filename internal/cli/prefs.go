package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/snailsynk/snailsynk-go/internal/prefs"
)

// prefDefaults declares the editable preferences and their fallbacks.
var prefDefaults = map[string]string{
	prefs.KeyTheme:            "dark",
	prefs.KeyAccent:           "green",
	prefs.KeySidebarCollapsed: "false",
}

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change local preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List preferences with their current values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				store, err := prefs.Open(ctx, app.cfg.StateDir)
				if err != nil {
					return err
				}
				defer store.Close()
				keys := make([]string, 0, len(prefDefaults))
				for k := range prefDefaults {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					v, err := store.Get(ctx, k, prefDefaults[k])
					if err != nil {
						return err
					}
					fmt.Printf("%s=%s\n", k, v)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				fallback, known := prefDefaults[args[0]]
				if !known {
					return fmt.Errorf("unknown preference %q", args[0])
				}
				store, err := prefs.Open(ctx, app.cfg.StateDir)
				if err != nil {
					return err
				}
				defer store.Close()
				v, err := store.Get(ctx, args[0], fallback)
				if err != nil {
					return err
				}
				fmt.Println(v)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				if _, known := prefDefaults[args[0]]; !known {
					return fmt.Errorf("unknown preference %q", args[0])
				}
				store, err := prefs.Open(ctx, app.cfg.StateDir)
				if err != nil {
					return err
				}
				defer store.Close()
				return store.Set(ctx, args[0], args[1])
			})
		},
	})

	return cmd
}
