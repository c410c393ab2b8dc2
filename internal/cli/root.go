// Package cli wires the view-models into a scriptable command-line
// frontend.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snailsynk/snailsynk-go/internal/config"
	"github.com/snailsynk/snailsynk-go/internal/dialog"
	"github.com/snailsynk/snailsynk-go/internal/logging"
	"github.com/snailsynk/snailsynk-go/internal/session"
	"github.com/snailsynk/snailsynk-go/internal/status"
	"github.com/snailsynk/snailsynk-go/internal/transport"
)

// App carries the shared state every subcommand needs.
type App struct {
	ConfigPath string
	ServerURL  string
	LogLevel   string

	cfg      *config.Config
	client   *transport.Client
	store    *session.Store
	dialogs  *dialog.Broker
	notifier *status.Notifier
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "snailsynk",
		Short:         "SnailSynk command-line client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", "", "server base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "log level (overrides config)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}

	cmd.AddCommand(
		newBufferCmd(app),
		newPinCmd(app),
		newFilesCmd(app),
		newNotesCmd(app),
		newChatCmd(app),
		newAdminCmd(app),
		newPrefsCmd(app),
		newQRCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWatchCmd(app),
	)
	return cmd
}

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func (a *App) setup() error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.ServerURL != "" {
		cfg.ServerURL = a.ServerURL
	}
	if a.LogLevel != "" {
		cfg.LogLevel = a.LogLevel
	}
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return err
	}

	a.cfg = cfg
	a.client = transport.New(transport.Config{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.RequestTimeout,
	})
	a.store = session.NewStore(cfg.StateDir)
	a.notifier = status.NewNotifier()
	a.dialogs = dialog.NewBroker()

	// The CLI answers dialogs on the terminal.
	go a.answerDialogs()

	if tf, err := a.store.Load(); err == nil && tf.Server == cfg.ServerURL {
		if tf.IsExpired(0) {
			logging.Warn("saved session has expired, run snailsynk login")
		} else {
			a.client.SetAuthToken(tf.Token)
		}
	}
	return nil
}

// drainFlashes prints any pending notifications after a command ran.
func (a *App) drainFlashes() {
	for _, f := range a.notifier.Flashes() {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", f.Category, f.Message)
	}
}

func (a *App) run(fn func(ctx context.Context) error) error {
	err := fn(context.Background())
	a.drainFlashes()
	return err
}
