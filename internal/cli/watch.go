package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/snailsynk/snailsynk-go/internal/admin"
	"github.com/snailsynk/snailsynk-go/internal/buffer"
	"github.com/snailsynk/snailsynk-go/internal/explorer"
	"github.com/snailsynk/snailsynk-go/internal/logging"
	"github.com/snailsynk/snailsynk-go/internal/metrics"
	"github.com/snailsynk/snailsynk-go/internal/pins"
	"github.com/snailsynk/snailsynk-go/internal/protocol"
	"github.com/snailsynk/snailsynk-go/internal/transport"
)

func newWatchCmd(app *App) *cobra.Command {
	var watchPath string
	var withAdmin bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow server state live over the push channel",
		Long: "Subscribes to the push channel and prints state changes as they\n" +
			"arrive. A periodic poll covers anything a missed event would leave\n" +
			"stale. Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.watch(ctx, watchPath, withAdmin)
		},
	}
	cmd.Flags().StringVar(&watchPath, "path", "", "folder to follow for file changes")
	cmd.Flags().BoolVar(&withAdmin, "admin", false, "also follow dashboard state")
	return cmd
}

func (a *App) watch(ctx context.Context, path string, withAdmin bool) error {
	bufModel := buffer.NewModel(a.client, a.notifier)
	pinModel := pins.NewModel(a.client, a.dialogs, a.notifier)
	fileModel := explorer.NewModel(a.client, a.dialogs, a.notifier)
	adminModel := admin.NewModel(a.client, a.dialogs, a.notifier)

	if err := bufModel.Load(ctx); err != nil {
		return err
	}
	if err := pinModel.Load(ctx); err != nil {
		return err
	}
	if err := fileModel.Navigate(ctx, path); err != nil {
		return err
	}
	if withAdmin {
		if err := adminModel.Refresh(ctx); err != nil {
			return err
		}
	}

	if a.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	stream, err := transport.NewPushStream(a.cfg.PushTransport, a.cfg.ServerURL, a.client.AuthToken())
	if err != nil {
		return err
	}
	events, errs := stream.Subscribe(ctx)

	// The poll fallback re-fetches everything the push channel covers, so
	// a dropped event heals within one interval.
	poller := transport.NewPoller(a.cfg.PollInterval, func(ctx context.Context) error {
		if err := bufModel.Load(ctx); err != nil {
			return err
		}
		if err := pinModel.Load(ctx); err != nil {
			return err
		}
		if err := fileModel.Refresh(ctx); err != nil {
			return err
		}
		if withAdmin {
			return adminModel.Refresh(ctx)
		}
		return nil
	})
	go poller.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			return err
		case ev := <-events:
			a.dispatch(ctx, ev, bufModel, pinModel, fileModel, adminModel, withAdmin)
		}
	}
}

func (a *App) dispatch(ctx context.Context, ev transport.PushEvent,
	bufModel *buffer.Model, pinModel *pins.Model,
	fileModel *explorer.Model, adminModel *admin.Model, withAdmin bool) {

	switch ev.Name {
	case transport.EventTextUpdated:
		var payload protocol.TextEvent
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			logging.Warn("bad text event", zap.Error(err))
			return
		}
		bufModel.ApplyRemote(payload.Text)
		fmt.Printf("text updated (%d bytes)\n", len(payload.Text))

	case transport.EventPinsUpdated:
		var payload protocol.PinsEvent
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			logging.Warn("bad pins event", zap.Error(err))
			return
		}
		pinModel.ApplyRemote(payload.Pins)
		fmt.Printf("pins updated (%d pinned)\n", len(payload.Pins))

	case transport.EventFileListUpdated:
		var payload protocol.FileListEvent
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			logging.Warn("bad file list event", zap.Error(err))
			return
		}
		fileModel.ApplyRemote(payload)
		if payload.Path == fileModel.Path() {
			fmt.Printf("files updated in %q (%d entries)\n", payload.Path, len(payload.Files))
		}

	case transport.EventClientUpdate:
		if withAdmin {
			if err := adminModel.RefreshClients(ctx); err == nil {
				fmt.Printf("clients: %d connected\n", len(adminModel.Clients()))
			}
		}

	case transport.EventBlocklistUpdate:
		if withAdmin {
			if err := adminModel.RefreshBlocklist(ctx); err == nil {
				fmt.Printf("blocklist: %d blocked\n", len(adminModel.Blocklist()))
			}
		}

	case transport.EventActionLogUpdate:
		if withAdmin {
			if err := adminModel.ReloadLogs(ctx); err == nil {
				logs, _ := adminModel.Logs()
				if len(logs) > 0 {
					fmt.Printf("log: %s %s\n", logs[0].IPAddress, logs[0].Action)
				}
			}
		}

	default:
		logging.Debug("unhandled push event", zap.String("event", ev.Name))
	}
}
