package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snailsynk/snailsynk-go/internal/protocol"
)

func newQRCmd(app *App) *cobra.Command {
	var qrType, color, ssid, password, out string

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Generate a share QR code as SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(func(ctx context.Context) error {
				if qrType == "wifi" && ssid == "" {
					return fmt.Errorf("--ssid is required for wifi codes")
				}
				svg, err := app.client.QRCode(ctx, protocol.QRRequest{
					Type:     qrType,
					Color:    color,
					SSID:     ssid,
					Password: password,
				})
				if err != nil {
					return err
				}
				if out == "" {
					fmt.Println(svg)
					return nil
				}
				return os.WriteFile(out, []byte(svg), 0o644)
			})
		},
	}
	cmd.Flags().StringVar(&qrType, "type", "ip", "code type: ip or wifi")
	cmd.Flags().StringVar(&color, "color", "", "foreground color, e.g. #dc2626")
	cmd.Flags().StringVar(&ssid, "ssid", "", "network name for wifi codes")
	cmd.Flags().StringVar(&password, "password", "", "network password for wifi codes")
	cmd.Flags().StringVar(&out, "out", "", "write the SVG to a file instead of stdout")
	return cmd
}
