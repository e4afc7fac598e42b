package cli

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/drawer/internal/favicon"
	"github.com/tengjizhang/drawer/internal/sidebar"
)

func newFaviconCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "favicon <subscription-id>",
		Short: "Download the favicon of a subscription as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])
			if id == "" {
				return fmt.Errorf("%w: subscription id must be non-empty", errInvalidFlag)
			}
			if strings.TrimSpace(outPath) == "" {
				if name := filepath.Base(id); name != id || name == "." || name == ".." {
					return fmt.Errorf("%w: subscription id %q cannot name a file; pass --out", errInvalidFlag, id)
				}
				outPath = id + ".png"
			}

			loader, err := app.newLoader(cmd.Context(), favicon.Immediate)
			if err != nil {
				return err
			}
			defer loader.Close()

			token, _ := app.tokens().Token()
			path := sidebar.FaviconPath(id)
			img, err := loader.Fetch(cmd.Context(), path, token)
			if err != nil {
				return err
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := png.Encode(f, img); err != nil {
				_ = f.Close()
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			c := favicon.AverageColor(img)
			resp := FaviconResponse{
				SubscriptionID: id,
				Path:           path,
				File:           outPath,
				Width:          img.Bounds().Dx(),
				Height:         img.Bounds().Dy(),
				AverageColor:   fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
			}
			if getOutput() == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			writeKeyValueTable(cmd.OutOrStdout(), [][2]string{
				{"SUBSCRIPTION", resp.SubscriptionID},
				{"PATH", resp.Path},
				{"FILE", resp.File},
				{"SIZE", fmt.Sprintf("%dx%d", resp.Width, resp.Height)},
				{"COLOR", resp.AverageColor},
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default <subscription-id>.png)")
	return cmd
}
