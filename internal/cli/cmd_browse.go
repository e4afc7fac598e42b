package cli

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/tengjizhang/drawer/internal/favicon"
	"github.com/tengjizhang/drawer/internal/sidebar"
	"github.com/tengjizhang/drawer/internal/tui"
)

// newScreen is replaced in tests.
var newScreen = tcell.NewScreen

func newBrowseCmd(getApp func() *App, getLabels func() sidebar.Labels) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Show the sidebar in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			payload, err := app.loadPayload(ctx, input)
			if err != nil {
				return err
			}

			screen, err := newScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			defer screen.Fini()
			screen.EnableMouse()

			loader, err := app.newLoader(ctx, tui.ScreenDispatcher(screen))
			if err != nil {
				return err
			}
			defer loader.Close()

			adapter, err := sidebar.NewAdapter(payload, sidebar.Options{
				Labels:      getLabels(),
				Icons:       loader,
				Tokens:      app.tokens(),
				Placeholder: favicon.DefaultIcon(),
				Fallback:    favicon.DefaultIcon(),
				Logger:      app.logger,
			})
			if err != nil {
				return fmt.Errorf("build rows: %w", err)
			}

			title := "drawer " + input
			if input == "" {
				client, err := app.sessionClient(ctx)
				if err != nil {
					return err
				}
				title = "drawer " + client.BaseURL()
			}
			return tui.NewApp(screen, adapter, title, app.logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Read the tree from a JSON or OPML file instead of the server")
	return cmd
}
