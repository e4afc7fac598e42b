package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/drawer/internal/sidebar"
)

func newRowsCmd(getApp func() *App, getOutput func() OutputFormat, getLabels func() sidebar.Labels) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Print the flattened sidebar rows",
		Long: "Print the flattened sidebar rows.\n\n" +
			"Without --input the subscription tree is fetched from the server with the stored session. " +
			"--input accepts a JSON payload file, or an OPML file or URL.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			payload, err := app.loadPayload(cmd.Context(), input)
			if err != nil {
				return err
			}
			rows, err := sidebar.Build(payload, getLabels())
			if err != nil {
				return fmt.Errorf("build rows: %w", err)
			}

			out := make([]RowResponse, 0, len(rows))
			for pos, row := range rows {
				out = append(out, newRowResponse(pos, row))
			}
			switch getOutput() {
			case OutputJSON:
				return writeJSON(cmd.OutOrStdout(), out)
			case OutputWide:
				writeRowsTable(cmd.OutOrStdout(), out, true)
			default:
				writeRowsTable(cmd.OutOrStdout(), out, false)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Read the tree from a JSON or OPML file instead of the server")
	return cmd
}
