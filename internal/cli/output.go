package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"
)

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRowsTable aligns the rows first and styles whole lines afterwards, so
// escape sequences never reach the tabwriter. Styling is dropped when out is
// not a terminal.
func writeRowsTable(out io.Writer, rows []RowResponse, wide bool) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	if wide {
		fmt.Fprintln(tw, "POS\tTYPE\tENABLED\tID\tTITLE\tURL\tROOT\tUNREAD_ONLY")
		for _, r := range rows {
			id := "-"
			if r.ID != nil {
				id = fallback(*r.ID, `""`)
			}
			fmt.Fprintf(
				tw,
				"%d\t%s\t%t\t%s\t%s\t%s\t%t\t%t\n",
				r.Position,
				r.Type,
				r.Enabled,
				compactText(id, 24),
				compactText(fallback(r.Title, "(untitled)"), 48),
				fallback(r.URL, "-"),
				r.RootLevel,
				r.UnreadOnly,
			)
		}
	} else {
		fmt.Fprintln(tw, "POS\tTYPE\tENABLED\tTITLE\tURL")
		for _, r := range rows {
			fmt.Fprintf(
				tw,
				"%d\t%s\t%t\t%s\t%s\n",
				r.Position,
				r.Type,
				r.Enabled,
				compactText(fallback(r.Title, "(untitled)"), 48),
				compactText(fallback(r.URL, "-"), 56),
			)
		}
	}
	_ = tw.Flush()

	term := termenv.NewOutput(out)
	if term.Profile == termenv.Ascii {
		_, _ = out.Write(buf.Bytes())
		return
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		style := term.String(line)
		switch {
		case i == 0:
			style = style.Bold().Underline()
		case rows[i-1].Type == "header":
			style = style.Faint()
		case rows[i-1].Type == "category":
			style = style.Bold()
		}
		fmt.Fprintln(out, style.String())
	}
}

func writeKeyValueTable(out io.Writer, pairs [][2]string) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, kv := range pairs {
		fmt.Fprintf(tw, "%s\t%s\n", kv[0], kv[1])
	}
	_ = tw.Flush()
}
