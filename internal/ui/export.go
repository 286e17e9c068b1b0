package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/hexroute/internal/schedule"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

func (a *App) exportCmd() *cobra.Command {
	var copyOut bool

	cmd := &cobra.Command{
		Use:   "export [route]",
		Short: "Export a route as tab-separated values",
		Long: `Print a route's visits as tab-separated values, one row per visit in
time order, ready to paste into a spreadsheet.

Example:
  hexroute export north --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := a.loadRoute(context.Background(), args[0])
			if err != nil {
				return err
			}

			text := ExportTSV(s)
			if !copyOut {
				a.printf("%s", text)
				return nil
			}

			if err := copyToClipboard(text); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			a.printf("Copied %d visits of %s to the clipboard\n", s.Len(), s.Route())
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy to the clipboard instead of printing")
	return cmd
}

// ExportTSV renders the schedule as a header line plus one line per visit
// in chronological order.
func ExportTSV(s *schedule.Schedule) string {
	var b strings.Builder
	b.WriteString("route\tsequence\tcell\tstart\tend\tminutes\n")
	for a := range s.Chronological() {
		fmt.Fprintf(&b, "%s\t%d\t%s\t%s\t%s\t%d\n",
			s.Route(), a.Sequence, a.CellID, a.Start(), a.End(), a.DurationMinutes)
	}
	return b.String()
}
