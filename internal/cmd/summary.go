package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/dendrascience/macosx-strip/zipclean"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// printSummary writes one row per archive followed by a totals line.
func printSummary(w io.Writer, results []zipclean.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No ZIP files found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Archive", "Status", "Moved", "Kept", "Failures", "Metadata"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	counts := make(map[zipclean.Status]int)
	for _, res := range results {
		counts[res.Status]++
		metadata := "-"
		if res.Status == zipclean.StatusProcessed {
			metadata = fmt.Sprintf("%s (%s)", filepath.Base(res.MetadataArchive), humanize.Bytes(uint64(res.MetadataSize)))
		}
		table.Append([]string{
			filepath.Base(res.Archive),
			res.Status.String(),
			strconv.Itoa(len(res.Moved)),
			strconv.Itoa(len(res.Kept)),
			strconv.Itoa(len(res.Failures)),
			metadata,
		})
	}
	table.Render()

	_, err := fmt.Fprintf(w, "\n%d archives: %d processed, %d without metadata, %d skipped, %d failed\n",
		len(results),
		counts[zipclean.StatusProcessed]+counts[zipclean.StatusDryRun],
		counts[zipclean.StatusNoMetadata],
		counts[zipclean.StatusSkipped],
		counts[zipclean.StatusFailed],
	)
	return err
}
