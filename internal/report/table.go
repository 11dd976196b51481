package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/seenimoa/sentitrack/pkg/models"
)

// PrintTable writes the merged comparison as an aligned console table.
// Missing values print as NaN.
func PrintTable(w io.Writer, rows []models.ComparisonRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tdate\tavg_sentiment\tClose\t")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", i, r.Date, cell(r.AvgSentiment, "%.6f"), cell(r.Close, "%.2f"))
	}
	return tw.Flush()
}

func cell(v *float64, format string) string {
	if v == nil {
		return "NaN"
	}
	return fmt.Sprintf(format, *v)
}
