package bench

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteJSON writes results to w in JSON format.
func WriteJSON(results []Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// WriteCSV writes results in CSV format.
func WriteCSV(results []Result, w io.Writer) error {
	c := csv.NewWriter(w)
	if err := c.Write([]string{"operation", "label1", "label2", "iterations", "native_mean_sec", "jena_mean_sec", "speedup"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			r.Operation,
			r.Label1,
			r.Label2,
			fmt.Sprintf("%d", r.Iterations),
			fmt.Sprintf("%.3f", r.NativeMean),
			fmt.Sprintf("%.3f", r.JenaMean),
			fmt.Sprintf("%.2f", r.Speedup),
		}
		if err := c.Write(record); err != nil {
			return err
		}
	}
	c.Flush()
	return c.Error()
}

// WriteMarkdown renders results as a simple Markdown table.
func WriteMarkdown(results []Result, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "Operation\tOperands\tnative sec\tjena sec\tspeedup\n")
	fmt.Fprintf(tw, "---------\t--------\t----------\t--------\t-------\n")
	for _, r := range results {
		operands := r.Label1
		if r.Label2 != "" {
			operands += "/" + r.Label2
		}
		fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.3f\t%.2f\n", r.Operation, operands, r.NativeMean, r.JenaMean, r.Speedup)
	}
	return tw.Flush()
}
