package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/spektr-org/launchdash/engine"
)

// openOutput returns the command's stdout, or a file when path is set.
// done must be called with the write error; a failed write removes the file.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(error) error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func(error) error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func(werr error) error {
		cerr := f.Close()
		if werr != nil {
			os.Remove(path)
			return nil
		}
		return cerr
	}, nil
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ============================================================================
// CSV OUTPUT
// ============================================================================

// writeChartCSV writes one row per pie slice (label, value) or per scatter
// point (series, x, y, label).
func writeChartCSV(w io.Writer, chart *engine.ChartConfig) error {
	cw := csv.NewWriter(w)

	xLabel, yLabel := chart.XAxis, chart.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	if chart.ChartType == "scatter" {
		cw.Write([]string{"Series", xLabel, yLabel, "Label"})
		for _, s := range chart.Series {
			for _, p := range s.Points {
				cw.Write([]string{s.Name, fmtNum(p.X), fmtNum(p.Y), p.Label})
			}
		}
	} else {
		cw.Write([]string{xLabel, yLabel})
		for _, s := range chart.Series {
			for _, d := range s.Data {
				cw.Write([]string{d.Label, fmtNum(d.Value)})
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeTableCSV(w io.Writer, t *engine.TableData) error {
	cw := csv.NewWriter(w)

	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range t.Rows {
		cw.Write(row)
	}
	if t.Summary != nil {
		cw.Write(summaryRow(t))
	}

	cw.Flush()
	return cw.Error()
}

// ============================================================================
// TABLE OUTPUT
// ============================================================================

// writeTable renders t as a terminal table with the summary as footer.
func writeTable(w io.Writer, t *engine.TableData) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(t.Title)

	header := make(table.Row, len(t.Columns))
	configs := make([]table.ColumnConfig, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align(c.Align), AlignFooter: align(c.Align)}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range t.Rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	if t.Summary != nil {
		cells := summaryRow(t)
		footer := make(table.Row, len(cells))
		for i, cell := range cells {
			footer[i] = cell
		}
		tw.AppendFooter(footer)
	}

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

func summaryRow(t *engine.TableData) []string {
	row := make([]string, len(t.Columns))
	row[0] = t.Summary.Label
	for i, c := range t.Columns[1:] {
		row[i+1] = t.Summary.Values[c.Key]
	}
	return row
}

func align(a string) text.Align {
	switch a {
	case "right":
		return text.AlignRight
	case "center":
		return text.AlignCenter
	default:
		return text.AlignLeft
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
