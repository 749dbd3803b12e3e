package compare

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kettleby/abench/buildtest"
)

// WriteReport writes a markdown comparison table for the record.
func WriteReport(w io.Writer, rec Record) error {
	if len(rec.Metrics) == 0 {
		fmt.Fprintf(w, "## %s comparison: %s vs %s\n\n", rec.Mode,
			rec.TargetA, rec.TargetB)
		fmt.Fprintln(w, "No comparable metrics: every scenario failed "+
			"on at least one target.")

		return nil
	}

	fmt.Fprintf(w, "## %s comparison: %s vs %s\n\n", rec.Mode,
		rec.TargetA, rec.TargetB)
	fmt.Fprintf(w, "Run %s at %s\n\n", rec.ID,
		rec.Timestamp.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(w, "| Metric | %s | %s | Difference | Winner |\n",
		rec.TargetA, rec.TargetB)
	fmt.Fprintln(w, "|--------|------|------|------------|--------|")

	names := make([]string, 0, len(rec.Metrics))
	for name := range rec.Metrics {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		out := rec.Metrics[name]

		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			name,
			formatValue(out.ValueA),
			formatValue(out.ValueB),
			formatDiff(out.PercentDiff),
			winnerName(rec, out.Winner),
		)
	}

	writeErrorLines(w, rec)

	return nil
}

// WriteJSON writes the record as indented JSON.
func WriteJSON(w io.Writer, rec Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rec)
}

func winnerName(rec Record, side Side) string {
	switch side {
	case SideA:
		return rec.TargetA
	case SideB:
		return rec.TargetB
	default:
		return "-"
	}
}

func formatDiff(pct float64) string {
	if pct > 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}

	return fmt.Sprintf("%.1f%%", pct)
}

func formatValue(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")

	return s
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(b int64) string {
	if b <= 0 {
		return "-"
	}

	units := []string{"B", "KB", "MB", "GB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	formatted := strings.TrimRight(fmt.Sprintf("%.1f", size), "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + " " + units[unit]
}

func buildDetailLine(r buildtest.Result) string {
	bundle := "no artifacts"
	if r.BundleSizeBytes != nil && r.ChunkCount != nil {
		bundle = fmt.Sprintf("bundle %s in %d files",
			FormatBytes(*r.BundleSizeBytes), *r.ChunkCount)
	}

	status := "built"
	if !r.Success {
		status = fmt.Sprintf("build failed (exit %d)", r.ExitCode)
	}

	return fmt.Sprintf("%s, %s, warnings %d, errors %d",
		status, bundle, r.WarningCount, r.ErrorCount)
}

// writeErrorLines appends failure counts that a bare metric table hides.
func writeErrorLines(w io.Writer, rec Record) {
	switch {
	case rec.LoadTest != nil:
		fmt.Fprintf(w, "\nErrors: %s %d (%d timeouts), %s %d (%d timeouts)\n",
			rec.TargetA, rec.LoadTest.A.Errors, rec.LoadTest.A.Timeouts,
			rec.TargetB, rec.LoadTest.B.Errors, rec.LoadTest.B.Timeouts)

	case rec.Build != nil:
		fmt.Fprintf(w, "\n%s: %s\n%s: %s\n",
			rec.TargetA, buildDetailLine(rec.Build.A),
			rec.TargetB, buildDetailLine(rec.Build.B))

	case rec.Performance != nil:
		names := make([]string, 0, len(rec.Performance.A))
		for name := range rec.Performance.A {
			names = append(names, name)
		}

		sort.Strings(names)

		for _, name := range names {
			a := rec.Performance.A[name]
			b, ok := rec.Performance.B[name]
			if !ok {
				continue
			}

			if a.Failed || b.Failed {
				fmt.Fprintf(w, "\nScenario %q skipped: no valid responses "+
					"(%s errors %d, %s errors %d)\n", name,
					rec.TargetA, a.ErrorCount, rec.TargetB, b.ErrorCount)
			}
		}
	}
}
