// Package report implements the total_flag_info() finalizer (§6) and a
// human-readable run summary (total-flag counts, per-check activity and
// visit depth profiles) rendered as markdown, which is also rendered to
// HTML for callers that want to embed it in a page.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"

	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// RowReport holds the three optional reporting columns the spec names:
// total_automatic, total_automatic_fields, total_automatic_info.
type RowReport struct {
	TotalAutomatic       qcflag.Flag
	TotalAutomaticFields []qcflag.Field
	TotalAutomaticInfo   string
}

// TotalFlagInfo computes a RowReport for every row in frame. It never
// mutates the row; callers that want the columns persisted must copy them
// onto their own output representation.
func TotalFlagInfo(frame *qcframe.Frame) map[string]RowReport {
	out := make(map[string]RowReport, frame.Len())
	for _, row := range frame.Rows() {
		worst := row.Flags.TotalAutomatic()
		sources := row.Flags.TotalAutomaticSource()
		messages := make([]string, 0, len(sources))
		for _, field := range sources {
			if info := row.Info[field]; info != "" {
				messages = append(messages, fmt.Sprintf("%s: %s", field, info))
			}
		}
		out[row.RowID.String()] = RowReport{
			TotalAutomatic:       worst,
			TotalAutomaticFields: sources,
			TotalAutomaticInfo:   strings.Join(messages, "; "),
		}
	}
	return out
}

// Summary is a run-level digest: how many rows landed at each total flag,
// and how many rows carry a non-zero flag in each check's slot.
type Summary struct {
	RowsProcessed  int
	RowsChanged    int
	FlagCounts     map[qcflag.Flag]int
	FieldActivity  map[qcflag.Field]int
	Profiles       []VisitDigest
}

// Summarize builds a Summary from frame after a QC run.
func Summarize(frame *qcframe.Frame, rowsChanged int) Summary {
	summary := Summary{
		RowsProcessed: frame.Len(),
		RowsChanged:   rowsChanged,
		FlagCounts:    make(map[qcflag.Flag]int),
		FieldActivity: make(map[qcflag.Field]int),
		Profiles:      ProfileDigests(frame),
	}
	for _, row := range frame.Rows() {
		summary.FlagCounts[row.Flags.Total()]++
		for _, field := range qcflag.Fields {
			if row.Flags.GetField(field) != qcflag.NoQcPerformed {
				summary.FieldActivity[field]++
			}
		}
	}
	return summary
}

// Markdown renders summary as a markdown report: one table of total-flag
// counts, one table of per-check activity.
func (s Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# QC Run Summary\n\n")
	fmt.Fprintf(&b, "Rows processed: %d\n\nRows changed: %d\n\n", s.RowsProcessed, s.RowsChanged)

	b.WriteString("## Total flag distribution\n\n")
	b.WriteString("| Flag | Label | Count |\n|---|---|---|\n")
	for _, flag := range sortedFlags(s.FlagCounts) {
		fmt.Fprintf(&b, "| %c | %s | %d |\n", flag, flag.Label(), s.FlagCounts[flag])
	}

	b.WriteString("\n## Per-check activity\n\n")
	b.WriteString("| Check | Rows flagged (non-zero) |\n|---|---|\n")
	for _, field := range qcflag.Fields {
		fmt.Fprintf(&b, "| %s | %d |\n", field, s.FieldActivity[field])
	}

	if len(s.Profiles) > 0 {
		b.WriteString("\n## Visit depth profiles\n\n")
		b.WriteString("| Visit | Samples | Min depth | Median depth | Max depth |\n|---|---|---|---|---|\n")
		for _, p := range s.Profiles {
			fmt.Fprintf(&b, "| %s | %d | %.1f | %.1f | %.1f |\n", p.VisitKey, p.SampleCount, p.MinDepth, p.MedianDepth, p.MaxDepth)
		}
	}
	return b.String()
}

// HTML renders the markdown report to HTML for embedding in a page.
func (s Summary) HTML() string {
	return string(markdown.ToHTML([]byte(s.Markdown()), nil, nil))
}

func sortedFlags(counts map[qcflag.Flag]int) []qcflag.Flag {
	flags := make([]qcflag.Flag, 0, len(counts))
	for f := range counts {
		flags = append(flags, f)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i] < flags[j] })
	return flags
}
