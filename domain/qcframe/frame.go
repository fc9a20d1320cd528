// Package qcframe implements the tabular frame that the check battery
// operates over: sample rows carrying the columns checks read and write,
// plus the vectorized group-by/sort/shift helpers checks are built from.
package qcframe

import (
	"math"
	"sort"

	"oceanqc/domain/core"
	"oceanqc/domain/qcflag"
)

// Row is one measurement: a single parameter value for one depth on one
// visit. Optional numeric fields use NaN to denote "no value", matching the
// null semantics of the source columnar engine.
type Row struct {
	RowID core.RowID

	Parameter string
	Value     float64 // NaN = null

	Deph      float64
	VisitKey  string
	SeaBasin  string
	VisitMonth int

	QualityFlagLong string

	LmqntVal float64 // NaN = absent; falls back to config.limit

	// Derived during expansion; re-split from QualityFlagLong each run.
	Flags qcflag.QcFlags

	// Per-check explanatory text, one entry per field, indexed the same
	// way as the automatic tuple.
	Info [10]string
}

// HasValue reports whether the row carries a non-null measurement.
func (r *Row) HasValue() bool {
	return !math.IsNaN(r.Value)
}

// EffectiveLimit returns the row's quantification limit: LmqntVal when
// present, otherwise fallback.
func (r *Row) EffectiveLimit(fallback float64) float64 {
	if math.IsNaN(r.LmqntVal) {
		return fallback
	}
	return r.LmqntVal
}

// Frame is the set of rows under QC for one run. The orchestrator owns it
// exclusively for the duration of a run; checks borrow it for mutation of
// their own slot only.
type Frame struct {
	rows []*Row
	byID map[core.RowID]*Row
}

// New builds a Frame from rows, assigning a stable RowID to every row that
// does not already carry one. This is the "introduced on first expansion"
// row identity the spec requires for joining a check's vectorized
// selection back to the master frame.
func New(rows []*Row) *Frame {
	f := &Frame{
		rows: rows,
		byID: make(map[core.RowID]*Row, len(rows)),
	}
	for _, r := range rows {
		if r.RowID == "" {
			r.RowID = core.NewRowID()
		}
		f.byID[r.RowID] = r
	}
	return f
}

// Rows returns the underlying row pointers. Callers may mutate rows in
// place but must not replace the slice identity.
func (f *Frame) Rows() []*Row {
	return f.rows
}

// Len returns the row count.
func (f *Frame) Len() int {
	return len(f.rows)
}

// ByID looks a row up by its stable identity.
func (f *Frame) ByID(id core.RowID) (*Row, bool) {
	r, ok := f.byID[id]
	return r, ok
}

// Select returns every row for which pred holds, preserving order.
func (f *Frame) Select(pred func(*Row) bool) []*Row {
	var out []*Row
	for _, r := range f.rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// ByParameter returns the subset of rows with the given parameter name.
func (f *Frame) ByParameter(parameter string) []*Row {
	return f.Select(func(r *Row) bool { return r.Parameter == parameter })
}

// GroupByVisit partitions rows into buckets keyed by VisitKey. Rows inside
// a bucket keep their input order, matching the stable-sort expectations
// of the check algorithms; the returned map has no defined bucket order.
func GroupByVisit(rows []*Row) map[string][]*Row {
	groups := make(map[string][]*Row)
	for _, r := range rows {
		groups[r.VisitKey] = append(groups[r.VisitKey], r)
	}
	return groups
}

// GroupByVisitDepth partitions rows into buckets keyed by (VisitKey, Deph),
// the join key used by Consistency, H2s and Dependency.
func GroupByVisitDepth(rows []*Row) map[VisitDepthKey][]*Row {
	groups := make(map[VisitDepthKey][]*Row)
	for _, r := range rows {
		key := VisitDepthKey{VisitKey: r.VisitKey, Deph: r.Deph}
		groups[key] = append(groups[key], r)
	}
	return groups
}

// VisitDepthKey is the join key shared by the cross-parameter checks.
type VisitDepthKey struct {
	VisitKey string
	Deph     float64
}

// SortByDepth sorts rows by ascending Deph, stable so ties preserve
// input order (matching a stable columnar sort).
func SortByDepth(rows []*Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Deph < rows[j].Deph
	})
}

// ShiftValue returns, for each index i in a depth-sorted profile, the value
// of the previous row, or NaN at index 0. This is the vectorized
// equivalent of a window shift(1) followed by a column read.
func ShiftValue(rows []*Row) []float64 {
	shifted := make([]float64, len(rows))
	shifted[0] = math.NaN()
	for i := 1; i < len(rows); i++ {
		shifted[i] = rows[i-1].Value
	}
	return shifted
}

// PrevNonNull returns, for each index in a depth-sorted profile, the most
// recent preceding row with a non-null value, or NaN if none exists.
func PrevNonNull(rows []*Row) []float64 {
	out := make([]float64, len(rows))
	last := math.NaN()
	for i, r := range rows {
		out[i] = last
		if r.HasValue() {
			last = r.Value
		}
	}
	return out
}
