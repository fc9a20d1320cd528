// Package qcconfig implements the Configuration Registry (C4): per-check,
// per-parameter thresholds loaded from an external collaborator and
// exposed to the check battery through a small read-only interface.
package qcconfig

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Category names a check's configuration family. Values match the file
// stem convention used by the YAML collaborator (e.g. "range_check.yaml").
type Category string

const (
	CategoryQuantificationLimit Category = "quantificationlimit_check"
	CategoryRange               Category = "range_check"
	CategoryStatistic           Category = "statistic_check"
	CategoryRepeatedValue       Category = "repeatedvalue_check"
	CategoryStability           Category = "stability_check"
	CategoryGradient            Category = "gradient_check"
	CategorySpike               Category = "spike_check"
	CategoryConsistency         Category = "consistency_check"
	CategoryH2s                 Category = "h2s_check"
	CategoryDependency          Category = "dependency_check"
)

// Categories lists every recognized category.
var Categories = []Category{
	CategoryQuantificationLimit, CategoryRange, CategoryStatistic,
	CategoryRepeatedValue, CategoryStability, CategoryGradient,
	CategorySpike, CategoryConsistency, CategoryH2s, CategoryDependency,
}

// Entry is a discriminated configuration record. Concrete types implement
// it as markers; checks type-assert to the shape they expect.
type Entry interface {
	isConfigEntry()
}

// QuantificationLimitEntry holds the global fallback limit used when a row
// carries no LmqntVal of its own.
type QuantificationLimitEntry struct {
	Limit float64
}

func (QuantificationLimitEntry) isConfigEntry() {}

// RangeEntry holds the admissible closed interval for a parameter.
type RangeEntry struct {
	MinRangeValue float64
	MaxRangeValue float64
}

func (RangeEntry) isConfigEntry() {}

// ConsistencyEntry holds the cross-parameter sum bounds. TocConversion is
// the named constant the TOC special case multiplies by before subtracting
// (see the Consistency check). The check uses the value as given; the YAML
// loader fills in DefaultTocConversionFactor (83.25701, mg/l -> umol/l)
// when the configured value is absent or zero.
type ConsistencyEntry struct {
	ParameterList []string
	GoodLower     float64
	GoodUpper     float64
	MaxLower      float64
	MaxUpper      float64
	TocConversion float64
}

func (ConsistencyEntry) isConfigEntry() {}

// DefaultTocConversionFactor converts TOC values from mg/l to umol/l.
const DefaultTocConversionFactor = 83.25701

// H2sEntry holds the skip_flag alternation ("|"-separated codes): a target
// row whose quality_flag_long contains any of these codes gets
// BelowDetection instead of being evaluated against the co-located H2S
// measurement.
type H2sEntry struct {
	SkipFlag string
}

func (H2sEntry) isConfigEntry() {}

// GradientEntry holds the admissible per-depth-unit rate of change.
type GradientEntry struct {
	AllowedDecrease float64
	AllowedIncrease float64
}

func (GradientEntry) isConfigEntry() {}

// RepeatedValueEntry holds the sentinel difference meaning "identical to
// the value above in the profile".
type RepeatedValueEntry struct {
	RepeatedValue float64
}

func (RepeatedValueEntry) isConfigEntry() {}

// StabilityEntry holds the four-band decrease classifier thresholds.
type StabilityEntry struct {
	BadDecrease          float64
	ProbablyBadDecrease  float64
	ProbablyGoodDecrease float64
}

func (StabilityEntry) isConfigEntry() {}

// SpikeEntry holds the spike-detection thresholds.
type SpikeEntry struct {
	ThresholdHigh float64
	ThresholdLow  float64
	RateOfChange  float64
}

func (SpikeEntry) isConfigEntry() {}

// DependencyEntry names the sibling parameters whose flags drive this
// parameter's Dependency verdict.
type DependencyEntry struct {
	ParameterList []string
}

func (DependencyEntry) isConfigEntry() {}

// StatisticRow is one row of a per-parameter statistics table.
type StatisticRow struct {
	SeaBasin     string
	Month        int
	MinDepth     float64
	MaxDepth     float64
	MinRangeValue float64
	MaxRangeValue float64
	Flag1Lower   float64
	Flag1Upper   float64
	Flag2Lower   float64
	Flag2Upper   float64
	Flag3Lower   float64
	Flag3Upper   float64
}

// Thresholds is the result of a StatisticEntry lookup: the six flag-band
// endpoints used by the nested range classifier. The table's
// min_range_value and max_range_value are not carried. On no match
// GetThresholds returns the zero value with ok=false.
type Thresholds struct {
	Flag1Lower float64
	Flag1Upper float64
	Flag2Lower float64
	Flag2Upper float64
	Flag3Lower float64
	Flag3Upper float64
}

// TableLoader fetches the rows for one parameter's statistics table from
// whatever external collaborator backs it (a TSV file on disk, typically).
// It is invoked at most once per StatisticEntry, on first use.
type TableLoader func() ([]StatisticRow, error)

// StatisticEntry lazily loads and caches a parameter's statistics table.
// The spec calls for at-most-once reads of the backing file per
// configuration instance; sync.Once gives that for free and is safe for
// the read-only, single QC run lifecycle the registry is used in.
type StatisticEntry struct {
	loader TableLoader

	once sync.Once
	rows []StatisticRow
	err  error
}

func (*StatisticEntry) isConfigEntry() {}

// NewStatisticEntry wraps loader for lazy, memoized access.
func NewStatisticEntry(loader TableLoader) *StatisticEntry {
	return &StatisticEntry{loader: loader}
}

// NewStatisticEntryFromRows wraps an already-materialized table, useful
// for tests and for small inline tables that skip the file collaborator.
func NewStatisticEntryFromRows(rows []StatisticRow) *StatisticEntry {
	e := &StatisticEntry{rows: rows}
	e.once.Do(func() {}) // mark as already loaded
	return e
}

func (e *StatisticEntry) load() ([]StatisticRow, error) {
	e.once.Do(func() {
		if e.loader != nil {
			e.rows, e.err = e.loader()
		}
	})
	return e.rows, e.err
}

// GetThresholds joins on (sea_basin, month) and filters to the half-open
// band [min_depth, max_depth). Returns ok=false when no row matches or the
// table fails to load; callers must treat that as flag 0, never an error
// that aborts the run.
func (e *StatisticEntry) GetThresholds(seaBasin string, depth float64, month int) (Thresholds, bool) {
	rows, err := e.load()
	if err != nil {
		return Thresholds{}, false
	}
	for _, row := range rows {
		if row.SeaBasin != seaBasin || row.Month != month {
			continue
		}
		if depth < row.MinDepth || depth >= row.MaxDepth {
			continue
		}
		t := Thresholds{
			Flag1Lower: row.Flag1Lower, Flag1Upper: row.Flag1Upper,
			Flag2Lower: row.Flag2Lower, Flag2Upper: row.Flag2Upper,
			Flag3Lower: row.Flag3Lower, Flag3Upper: row.Flag3Upper,
		}
		if hasNaNEndpoint(t) {
			return Thresholds{}, false
		}
		return t, true
	}
	return Thresholds{}, false
}

// Coverage reports how much of seaBasin's depth range the loaded table
// actually covers: the row count and the [min, max] of every row's
// min_depth. Intended as an operator diagnostic when a StatisticCheck
// unexpectedly collapses to NoQcPerformed across a whole basin; it is not
// read by the check itself.
func (e *StatisticEntry) Coverage(seaBasin string) (rows int, depthRange [2]float64) {
	table, err := e.load()
	if err != nil {
		return 0, [2]float64{math.NaN(), math.NaN()}
	}
	var depths []float64
	for _, row := range table {
		if row.SeaBasin != seaBasin {
			continue
		}
		depths = append(depths, row.MinDepth)
	}
	if len(depths) == 0 {
		return 0, [2]float64{math.NaN(), math.NaN()}
	}
	return len(depths), [2]float64{floats.Min(depths), floats.Max(depths)}
}

func hasNaNEndpoint(t Thresholds) bool {
	for _, v := range []float64{t.Flag1Lower, t.Flag1Upper, t.Flag2Lower, t.Flag2Upper, t.Flag3Lower, t.Flag3Upper} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
