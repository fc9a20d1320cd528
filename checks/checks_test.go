package checks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

func newRow(parameter string, value float64, deph float64, visitKey string) *qcframe.Row {
	return &qcframe.Row{
		Parameter:  parameter,
		Value:      value,
		Deph:       deph,
		VisitKey:   visitKey,
		SeaBasin:   "Baltic",
		VisitMonth: 6,
		LmqntVal:   math.NaN(),
		Flags:      qcflag.New(),
	}
}

func TestRangeBadAndGood(t *testing.T) {
	bad := newRow("AMON", 200, 0, "V1")
	good := newRow("AMON", 0.01, 0, "V1")
	frame := qcframe.New([]*qcframe.Row{bad, good})

	(RangeCheck{}).Run(frame, "AMON", qcconfig.RangeEntry{MinRangeValue: 0, MaxRangeValue: 60})

	assert.Equal(t, qcflag.BadData, bad.Flags.GetField(qcflag.Range))
	assert.Equal(t, qcflag.GoodData, good.Flags.GetField(qcflag.Range))
}

func TestConsistencyBadCorrectableAndBad(t *testing.T) {
	cfg := qcconfig.ConsistencyEntry{
		ParameterList: []string{"INORG_1", "INORG_2"},
		GoodLower:     -0.05, GoodUpper: 0,
		MaxLower: -1, MaxUpper: 0,
	}

	tot := newRow("TOT", 1, 20, "V")
	i1 := newRow("INORG_1", 1, 20, "V")
	i2 := newRow("INORG_2", 0.5, 20, "V")
	frame := qcframe.New([]*qcframe.Row{tot, i1, i2})
	(ConsistencyCheck{}).Run(frame, "TOT", cfg)
	assert.Equal(t, qcflag.BadDataCorrectable, tot.Flags.GetField(qcflag.Consistency))

	tot2 := newRow("TOT", 1, 20, "V")
	i1b := newRow("INORG_1", 1, 20, "V")
	i2b := newRow("INORG_2", 2, 20, "V")
	frame2 := qcframe.New([]*qcframe.Row{tot2, i1b, i2b})
	(ConsistencyCheck{}).Run(frame2, "TOT", cfg)
	assert.Equal(t, qcflag.BadData, tot2.Flags.GetField(qcflag.Consistency))
}

func TestConsistencyTocConvertsValueNotSum(t *testing.T) {
	cfg := qcconfig.ConsistencyEntry{
		ParameterList: []string{"INORG_1"},
		GoodLower:     -0.05, GoodUpper: 0.05,
		MaxLower: -1, MaxUpper: 1,
		TocConversion: 83.25701,
	}
	toc := newRow("TOC", 0.01, 20, "V")
	inorg := newRow("INORG_1", 0.8325701, 20, "V")
	frame := qcframe.New([]*qcframe.Row{toc, inorg})
	(ConsistencyCheck{}).Run(frame, "TOC", cfg)
	assert.Equal(t, qcflag.GoodData, toc.Flags.GetField(qcflag.Consistency))
}

func TestDependencyReadsLiveFlagsNotStaleString(t *testing.T) {
	cfg := qcconfig.DependencyEntry{ParameterList: []string{"SALT"}}
	sibling := newRow("SALT", 10, 5, "V")
	require.NoError(t, sibling.Flags.SetField(qcflag.Range, qcflag.BadData))
	sibling.QualityFlagLong = "0000000000_0_0"
	target := newRow("TEMP", 5, 5, "V")
	frame := qcframe.New([]*qcframe.Row{sibling, target})
	(DependencyCheck{}).Run(frame, "TEMP", cfg)
	assert.Equal(t, qcflag.BadData, target.Flags.GetField(qcflag.Dependency))
}

func TestH2sBadAndPreserved(t *testing.T) {
	cfg := qcconfig.H2sEntry{SkipFlag: "6"}

	ntra := newRow("NTRA", 1.23, 20, "V")
	h2s := newRow("H2S", 1.23, 20, "V")
	frame := qcframe.New([]*qcframe.Row{ntra, h2s})
	(H2sCheck{}).Run(frame, "NTRA", cfg)
	assert.Equal(t, qcflag.BadData, ntra.Flags.GetField(qcflag.H2s))

	ntra2 := newRow("NTRA", 1.23, 20, "V")
	ntra2.QualityFlagLong = "6_0000000000_0_6"
	h2s2 := newRow("H2S", 1.23, 20, "V")
	frame2 := qcframe.New([]*qcframe.Row{ntra2, h2s2})
	(H2sCheck{}).Run(frame2, "NTRA", cfg)
	assert.Equal(t, qcflag.BelowDetection, ntra2.Flags.GetField(qcflag.H2s))
}

func TestSpikeProfile(t *testing.T) {
	cfg := qcconfig.SpikeEntry{ThresholdHigh: 0.5, ThresholdLow: 0.4, RateOfChange: math.Inf(1)}
	values := []float64{1, 0.5, 7, 2}
	depths := []float64{0, 5, 10, 15}
	rows := make([]*qcframe.Row, len(values))
	for i := range values {
		rows[i] = newRow("DOXY_BTL", values[i], depths[i], "V")
	}
	frame := qcframe.New(rows)
	(SpikeCheck{}).Run(frame, "DOXY_BTL", cfg)

	assert.Equal(t, qcflag.NoQcPerformed, rows[0].Flags.GetField(qcflag.Spike))
	assert.Equal(t, qcflag.BadData, rows[1].Flags.GetField(qcflag.Spike))
	assert.Equal(t, qcflag.BadData, rows[2].Flags.GetField(qcflag.Spike))
	assert.Equal(t, qcflag.NoQcPerformed, rows[3].Flags.GetField(qcflag.Spike))
}

func TestRepeatedValue(t *testing.T) {
	cfg := qcconfig.RepeatedValueEntry{RepeatedValue: 0}
	values := []float64{1, 1, 2}
	depths := []float64{5, 10, 15}
	rows := make([]*qcframe.Row, len(values))
	for i := range values {
		rows[i] = newRow("SALT", values[i], depths[i], "V")
	}
	frame := qcframe.New(rows)
	(RepeatedValueCheck{}).Run(frame, "SALT", cfg)

	assert.Equal(t, qcflag.GoodData, rows[0].Flags.GetField(qcflag.RepeatedValue))
	assert.Equal(t, qcflag.ProbablyGoodData, rows[1].Flags.GetField(qcflag.RepeatedValue))
	assert.Equal(t, qcflag.GoodData, rows[2].Flags.GetField(qcflag.RepeatedValue))
}

func TestGradientBad(t *testing.T) {
	cfg := qcconfig.GradientEntry{AllowedDecrease: -1, AllowedIncrease: 1}
	values := []float64{10, 4.99, 7.1, 14.2}
	depths := []float64{5, 10, 15, 20}
	rows := make([]*qcframe.Row, len(values))
	for i := range values {
		rows[i] = newRow("TEMP", values[i], depths[i], "V")
	}
	frame := qcframe.New(rows)
	(GradientCheck{}).Run(frame, "TEMP", cfg)

	want := []qcflag.Flag{qcflag.NoQcPerformed, qcflag.BadData, qcflag.GoodData, qcflag.BadData}
	for i, row := range rows {
		assert.Equal(t, want[i], row.Flags.GetField(qcflag.Gradient), "index %d", i)
	}
}

func TestStatisticNoQcOnUnknownBasin(t *testing.T) {
	cfg := qcconfig.NewStatisticEntryFromRows([]qcconfig.StatisticRow{
		{SeaBasin: "Baltic", Month: 6, MinDepth: 0, MaxDepth: 10, Flag1Lower: 1, Flag1Upper: 2, Flag2Lower: 0.5, Flag2Upper: 3, Flag3Lower: 0, Flag3Upper: 4},
	})
	row := newRow("AMON", 1.5, 5, "V")
	row.SeaBasin = "unknown"
	frame := qcframe.New([]*qcframe.Row{row})
	(StatisticCheck{}).Run(frame, "AMON", cfg)
	assert.Equal(t, qcflag.NoQcPerformed, row.Flags.GetField(qcflag.Statistic))
}

func TestMissingValuePreambleAppliesAcrossChecks(t *testing.T) {
	row := newRow("AMON", math.NaN(), 0, "V1")
	frame := qcframe.New([]*qcframe.Row{row})
	(RangeCheck{}).Run(frame, "AMON", qcconfig.RangeEntry{MinRangeValue: 0, MaxRangeValue: 60})
	assert.Equal(t, qcflag.MissingValue, row.Flags.GetField(qcflag.Range))
}

func TestPositionalPurity(t *testing.T) {
	row := newRow("AMON", 200, 0, "V1")
	require.NoError(t, row.Flags.SetField(qcflag.Gradient, qcflag.GoodData))
	frame := qcframe.New([]*qcframe.Row{row})

	(RangeCheck{}).Run(frame, "AMON", qcconfig.RangeEntry{MinRangeValue: 0, MaxRangeValue: 60})

	assert.Equal(t, qcflag.BadData, row.Flags.GetField(qcflag.Range))
	assert.Equal(t, qcflag.GoodData, row.Flags.GetField(qcflag.Gradient), "range check must not touch gradient's slot")
}

func TestWrongConfigEntryTypeIsNoOp(t *testing.T) {
	row := newRow("AMON", 200, 0, "V1")
	frame := qcframe.New([]*qcframe.Row{row})
	(RangeCheck{}).Run(frame, "AMON", qcconfig.GradientEntry{})
	assert.Equal(t, qcflag.NoQcPerformed, row.Flags.GetField(qcflag.Range))
}

func TestBatteryCategoryFieldBijection(t *testing.T) {
	battery := Battery()
	require.Len(t, battery, len(qcflag.Fields))
	seen := make(map[qcflag.Field]bool)
	for _, check := range battery {
		require.NotNil(t, check)
		assert.False(t, seen[check.Field()], "duplicate field %v", check.Field())
		seen[check.Field()] = true
	}
	for _, f := range qcflag.Fields {
		assert.True(t, seen[f], "no check registered for field %v", f)
	}
}
