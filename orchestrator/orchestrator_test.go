package orchestrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

func newRow(parameter string, value, deph float64, visitKey string) *qcframe.Row {
	return &qcframe.Row{
		Parameter:  parameter,
		Value:      value,
		Deph:       deph,
		VisitKey:   visitKey,
		SeaBasin:   "Baltic",
		VisitMonth: 6,
		LmqntVal:   math.NaN(),
	}
}

func buildRegistry() *qcconfig.MapRegistry {
	registry := qcconfig.NewMapRegistry()
	registry.Set(qcconfig.CategoryRange, "AMON", qcconfig.RangeEntry{MinRangeValue: 0, MaxRangeValue: 60})
	registry.Set(qcconfig.CategoryGradient, "TEMP", qcconfig.GradientEntry{AllowedDecrease: -1, AllowedIncrease: 1})
	return registry
}

func TestRunAutomaticQcWritesTotal(t *testing.T) {
	row := newRow("AMON", 200, 0, "V1")
	frame := qcframe.New([]*qcframe.Row{row})

	o := New(buildRegistry())
	result, err := o.RunAutomaticQc(frame)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowsChanged)

	flags, err := qcflag.FromString(row.QualityFlagLong)
	require.NoError(t, err)
	assert.Equal(t, qcflag.BadData, flags.Total())
	assert.Equal(t, qcflag.BadData, flags.GetField(qcflag.Range))
}

func TestRunAutomaticQcIdempotent(t *testing.T) {
	row := newRow("AMON", 200, 0, "V1")
	frame := qcframe.New([]*qcframe.Row{row})
	o := New(buildRegistry())

	_, err := o.RunAutomaticQc(frame)
	require.NoError(t, err)
	first := row.QualityFlagLong

	_, err = o.RunAutomaticQc(frame)
	require.NoError(t, err)
	assert.Equal(t, first, row.QualityFlagLong)
}

func TestRunAutomaticQcUnknownParameterSkipped(t *testing.T) {
	row := newRow("UNKNOWN_PARAM", 1, 0, "V1")
	frame := qcframe.New([]*qcframe.Row{row})
	o := New(buildRegistry())

	result, err := o.RunAutomaticQc(frame)
	require.NoError(t, err)
	assert.Equal(t, 0, result.RowsChanged)
}

func TestRunAutomaticQcMalformedFlagIsFatal(t *testing.T) {
	row := newRow("AMON", 1, 0, "V1")
	row.QualityFlagLong = "not-the-right-shape"
	frame := qcframe.New([]*qcframe.Row{row})
	o := New(buildRegistry())

	_, err := o.RunAutomaticQc(frame)
	assert.Error(t, err)
}

func TestRunAutomaticQcPositionalPurityAcrossChecks(t *testing.T) {
	row := newRow("TEMP", 10, 5, "V1")
	frame := qcframe.New([]*qcframe.Row{row})
	registry := qcconfig.NewMapRegistry()
	registry.Set(qcconfig.CategoryRange, "TEMP", qcconfig.RangeEntry{MinRangeValue: 0, MaxRangeValue: 30})
	registry.Set(qcconfig.CategoryGradient, "TEMP", qcconfig.GradientEntry{AllowedDecrease: -1, AllowedIncrease: 1})

	o := New(registry)
	_, err := o.RunAutomaticQc(frame)
	require.NoError(t, err)

	flags, err := qcflag.FromString(row.QualityFlagLong)
	require.NoError(t, err)
	assert.Equal(t, qcflag.GoodData, flags.GetField(qcflag.Range))
	assert.Equal(t, qcflag.NoQcPerformed, flags.GetField(qcflag.Gradient))
}
