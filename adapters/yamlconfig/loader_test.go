package yamlconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oceanqc/domain/qcconfig"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadRangeCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "range_check.yaml", `
AMON:
  global:
    min_range_value: 0
    max_range_value: 60
`)

	registry, err := Load(dir)
	require.NoError(t, err)

	entry, ok := registry.Get(qcconfig.CategoryRange, "AMON")
	require.True(t, ok)
	rangeEntry := entry.(qcconfig.RangeEntry)
	assert.Equal(t, 0.0, rangeEntry.MinRangeValue)
	assert.Equal(t, 60.0, rangeEntry.MaxRangeValue)
}

func TestLoadConsistencyDefaultsTocConversion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "consistency_check.yaml", `
TOT:
  global:
    parameter_list: [INORG_1, INORG_2]
    good_lower: -0.05
    good_upper: 0
    max_lower: -1
    max_upper: 0
`)

	registry, err := Load(dir)
	require.NoError(t, err)

	entry, ok := registry.Get(qcconfig.CategoryConsistency, "TOT")
	require.True(t, ok)
	consistency := entry.(qcconfig.ConsistencyEntry)
	assert.Equal(t, qcconfig.DefaultTocConversionFactor, consistency.TocConversion)
	assert.Equal(t, []string{"INORG_1", "INORG_2"}, consistency.ParameterList)
}

func TestLoadStatisticTableFromTSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "statistic_check.yaml", `
AMON:
  global:
    file: amon_stats.tsv
`)
	writeFile(t, dir, "amon_stats.tsv",
		"sea_basin\tmonth\tmin_depth\tmax_depth\tmin_range_value\tmax_range_value\tflag1_lower\tflag1_upper\tflag2_lower\tflag2_upper\tflag3_lower\tflag3_upper\n"+
			"Baltic\t6\t0\t10\t0\t60\t1\t2\t0.5\t3\t0\t4\n")

	registry, err := Load(dir)
	require.NoError(t, err)

	entry, ok := registry.Get(qcconfig.CategoryStatistic, "AMON")
	require.True(t, ok)
	statEntry := entry.(*qcconfig.StatisticEntry)
	thresholds, ok := statEntry.GetThresholds("Baltic", 5, 6)
	require.True(t, ok)
	assert.Equal(t, 1.0, thresholds.Flag1Lower)
}

func TestLoadStatisticTableBlankCellIsNaNNotZero(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "statistic_check.yaml", `
AMON:
  global:
    file: amon_stats.tsv
`)
	writeFile(t, dir, "amon_stats.tsv",
		"sea_basin\tmonth\tmin_depth\tmax_depth\tmin_range_value\tmax_range_value\tflag1_lower\tflag1_upper\tflag2_lower\tflag2_upper\tflag3_lower\tflag3_upper\n"+
			"Baltic\t6\t0\t10\t0\t60\t\t2\t0.5\t3\t0\t4\n")

	registry, err := Load(dir)
	require.NoError(t, err)

	entry, ok := registry.Get(qcconfig.CategoryStatistic, "AMON")
	require.True(t, ok)
	statEntry := entry.(*qcconfig.StatisticEntry)
	_, ok = statEntry.GetThresholds("Baltic", 5, 6)
	assert.False(t, ok, "a blank flag1_lower cell must surface as NaN and collapse the lookup, not a live 0.0 boundary")
}

func TestLoadMissingFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	registry, err := Load(dir)
	require.NoError(t, err)
	_, ok := registry.Get(qcconfig.CategoryRange, "AMON")
	assert.False(t, ok)
}
