// Package yamlconfig is the external collaborator that populates a
// qcconfig.Registry from the conventional config directory: one YAML file
// per category, file stem equal to the category name, and for the
// statistic_check category a reference to per-parameter TSV tables.
package yamlconfig

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"oceanqc/domain/core"
	"oceanqc/domain/qcconfig"
)

// tableLoads collapses concurrent TableLoader invocations against the same
// TSV path into a single disk read. A StatisticEntry already memoizes its
// own loader with sync.Once, but two different parameters can reference
// the same shared table file and construct independent StatisticEntry
// values around it; singleflight covers that cross-instance case.
var tableLoads singleflight.Group

// fileStems maps each category to its YAML file's base name, per the
// convention category name == file stem.
var fileStems = map[qcconfig.Category]string{
	qcconfig.CategoryQuantificationLimit: "quantificationlimit_check",
	qcconfig.CategoryRange:               "range_check",
	qcconfig.CategoryStatistic:           "statistic_check",
	qcconfig.CategoryRepeatedValue:       "repeatedvalue_check",
	qcconfig.CategoryStability:           "stability_check",
	qcconfig.CategoryGradient:            "gradient_check",
	qcconfig.CategorySpike:               "spike_check",
	qcconfig.CategoryConsistency:         "consistency_check",
	qcconfig.CategoryH2s:                 "h2s_check",
	qcconfig.CategoryDependency:          "dependency_check",
}

// Load reads every known category's YAML file out of dir and assembles a
// qcconfig.MapRegistry. A category whose file is absent is simply not
// populated; the orchestrator's "missing configuration" handling covers
// the rest.
func Load(dir string) (*qcconfig.MapRegistry, error) {
	registry := qcconfig.NewMapRegistry()

	for category, stem := range fileStems {
		path := filepath.Join(dir, stem+".yaml")
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, core.NewInputDataError(path, err.Error())
		}

		if err := loadCategory(registry, dir, category, data); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func loadCategory(registry *qcconfig.MapRegistry, dir string, category qcconfig.Category, data []byte) error {
	switch category {
	case qcconfig.CategoryQuantificationLimit:
		return unmarshalInto(data, func(p string, g quantificationLimitYAML) {
			registry.Set(category, p, qcconfig.QuantificationLimitEntry{Limit: g.Limit})
		})
	case qcconfig.CategoryRange:
		return unmarshalInto(data, func(p string, g rangeYAML) {
			registry.Set(category, p, qcconfig.RangeEntry{MinRangeValue: g.MinRangeValue, MaxRangeValue: g.MaxRangeValue})
		})
	case qcconfig.CategoryConsistency:
		return unmarshalInto(data, func(p string, g consistencyYAML) {
			conversion := g.TocConversion
			if conversion == 0 {
				conversion = qcconfig.DefaultTocConversionFactor
			}
			registry.Set(category, p, qcconfig.ConsistencyEntry{
				ParameterList: g.ParameterList,
				GoodLower:     g.GoodLower,
				GoodUpper:     g.GoodUpper,
				MaxLower:      g.MaxLower,
				MaxUpper:      g.MaxUpper,
				TocConversion: conversion,
			})
		})
	case qcconfig.CategoryH2s:
		return unmarshalInto(data, func(p string, g h2sYAML) {
			registry.Set(category, p, qcconfig.H2sEntry{SkipFlag: g.SkipFlag})
		})
	case qcconfig.CategoryGradient:
		return unmarshalInto(data, func(p string, g gradientYAML) {
			registry.Set(category, p, qcconfig.GradientEntry{AllowedDecrease: g.AllowedDecrease, AllowedIncrease: g.AllowedIncrease})
		})
	case qcconfig.CategoryRepeatedValue:
		return unmarshalInto(data, func(p string, g repeatedValueYAML) {
			registry.Set(category, p, qcconfig.RepeatedValueEntry{RepeatedValue: g.RepeatedValue})
		})
	case qcconfig.CategoryStability:
		return unmarshalInto(data, func(p string, g stabilityYAML) {
			registry.Set(category, p, qcconfig.StabilityEntry{
				BadDecrease:          g.BadDecrease,
				ProbablyBadDecrease:  g.ProbablyBadDecrease,
				ProbablyGoodDecrease: g.ProbablyGoodDecrease,
			})
		})
	case qcconfig.CategorySpike:
		return unmarshalInto(data, func(p string, g spikeYAML) {
			registry.Set(category, p, qcconfig.SpikeEntry{
				ThresholdHigh: g.ThresholdHigh,
				ThresholdLow:  g.ThresholdLow,
				RateOfChange:  g.RateOfChange,
			})
		})
	case qcconfig.CategoryDependency:
		return unmarshalInto(data, func(p string, g dependencyYAML) {
			registry.Set(category, p, qcconfig.DependencyEntry{ParameterList: g.ParameterList})
		})
	case qcconfig.CategoryStatistic:
		return loadStatistic(registry, dir, data)
	default:
		return fmt.Errorf("yamlconfig: unrecognized category %s", category)
	}
}

// entryFile is the shared YAML shape: { parameter_name: { global: <entry> } }.
type entryFile[T any] map[string]struct {
	Global T `yaml:"global"`
}

func unmarshalInto[T any](data []byte, set func(parameter string, global T)) error {
	var file entryFile[T]
	if err := yaml.Unmarshal(data, &file); err != nil {
		return core.NewInputDataError("yamlconfig", err.Error())
	}
	for parameter, entry := range file {
		set(parameter, entry.Global)
	}
	return nil
}

type quantificationLimitYAML struct {
	Limit float64 `yaml:"limit"`
}

type rangeYAML struct {
	MinRangeValue float64 `yaml:"min_range_value"`
	MaxRangeValue float64 `yaml:"max_range_value"`
}

type consistencyYAML struct {
	ParameterList []string `yaml:"parameter_list"`
	GoodLower     float64  `yaml:"good_lower"`
	GoodUpper     float64  `yaml:"good_upper"`
	MaxLower      float64  `yaml:"max_lower"`
	MaxUpper      float64  `yaml:"max_upper"`
	TocConversion float64  `yaml:"toc_conversion"`
}

type h2sYAML struct {
	SkipFlag string `yaml:"skip_flag"`
}

type gradientYAML struct {
	AllowedDecrease float64 `yaml:"allowed_decrease"`
	AllowedIncrease float64 `yaml:"allowed_increase"`
}

type repeatedValueYAML struct {
	RepeatedValue float64 `yaml:"repeated_value"`
}

type stabilityYAML struct {
	BadDecrease          float64 `yaml:"bad_decrease"`
	ProbablyBadDecrease  float64 `yaml:"probably_bad_decrease"`
	ProbablyGoodDecrease float64 `yaml:"probably_good_decrease"`
}

type spikeYAML struct {
	ThresholdHigh float64 `yaml:"threshold_high"`
	ThresholdLow  float64 `yaml:"threshold_low"`
	RateOfChange  float64 `yaml:"rate_of_change"`
}

type dependencyYAML struct {
	ParameterList []string `yaml:"parameter_list"`
}

type statisticYAML struct {
	Global struct {
		File string `yaml:"file"`
	} `yaml:"global"`
}

// loadStatistic reads statistic_check.yaml, which maps each parameter to a
// tab-separated table file, and registers a lazily-loaded StatisticEntry
// per parameter.
func loadStatistic(registry *qcconfig.MapRegistry, dir string, data []byte) error {
	var file map[string]statisticYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return core.NewInputDataError("yamlconfig", err.Error())
	}
	for parameter, entry := range file {
		tablePath := entry.Global.File
		if !filepath.IsAbs(tablePath) {
			tablePath = filepath.Join(dir, tablePath)
		}
		registry.Set(qcconfig.CategoryStatistic, parameter, qcconfig.NewStatisticEntry(statisticTableLoader(tablePath)))
	}
	return nil
}

func statisticTableLoader(path string) qcconfig.TableLoader {
	return func() ([]qcconfig.StatisticRow, error) {
		result, err, _ := tableLoads.Do(path, func() (interface{}, error) {
			return readStatisticTable(path)
		})
		if err != nil {
			return nil, err
		}
		return result.([]qcconfig.StatisticRow), nil
	}
}

func readStatisticTable(path string) ([]qcconfig.StatisticRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewInputDataError(path, err.Error())
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	records, err := r.ReadAll()
	if err != nil {
		return nil, core.NewInputDataError(path, err.Error())
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	rows := make([]qcconfig.StatisticRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row, err := parseStatisticRecord(rec, col)
		if err != nil {
			return nil, core.NewInputDataError(path, err.Error())
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseStatisticRecord(rec []string, col map[string]int) (qcconfig.StatisticRow, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	f := func(name string) (float64, error) {
		v := field(name)
		if v == "" {
			return math.NaN(), nil
		}
		return strconv.ParseFloat(v, 64)
	}
	month, err := strconv.Atoi(field("month"))
	if err != nil {
		return qcconfig.StatisticRow{}, err
	}

	row := qcconfig.StatisticRow{SeaBasin: field("sea_basin"), Month: month}
	values := map[string]*float64{
		"min_depth": &row.MinDepth, "max_depth": &row.MaxDepth,
		"min_range_value": &row.MinRangeValue, "max_range_value": &row.MaxRangeValue,
		"flag1_lower": &row.Flag1Lower, "flag1_upper": &row.Flag1Upper,
		"flag2_lower": &row.Flag2Lower, "flag2_upper": &row.Flag2Upper,
		"flag3_lower": &row.Flag3Lower, "flag3_upper": &row.Flag3Upper,
	}
	for name, dst := range values {
		v, err := f(name)
		if err != nil {
			return qcconfig.StatisticRow{}, err
		}
		*dst = v
	}
	return row, nil
}
