package checks

import (
	"fmt"
	"math"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// ConsistencyCheck compares a target measurement against the sum of a
// configured list of sibling parameters at the same (visit_key, DEPH). A
// target of "TOC" converts its own value by a named mg/l -> umol/l factor
// before subtracting, instead of the ad hoc constant the original check
// hard-coded.
type ConsistencyCheck struct{}

func (ConsistencyCheck) Field() qcflag.Field          { return qcflag.Consistency }
func (ConsistencyCheck) Category() qcconfig.Category { return qcconfig.CategoryConsistency }

func (c ConsistencyCheck) Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	cfg, ok := entry.(qcconfig.ConsistencyEntry)
	if !ok {
		return
	}
	members := make(map[string]bool, len(cfg.ParameterList))
	for _, p := range cfg.ParameterList {
		members[p] = true
	}
	sums := groupSum(frame.Select(func(r *qcframe.Row) bool { return members[r.Parameter] }))

	rows := frame.ByParameter(parameter)
	runWithMissingPreamble(c.Field(), parameter, rows, func(w Writer, present []*qcframe.Row) {
		for _, row := range present {
			key := qcframe.VisitDepthKey{VisitKey: row.VisitKey, Deph: row.Deph}
			sum, ok := sums[key]
			if !ok || math.IsNaN(sum) {
				w.Write(row, qcflag.NoQcPerformed, "no members with a value to sum")
				continue
			}

			value := row.Value
			if parameter == "TOC" {
				value *= cfg.TocConversion
			}
			diff := value - sum

			switch {
			case diff >= cfg.GoodLower && diff <= cfg.GoodUpper:
				w.Write(row, qcflag.GoodData, fmt.Sprintf("diff %g within good range [%g, %g]", diff, cfg.GoodLower, cfg.GoodUpper))
			case diff >= cfg.MaxLower && diff <= cfg.MaxUpper:
				w.Write(row, qcflag.BadDataCorrectable, fmt.Sprintf("diff %g within max range [%g, %g]", diff, cfg.MaxLower, cfg.MaxUpper))
			default:
				w.Write(row, qcflag.BadData, fmt.Sprintf("diff %g outside max range [%g, %g]", diff, cfg.MaxLower, cfg.MaxUpper))
			}
		}
	})
}

// groupSum sums Value per (visit_key, DEPH), treating null members as 0 but
// leaving the group sum null (NaN) when every member in the group is null.
func groupSum(rows []*qcframe.Row) map[qcframe.VisitDepthKey]float64 {
	sums := make(map[qcframe.VisitDepthKey]float64)
	anyValue := make(map[qcframe.VisitDepthKey]bool)
	for _, r := range rows {
		key := qcframe.VisitDepthKey{VisitKey: r.VisitKey, Deph: r.Deph}
		if !r.HasValue() {
			if _, seen := sums[key]; !seen {
				sums[key] = 0
			}
			continue
		}
		sums[key] += r.Value
		anyValue[key] = true
	}
	for key := range sums {
		if !anyValue[key] {
			sums[key] = math.NaN()
		}
	}
	return sums
}
