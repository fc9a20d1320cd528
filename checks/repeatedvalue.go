package checks

import (
	"fmt"
	"math"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// RepeatedValueCheck flags a measurement that repeats the previous non-null
// value in its depth profile by exactly the configured sentinel difference.
type RepeatedValueCheck struct{}

func (RepeatedValueCheck) Field() qcflag.Field          { return qcflag.RepeatedValue }
func (RepeatedValueCheck) Category() qcconfig.Category { return qcconfig.CategoryRepeatedValue }

func (c RepeatedValueCheck) Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	cfg, ok := entry.(qcconfig.RepeatedValueEntry)
	if !ok {
		return
	}
	rows := frame.ByParameter(parameter)
	runWithMissingPreamble(c.Field(), parameter, rows, func(w Writer, present []*qcframe.Row) {
		for _, profile := range qcframe.GroupByVisit(present) {
			qcframe.SortByDepth(profile)
			prev := qcframe.PrevNonNull(profile)
			for i, row := range profile {
				if math.IsNaN(prev[i]) {
					w.Write(row, qcflag.GoodData, "first non-null of profile")
					continue
				}
				diff := row.Value - prev[i]
				if diff == cfg.RepeatedValue {
					w.Write(row, qcflag.ProbablyGoodData, "identical to depth above")
				} else {
					w.Write(row, qcflag.GoodData, fmt.Sprintf("differs from depth above by %g", diff))
				}
			}
		}
	})
}
