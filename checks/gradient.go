package checks

import (
	"fmt"
	"math"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// GradientCheck flags the rate of change between consecutive depths in a
// profile when it falls outside an allowed interval.
type GradientCheck struct{}

func (GradientCheck) Field() qcflag.Field          { return qcflag.Gradient }
func (GradientCheck) Category() qcconfig.Category { return qcconfig.CategoryGradient }

func (c GradientCheck) Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	cfg, ok := entry.(qcconfig.GradientEntry)
	if !ok {
		return
	}
	rows := frame.ByParameter(parameter)
	runWithMissingPreamble(c.Field(), parameter, rows, func(w Writer, present []*qcframe.Row) {
		for _, profile := range qcframe.GroupByVisit(present) {
			qcframe.SortByDepth(profile)
			shiftedValue := qcframe.ShiftValue(profile)
			for i, row := range profile {
				if math.IsNaN(shiftedValue[i]) {
					w.Write(row, qcflag.NoQcPerformed, "first depth of profile")
					continue
				}
				prevDeph := profile[i-1].Deph
				g := (row.Value - shiftedValue[i]) / (row.Deph - prevDeph)
				if g >= cfg.AllowedDecrease && g <= cfg.AllowedIncrease {
					w.Write(row, qcflag.GoodData, fmt.Sprintf("gradient %g within [%g, %g]", g, cfg.AllowedDecrease, cfg.AllowedIncrease))
				} else {
					w.Write(row, qcflag.BadData, fmt.Sprintf("gradient %g outside [%g, %g]", g, cfg.AllowedDecrease, cfg.AllowedIncrease))
				}
			}
		}
	})
}
