package checks

import (
	"fmt"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// RangeCheck flags values outside a fixed admissible closed interval.
type RangeCheck struct{}

func (RangeCheck) Field() qcflag.Field          { return qcflag.Range }
func (RangeCheck) Category() qcconfig.Category { return qcconfig.CategoryRange }

func (c RangeCheck) Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	cfg, ok := entry.(qcconfig.RangeEntry)
	if !ok {
		return
	}
	rows := frame.ByParameter(parameter)
	runWithMissingPreamble(c.Field(), parameter, rows, func(w Writer, present []*qcframe.Row) {
		for _, row := range present {
			if row.Value >= cfg.MinRangeValue && row.Value <= cfg.MaxRangeValue {
				w.Write(row, qcflag.GoodData, fmt.Sprintf("%g within [%g, %g]", row.Value, cfg.MinRangeValue, cfg.MaxRangeValue))
			} else {
				w.Write(row, qcflag.BadData, fmt.Sprintf("%g outside [%g, %g]", row.Value, cfg.MinRangeValue, cfg.MaxRangeValue))
			}
		}
	})
}
