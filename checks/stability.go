package checks

import (
	"fmt"
	"math"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// StabilityCheck classifies the depth-to-depth decrease within a profile
// into four bands. The first sample of a profile has no predecessor and is
// NoQcPerformed.
type StabilityCheck struct{}

func (StabilityCheck) Field() qcflag.Field          { return qcflag.Stability }
func (StabilityCheck) Category() qcconfig.Category { return qcconfig.CategoryStability }

func (c StabilityCheck) Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	cfg, ok := entry.(qcconfig.StabilityEntry)
	if !ok {
		return
	}
	rows := frame.ByParameter(parameter)
	runWithMissingPreamble(c.Field(), parameter, rows, func(w Writer, present []*qcframe.Row) {
		for _, profile := range qcframe.GroupByVisit(present) {
			qcframe.SortByDepth(profile)
			shifted := qcframe.ShiftValue(profile)
			for i, row := range profile {
				if math.IsNaN(shifted[i]) {
					w.Write(row, qcflag.NoQcPerformed, "first depth of profile")
					continue
				}
				d := row.Value - shifted[i]
				switch {
				case d < cfg.BadDecrease:
					w.Write(row, qcflag.BadData, fmt.Sprintf("decrease %g below bad threshold %g", d, cfg.BadDecrease))
				case d < cfg.ProbablyBadDecrease:
					w.Write(row, qcflag.BadDataCorrectable, fmt.Sprintf("decrease %g below probably-bad threshold %g", d, cfg.ProbablyBadDecrease))
				case d < cfg.ProbablyGoodDecrease:
					w.Write(row, qcflag.ProbablyGoodData, fmt.Sprintf("decrease %g below probably-good threshold %g", d, cfg.ProbablyGoodDecrease))
				default:
					w.Write(row, qcflag.GoodData, fmt.Sprintf("decrease %g at or above probably-good threshold %g", d, cfg.ProbablyGoodDecrease))
				}
			}
		}
	})
}
