package checks

import (
	"fmt"
	"math"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// SpikeCheck detects an isolated outlier relative to its depth-neighbours
// within a profile, weighting the neighbours by their distance to the
// sample under test. Rows already flagged BadData overall, and the first
// and last sample of a profile, are excluded from consideration.
type SpikeCheck struct{}

func (SpikeCheck) Field() qcflag.Field          { return qcflag.Spike }
func (SpikeCheck) Category() qcconfig.Category { return qcconfig.CategorySpike }

func (c SpikeCheck) Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	cfg, ok := entry.(qcconfig.SpikeEntry)
	if !ok {
		return
	}
	rows := frame.ByParameter(parameter)
	runWithMissingPreamble(c.Field(), parameter, rows, func(w Writer, present []*qcframe.Row) {
		eligible := make([]*qcframe.Row, 0, len(present))
		for _, r := range present {
			if r.Flags.Total() != qcflag.BadData {
				eligible = append(eligible, r)
			}
		}
		for _, profile := range qcframe.GroupByVisit(eligible) {
			qcframe.SortByDepth(profile)
			for i, row := range profile {
				if i == 0 || i == len(profile)-1 {
					w.Write(row, qcflag.NoQcPerformed, "profile edge, no both-sided neighbours")
					continue
				}
				prev, next := profile[i-1], profile[i+1]
				depthSpan := next.Deph - prev.Deph
				weightedRef := next.Value*math.Abs(row.Deph-next.Deph)/depthSpan +
					prev.Value*math.Abs(row.Deph-prev.Deph)/depthSpan
				spike := math.Abs(math.Abs(row.Value-weightedRef) - 0.5*math.Abs(next.Value-prev.Value))
				rate := math.Abs(next.Value-prev.Value) / math.Abs(next.Deph-prev.Deph)

				switch {
				case spike >= cfg.ThresholdHigh && rate <= cfg.RateOfChange:
					w.Write(row, qcflag.BadData, fmt.Sprintf("spike %g >= threshold_high %g, rate %g", spike, cfg.ThresholdHigh, rate))
				case spike >= cfg.ThresholdLow && spike < cfg.ThresholdHigh && rate <= cfg.RateOfChange:
					w.Write(row, qcflag.BadDataCorrectable, fmt.Sprintf("threshold_high %g > spike %g >= threshold_low %g, rate %g", cfg.ThresholdHigh, spike, cfg.ThresholdLow, rate))
				default:
					w.Write(row, qcflag.GoodData, fmt.Sprintf("spike %g below threshold_low %g, rate %g", spike, cfg.ThresholdLow, rate))
				}
			}
		}
	})
}
