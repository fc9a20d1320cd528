package checks

import (
	"fmt"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// StatisticCheck joins a row to a per-parameter statistics table by
// (sea_basin, month), filters to the half-open depth band
// [min_depth, max_depth), and classifies the value against three nested
// threshold bands. A missing join or out-of-band depth yields NoQcPerformed,
// never a silent verdict.
type StatisticCheck struct{}

func (StatisticCheck) Field() qcflag.Field          { return qcflag.Statistic }
func (StatisticCheck) Category() qcconfig.Category { return qcconfig.CategoryStatistic }

func (c StatisticCheck) Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	cfg, ok := entry.(*qcconfig.StatisticEntry)
	if !ok {
		return
	}
	rows := frame.ByParameter(parameter)
	runWithMissingPreamble(c.Field(), parameter, rows, func(w Writer, present []*qcframe.Row) {
		for _, row := range present {
			thresholds, ok := cfg.GetThresholds(row.SeaBasin, row.Deph, row.VisitMonth)
			if !ok {
				w.Write(row, qcflag.NoQcPerformed, fmt.Sprintf("no statistic thresholds for sea_basin=%s depth=%g month=%d", row.SeaBasin, row.Deph, row.VisitMonth))
				continue
			}

			v := row.Value
			switch {
			case v >= thresholds.Flag1Lower && v <= thresholds.Flag1Upper:
				w.Write(row, qcflag.GoodData, fmt.Sprintf("%g within flag1 band [%g, %g]", v, thresholds.Flag1Lower, thresholds.Flag1Upper))
			case (v > thresholds.Flag2Lower && v < thresholds.Flag1Lower) || (v > thresholds.Flag1Upper && v < thresholds.Flag2Upper):
				w.Write(row, qcflag.ProbablyGoodData, fmt.Sprintf("%g within flag2 band", v))
			case (v >= thresholds.Flag3Lower && v < thresholds.Flag2Lower) || (v > thresholds.Flag2Upper && v <= thresholds.Flag3Upper):
				w.Write(row, qcflag.BadDataCorrectable, fmt.Sprintf("%g within flag3 band", v))
			default:
				w.Write(row, qcflag.BadData, fmt.Sprintf("%g outside flag3 band [%g, %g]", v, thresholds.Flag3Lower, thresholds.Flag3Upper))
			}
		}
	})
}
