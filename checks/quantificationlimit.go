package checks

import (
	"fmt"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// QuantificationLimitCheck flags values below a parameter's quantification
// limit, and values exactly on it unless their incoming flag is GoodData,
// per row when LmqntVal is present, otherwise by the category's global
// fallback.
type QuantificationLimitCheck struct{}

func (QuantificationLimitCheck) Field() qcflag.Field { return qcflag.QuantificationLimit }
func (QuantificationLimitCheck) Category() qcconfig.Category {
	return qcconfig.CategoryQuantificationLimit
}

func (c QuantificationLimitCheck) Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	cfg, ok := entry.(qcconfig.QuantificationLimitEntry)
	if !ok {
		return
	}
	rows := frame.ByParameter(parameter)
	runWithMissingPreamble(c.Field(), parameter, rows, func(w Writer, present []*qcframe.Row) {
		for _, row := range present {
			limit := row.EffectiveLimit(cfg.Limit)
			incoming := row.Flags.Incoming()

			switch {
			case row.Value > limit:
				w.Write(row, qcflag.GoodData, fmt.Sprintf("%g above limit %g", row.Value, limit))
			case row.Value == limit && incoming == qcflag.GoodData:
				w.Write(row, qcflag.GoodData, fmt.Sprintf("%g delivered good on limit %g", row.Value, limit))
			case row.Value < limit, row.Value == limit && incoming == qcflag.BelowQuantification:
				w.Write(row, qcflag.BelowQuantification, fmt.Sprintf("%g at or below limit %g", row.Value, limit))
			default:
				w.Write(row, qcflag.BelowQuantification, fmt.Sprintf("%g at limit %g", row.Value, limit))
			}
		}
	})
}
