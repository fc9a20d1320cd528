package checks

import (
	"strings"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// H2sCheck flags a measurement as contaminated when hydrogen sulphide was
// detected at the same (visit_key, DEPH), unless the target row already
// carries one of the configured skip flags (typically "already below
// detection"), in which case the slot is set to BelowDetection. The H2S row itself is
// only considered a valid co-measurement when its own automatic tuple does
// not already carry a 6 (BelowDetection) or 4 (BadData) flag.
type H2sCheck struct{}

func (H2sCheck) Field() qcflag.Field          { return qcflag.H2s }
func (H2sCheck) Category() qcconfig.Category { return qcconfig.CategoryH2s }

func (c H2sCheck) Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	cfg, ok := entry.(qcconfig.H2sEntry)
	if !ok {
		return
	}
	h2sByKey := make(map[qcframe.VisitDepthKey]*qcframe.Row)
	for _, r := range frame.ByParameter("H2S") {
		automatic := r.Flags.Automatic().String()
		if strings.ContainsAny(automatic, "64") {
			continue
		}
		key := qcframe.VisitDepthKey{VisitKey: r.VisitKey, Deph: r.Deph}
		h2sByKey[key] = r
	}

	skip := func(qualityFlagLong string) bool {
		for _, code := range strings.Split(cfg.SkipFlag, "|") {
			if code != "" && strings.Contains(qualityFlagLong, code) {
				return true
			}
		}
		return false
	}

	rows := frame.ByParameter(parameter)
	runWithMissingPreamble(c.Field(), parameter, rows, func(w Writer, present []*qcframe.Row) {
		for _, row := range present {
			if skip(row.QualityFlagLong) {
				w.Write(row, qcflag.BelowDetection, "skip_flag present on target row, preserved")
				continue
			}
			key := qcframe.VisitDepthKey{VisitKey: row.VisitKey, Deph: row.Deph}
			h2s, ok := h2sByKey[key]
			if !ok || !h2s.HasValue() {
				w.Write(row, qcflag.GoodData, "no co-located H2S value")
				continue
			}
			w.Write(row, qcflag.BadData, "H2S present at same visit and depth")
		}
	})
}
