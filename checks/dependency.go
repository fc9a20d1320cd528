package checks

import (
	"fmt"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// dependencyPriority is the scan order used to pick a single representative
// digit out of the concatenated quality_flag_long strings of the
// dependency parameters: worst verdicts first, then the non-verdict codes.
var dependencyPriority = []qcflag.Flag{
	qcflag.BadData, qcflag.BadDataCorrectable, qcflag.ProbablyGoodData, qcflag.GoodData,
	qcflag.MissingValue, qcflag.InterpolatedValue, qcflag.ValueInExcess,
	qcflag.BelowDetection, qcflag.ValueChanged, qcflag.NoQcPerformed,
}

// DependencyCheck derives a parameter's flag from the combined
// quality_flag_long strings of a configured list of sibling parameters at
// the same (visit_key, DEPH).
type DependencyCheck struct{}

func (DependencyCheck) Field() qcflag.Field          { return qcflag.Dependency }
func (DependencyCheck) Category() qcconfig.Category { return qcconfig.CategoryDependency }

func (c DependencyCheck) Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry) {
	cfg, ok := entry.(qcconfig.DependencyEntry)
	if !ok {
		return
	}
	members := make(map[string]bool, len(cfg.ParameterList))
	for _, p := range cfg.ParameterList {
		members[p] = true
	}
	combined := make(map[qcframe.VisitDepthKey]string)
	for _, r := range frame.Select(func(r *qcframe.Row) bool { return members[r.Parameter] }) {
		key := qcframe.VisitDepthKey{VisitKey: r.VisitKey, Deph: r.Deph}
		combined[key] += r.Flags.String()
	}

	rows := frame.ByParameter(parameter)
	runWithMissingPreamble(c.Field(), parameter, rows, func(w Writer, present []*qcframe.Row) {
		for _, row := range present {
			key := qcframe.VisitDepthKey{VisitKey: row.VisitKey, Deph: row.Deph}
			text := combined[key]

			found, ok := firstByPriority(text)
			if !ok || !(found == qcflag.GoodData || found == qcflag.ProbablyGoodData || found == qcflag.BadDataCorrectable || found == qcflag.BadData) {
				w.Write(row, qcflag.NoQcPerformed, "no verdict digit found among dependency parameters")
				continue
			}
			w.Write(row, found, fmt.Sprintf("derived from dependency parameters: %s", found.Label()))
		}
	})
}

// firstByPriority scans text for the first code appearing in
// dependencyPriority order, not the first character of text itself.
func firstByPriority(text string) (qcflag.Flag, bool) {
	present := make(map[qcflag.Flag]bool)
	for i := 0; i < len(text); i++ {
		present[qcflag.Flag(text[i])] = true
	}
	for _, f := range dependencyPriority {
		if present[f] {
			return f, true
		}
	}
	return 0, false
}
