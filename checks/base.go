// Package checks implements the ordered battery of per-parameter QC
// algorithms (C6) on top of the Check Base lifecycle (C5): each check
// borrows the frame, computes a flag and explanatory text for the rows of
// one parameter, and writes back only its own slot in the automatic tuple.
package checks

import (
	"fmt"

	"oceanqc/domain/qcconfig"
	"oceanqc/domain/qcflag"
	"oceanqc/domain/qcframe"
)

// Check is one QC rule producing a per-row flag at its fixed Field position.
type Check interface {
	// Field is the check's fixed slot in the automatic flag tuple.
	Field() qcflag.Field

	// Category names the configuration family this check reads from.
	Category() qcconfig.Category

	// Run executes the check for every row of the given parameter in
	// frame, using entry for thresholds. It must write only its own
	// Field slot and must be idempotent given the same frame and entry.
	Run(frame *qcframe.Frame, parameter string, entry qcconfig.Entry)
}

// Writer scopes row mutation to exactly one check's automatic-tuple slot.
// A check can only ever obtain a Writer for its own field, which is what
// gives positional purity for free: there is no call that can touch a
// sibling slot.
type Writer struct {
	field qcflag.Field
}

// Write sets row's flag and explanatory text at the owning field.
func (w Writer) Write(row *qcframe.Row, flag qcflag.Flag, info string) {
	_ = row.Flags.SetField(w.field, flag)
	row.Info[w.field] = info
}

// missingInfo is the shared explanatory text for the missing-value preamble.
func missingInfo(parameter string) string {
	return fmt.Sprintf("missing no value for %s", parameter)
}

// runWithMissingPreamble applies the missing-value rule every check shares
// (null value -> MissingValue, "missing no value for P") before handing the
// remaining present rows to compute.
func runWithMissingPreamble(field qcflag.Field, parameter string, rows []*qcframe.Row, compute func(w Writer, present []*qcframe.Row)) {
	w := Writer{field: field}
	present := make([]*qcframe.Row, 0, len(rows))
	for _, r := range rows {
		if !r.HasValue() {
			w.Write(r, qcflag.MissingValue, missingInfo(parameter))
			continue
		}
		present = append(present, r)
	}
	compute(w, present)
}

// GetCheckByField is the factory binding each QcField to its Check
// implementation, mirroring the static category-to-check dispatch the
// orchestrator relies on to enforce the category/field bijection.
func GetCheckByField(field qcflag.Field) Check {
	switch field {
	case qcflag.QuantificationLimit:
		return &QuantificationLimitCheck{}
	case qcflag.Range:
		return &RangeCheck{}
	case qcflag.Statistic:
		return &StatisticCheck{}
	case qcflag.RepeatedValue:
		return &RepeatedValueCheck{}
	case qcflag.Stability:
		return &StabilityCheck{}
	case qcflag.Gradient:
		return &GradientCheck{}
	case qcflag.Spike:
		return &SpikeCheck{}
	case qcflag.Consistency:
		return &ConsistencyCheck{}
	case qcflag.H2s:
		return &H2sCheck{}
	case qcflag.Dependency:
		return &DependencyCheck{}
	default:
		return nil
	}
}

// Battery returns every check in QcField declaration order, the order the
// orchestrator must run them in.
func Battery() []Check {
	battery := make([]Check, 0, len(qcflag.Fields))
	for _, field := range qcflag.Fields {
		battery = append(battery, GetCheckByField(field))
	}
	return battery
}
