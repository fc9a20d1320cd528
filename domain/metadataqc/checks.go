package metadataqc

import (
	"fmt"
	"strconv"
	"time"

	"oceanqc/domain/qcflag"
)

// Check is one visit-level validator producing a verdict at a fixed Field.
type Check interface {
	Field() Field
	Run(visit *Visit) (Flag, string)
}

// Log mirrors the spec's "{field -> {parameter -> [messages]}}" structure,
// keyed here by category rather than by parameter since metadata checks
// are not parameter-scoped.
type Log map[Field][]string

// RunQc runs every registered metadata check over visit and returns the
// per-field verdict map plus a diagnostic log.
func RunQc(visit *Visit) (map[Field]Flag, Log) {
	results := make(map[Field]Flag, len(Fields))
	log := make(Log, len(Fields))
	for _, check := range battery() {
		flag, message := check.Run(visit)
		results[check.Field()] = flag
		if message != "" {
			log[check.Field()] = append(log[check.Field()], message)
		}
	}
	return results, log
}

func battery() []Check {
	return []Check{
		wadepCheck{},
		dateAndTimeCheck{now: time.Now},
		positionCheck{},
		commonValuesCheck{},
	}
}

// wadepCheck flags a cast whose recorded bottom depth (WADEP) is not deeper
// than the deepest sample actually taken.
type wadepCheck struct{}

func (wadepCheck) Field() Field { return Wadep }

func (wadepCheck) Run(visit *Visit) (Flag, string) {
	wadepValues := visit.Metadata("WADEP")
	if len(wadepValues) == 0 {
		return qcflag.NoQcPerformed, "no WADEP recorded"
	}
	wadep, err := strconv.ParseFloat(wadepValues[0], 64)
	if err != nil {
		return qcflag.NoQcPerformed, fmt.Sprintf("WADEP %q not numeric", wadepValues[0])
	}

	var maxDepth float64
	for _, d := range visit.WaterDepths() {
		if d > maxDepth {
			maxDepth = d
		}
	}
	if maxDepth >= wadep {
		return qcflag.BadData, fmt.Sprintf("sample depth %g >= recorded bottom depth %g", maxDepth, wadep)
	}
	return qcflag.GoodData, ""
}

// dateAndTimeCheck flags a cast whose recorded date is in the future. This
// is the only check in the system that reads the wall clock.
type dateAndTimeCheck struct {
	now func() time.Time
}

func (dateAndTimeCheck) Field() Field { return DateAndTime }

func (c dateAndTimeCheck) Run(visit *Visit) (Flag, string) {
	times := visit.Times()
	if len(times) == 0 {
		return qcflag.NoQcPerformed, "no date recorded"
	}
	today := c.now()
	for _, pair := range times {
		date := pair[0]
		if date == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return qcflag.NoQcPerformed, fmt.Sprintf("date %q not parseable", date)
		}
		if t.After(today) {
			return qcflag.BadData, fmt.Sprintf("date %q is in the future", date)
		}
	}
	return qcflag.GoodData, ""
}

// positionCheck flags a cast whose position varies across its own samples,
// which should not happen within a single station cast.
type positionCheck struct{}

func (positionCheck) Field() Field { return Position }

func (positionCheck) Run(visit *Visit) (Flag, string) {
	positions := visit.Positions()
	if len(positions) == 0 {
		return qcflag.NoQcPerformed, "no position recorded"
	}
	if len(positions) > 1 {
		return qcflag.BadData, fmt.Sprintf("%d distinct positions recorded for one visit", len(positions))
	}
	return qcflag.GoodData, ""
}

// commonValuesCheck flags a cast whose station-identifying metadata
// (cruise, ship, station, series) is inconsistent across its own samples.
type commonValuesCheck struct{}

func (commonValuesCheck) Field() Field { return CommonValues }

func (commonValuesCheck) Run(visit *Visit) (Flag, string) {
	for _, field := range []string{"CRUISE_NO", "SHIPC", "STATN", "SERNO"} {
		if len(visit.Metadata(field)) > 1 {
			return qcflag.BadData, fmt.Sprintf("%s varies within visit", field)
		}
	}
	return qcflag.GoodData, ""
}
