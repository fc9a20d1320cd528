// Package qcflag implements the canonical quality flag alphabet and the
// positional records used to compose incoming, automatic, manual and total
// verdicts for a single measurement row.
package qcflag

import (
	"fmt"
	"strconv"

	"oceanqc/domain/core"
)

// Flag is a finite tagged variant over the codes 0-9, Q, B, A.
type Flag byte

const (
	NoQcPerformed        Flag = '0'
	GoodData             Flag = '1'
	ProbablyGoodData     Flag = '2'
	BadDataCorrectable   Flag = '3'
	BadData              Flag = '4'
	ValueChanged         Flag = '5'
	BelowDetection       Flag = '6'
	ValueInExcess        Flag = '7'
	InterpolatedValue    Flag = '8'
	MissingValue         Flag = '9'
	BelowQuantification  Flag = 'Q'
	Nominal              Flag = 'B'
	Uncertain            Flag = 'A'
)

// priority lists flags worst-to-best; index is used as the sort key for
// aggregation ("worst wins"). Flag 0 sits last: during aggregation it is
// treated as absence, never as a verdict, so it only wins when nothing
// else is present.
var priority = []Flag{
	BadData, MissingValue, InterpolatedValue, ValueInExcess,
	Nominal, Uncertain, BelowQuantification,
	BelowDetection, ValueChanged, BadDataCorrectable,
	ProbablyGoodData, GoodData, NoQcPerformed,
}

var priorityRank = func() map[Flag]int {
	m := make(map[Flag]int, len(priority))
	for i, f := range priority {
		m[f] = i
	}
	return m
}()

// names give a human-readable label per flag, for reporting.
var names = map[Flag]string{
	NoQcPerformed:       "No QC performed",
	GoodData:            "Good data",
	ProbablyGoodData:    "Probably good data",
	BadDataCorrectable:  "Bad data, correctable",
	BadData:             "Bad data",
	ValueChanged:        "Value changed",
	BelowDetection:      "Below detection",
	ValueInExcess:       "Value in excess",
	InterpolatedValue:   "Interpolated value",
	MissingValue:        "Missing value",
	BelowQuantification: "Below quantification",
	Nominal:             "Nominal value",
	Uncertain:           "Uncertain",
}

// Parse accepts empty/null, a single character string, or an integer string
// equal to a code. Returns core.ErrInvalidFlag for anything else.
func Parse(value string) (Flag, error) {
	if value == "" {
		return NoQcPerformed, nil
	}
	if len(value) == 1 {
		f := Flag(value[0])
		if _, ok := priorityRank[f]; ok {
			return f, nil
		}
	}
	if n, err := strconv.Atoi(value); err == nil {
		f := Flag('0' + byte(n))
		if n >= 0 && n <= 9 {
			if _, ok := priorityRank[f]; ok {
				return f, nil
			}
		}
	}
	return 0, core.NewInvalidFlagError(value)
}

// MustParse parses value and panics on error. Intended for literal flags in
// test tables and configuration defaults, never for untrusted input.
func MustParse(value string) Flag {
	f, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return f
}

// String renders the flag's single external character.
func (f Flag) String() string {
	return string(rune(f))
}

// Label returns a human-readable description of the flag.
func (f Flag) Label() string {
	if l, ok := names[f]; ok {
		return l
	}
	return fmt.Sprintf("unknown flag %q", f.String())
}

// PriorityRank returns the index of the flag in the worst-to-best priority
// list. Lower is worse. Used for min-by-priority aggregation.
func (f Flag) PriorityRank() int {
	if r, ok := priorityRank[f]; ok {
		return r
	}
	// Unknown flags sort as worst-of-the-worst so they are never silently
	// preferred over a recognized verdict.
	return -1
}

// Valid reports whether f is a recognized member of the flag alphabet.
func (f Flag) Valid() bool {
	_, ok := priorityRank[f]
	return ok
}

// Worst returns the flag with the lower (worse) priority rank among a and b.
func Worst(a, b Flag) Flag {
	if a.PriorityRank() <= b.PriorityRank() {
		return a
	}
	return b
}

// WorstOf returns the priority-worst non-zero flag among flags, or
// NoQcPerformed if flags is empty or every member is NoQcPerformed.
func WorstOf(flags ...Flag) Flag {
	best := NoQcPerformed
	found := false
	for _, f := range flags {
		if f == NoQcPerformed {
			continue
		}
		if !found || f.PriorityRank() < best.PriorityRank() {
			best = f
			found = true
		}
	}
	return best
}
