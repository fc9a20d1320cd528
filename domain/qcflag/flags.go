package qcflag

import (
	"strings"

	"oceanqc/domain/core"
)

// QcFlags is the four-part composite record carried by every row:
// incoming, the per-check automatic tuple, manual, and the derived total.
type QcFlags struct {
	incoming  Flag
	automatic FlagTuple
	manual    Flag
	total     Flag
}

// New builds a QcFlags with every slot at NoQcPerformed and an automatic
// tuple sized to the number of registered check fields.
func New() QcFlags {
	q := QcFlags{
		incoming:  NoQcPerformed,
		automatic: NewDefaultFlagTuple(int(numFields)),
		manual:    NoQcPerformed,
	}
	q.refreshTotal()
	return q
}

// DefaultString is the canonical zero-value string form, used to seed
// quality_flag_long when a row arrives without one.
const DefaultString = "0_0000000000_0_0"

// Incoming returns the incoming flag.
func (q QcFlags) Incoming() Flag { return q.incoming }

// Automatic returns a copy of the automatic tuple.
func (q QcFlags) Automatic() FlagTuple { return FlagTuple{elements: q.automatic.Elements()} }

// Manual returns the manual flag.
func (q QcFlags) Manual() Flag { return q.manual }

// Total returns the derived total flag.
func (q QcFlags) Total() Flag { return q.total }

// GetField returns the automatic flag at field's slot.
func (q QcFlags) GetField(field Field) Flag {
	return q.automatic.GetField(field)
}

// SetIncoming sets the incoming flag and refreshes total.
func (q *QcFlags) SetIncoming(f Flag) error {
	if !f.Valid() {
		return core.NewInvalidFlagError(f.String())
	}
	q.incoming = f
	q.refreshTotal()
	return nil
}

// SetManual sets the manual flag and refreshes total.
func (q *QcFlags) SetManual(f Flag) error {
	if !f.Valid() {
		return core.NewInvalidFlagError(f.String())
	}
	q.manual = f
	q.refreshTotal()
	return nil
}

// SetAutomatic replaces the entire automatic tuple and refreshes total.
func (q *QcFlags) SetAutomatic(t FlagTuple) {
	q.automatic = t
	q.refreshTotal()
}

// SetField sets a single automatic slot and refreshes total.
func (q *QcFlags) SetField(field Field, f Flag) error {
	if err := q.automatic.SetField(field, f); err != nil {
		return err
	}
	q.refreshTotal()
	return nil
}

// refreshTotal recomputes total per the §4.3 algorithm:
// manual wins outright if set; otherwise the priority-worst of
// {incoming} ∪ automatic, excluding NoQcPerformed, or NoQcPerformed
// if nothing remains.
func (q *QcFlags) refreshTotal() {
	if q.manual != NoQcPerformed {
		q.total = q.manual
		return
	}
	q.total = q.TotalAutomatic()
	if q.incoming != NoQcPerformed {
		q.total = WorstOf(q.total, q.incoming)
	}
}

// TotalAutomatic is the worst-wins reduction restricted to the automatic
// tuple alone, ignoring incoming and manual.
func (q QcFlags) TotalAutomatic() Flag {
	return WorstOf(q.automatic.Elements()...)
}

// TotalAutomaticSource returns the fields whose automatic flag equals the
// value returned by TotalAutomatic (the slots that drove the worst-wins
// verdict). Empty when TotalAutomatic is NoQcPerformed.
func (q QcFlags) TotalAutomaticSource() []Field {
	worst := q.TotalAutomatic()
	if worst == NoQcPerformed {
		return nil
	}
	var sources []Field
	for _, field := range Fields {
		if q.automatic.GetField(field) == worst {
			sources = append(sources, field)
		}
	}
	return sources
}

// String renders the canonical "incoming_automatic_manual_total" form.
func (q QcFlags) String() string {
	var b strings.Builder
	b.WriteString(q.incoming.String())
	b.WriteByte('_')
	b.WriteString(q.automatic.String())
	b.WriteByte('_')
	b.WriteString(q.manual.String())
	b.WriteByte('_')
	b.WriteString(q.total.String())
	return b.String()
}

// FromString parses the four-part grammar "incoming_automatic_manual_total".
// An empty string yields New(). Any other shape that does not match the
// grammar is a data corruption class error.
func FromString(value string) (QcFlags, error) {
	if value == "" {
		return New(), nil
	}
	parts := strings.Split(value, "_")
	if len(parts) != 4 {
		return QcFlags{}, core.NewMalformedFlagError(value)
	}

	incoming, err := Parse(parts[0])
	if err != nil {
		return QcFlags{}, core.NewMalformedFlagError(value)
	}
	automatic, err := ParseFlagTuple(parts[1])
	if err != nil {
		return QcFlags{}, core.NewMalformedFlagError(value)
	}
	manual, err := Parse(parts[2])
	if err != nil {
		return QcFlags{}, core.NewMalformedFlagError(value)
	}
	// parts[3] (total) is re-derived rather than trusted, matching the
	// invariant that total is always a computed value.
	q := QcFlags{incoming: incoming, automatic: automatic, manual: manual}
	q.refreshTotal()
	return q, nil
}
