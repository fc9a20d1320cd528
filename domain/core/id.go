package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID is a generic domain identifier.
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation.
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty.
func (id ID) IsEmpty() bool {
	return id == ""
}

// RowID stably identifies a row within a frame across expand/collapse cycles.
// It is assigned once when the row first enters a qcframe.Frame and never reused, so joins back to the
// master frame after a check's vectorized selection always land on the right row.
type RowID ID

// NewRowID creates a new row identifier.
func NewRowID() RowID {
	return RowID(NewID())
}

func (id RowID) String() string {
	return string(id)
}

// ParseID validates a non-empty identifier string.
func ParseID(s string) (ID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("id cannot be empty")
	}
	return ID(s), nil
}
