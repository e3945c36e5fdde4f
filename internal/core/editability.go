package core

import (
	"fmt"
	"time"
)

// EditableWindow is how long after creation a transaction may be updated or deleted.
const EditableWindow = 12 * time.Hour

// IsEditable reports whether a record created at createdAt is still inside
// the editable window at now. A createdAt after now counts as editable.
func IsEditable(createdAt, now time.Time) bool {
	return now.Sub(createdAt) < EditableWindow
}

// CheckEditable returns an error wrapping ErrNotEditable once the window has passed.
func CheckEditable(t Transaction, now time.Time) error {
	if IsEditable(t.CreatedAt, now) {
		return nil
	}
	return fmt.Errorf("transaction %d created at %s: %w",
		t.ID, t.CreatedAt.UTC().Format(time.RFC3339), ErrNotEditable)
}
