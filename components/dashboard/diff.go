package dashboard

import (
	"bytes"
	"encoding/json"
)

// HasChanges reports whether the draft differs from the stored layout once both
// are normalized. The comparison is order- and field-sensitive.
func HasChanges(draft, stored []WidgetPreference) bool {
	a, errA := json.Marshal(Normalize(draft))
	b, errB := json.Marshal(Normalize(stored))
	if errA != nil || errB != nil {
		// unserializable settings: treat as dirty so the user can still save
		return true
	}
	return !bytes.Equal(a, b)
}
