package dashboard

// ArrayMove returns a copy of items with the element at from moved to to,
// shifting the elements in between.
func ArrayMove[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from == to || from < 0 || to < 0 || from >= len(out) || to >= len(out) {
		return out
	}
	item := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = item
	return out
}

// MoveVisible moves activeID to the position of overID within the visible
// widgets. Hidden widgets are appended untouched and the result is resequenced.
// The second return value is false when nothing moved.
func MoveVisible(prefs []WidgetPreference, activeID, overID string) ([]WidgetPreference, bool) {
	if activeID == "" || overID == "" || activeID == overID {
		return prefs, false
	}
	visible, hidden := splitByVisibility(Resequence(prefs))
	from := indexOfWidget(visible, activeID)
	to := indexOfWidget(visible, overID)
	if from < 0 || to < 0 {
		return prefs, false
	}
	moved := ArrayMove(visible, from, to)
	return Resequence(append(moved, hidden...)), true
}

// MoveVisibleBy shifts a visible widget by delta positions, clamped to the
// visible list bounds. It is the keyboard equivalent of MoveVisible.
func MoveVisibleBy(prefs []WidgetPreference, widgetID string, delta int) ([]WidgetPreference, bool) {
	visible, _ := splitByVisibility(Resequence(prefs))
	from := indexOfWidget(visible, widgetID)
	if from < 0 || delta == 0 {
		return prefs, false
	}
	to := clamp(from+delta, 0, len(visible)-1)
	if to == from {
		return prefs, false
	}
	return MoveVisible(prefs, widgetID, visible[to].WidgetID)
}

func indexOfWidget(prefs []WidgetPreference, widgetID string) int {
	for i, pref := range prefs {
		if pref.WidgetID == widgetID {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
