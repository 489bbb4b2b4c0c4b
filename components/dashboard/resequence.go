package dashboard

import "sort"

// Resequence renumbers orders into 1..n with visible widgets first. Visible and
// hidden widgets each keep their relative order; ties keep input order. The
// input slice is not modified.
func Resequence(prefs []WidgetPreference) []WidgetPreference {
	visible, hidden := splitByVisibility(prefs)
	sortByOrder(visible)
	sortByOrder(hidden)
	out := make([]WidgetPreference, 0, len(prefs))
	out = append(out, visible...)
	out = append(out, hidden...)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// Normalize resequences and fills nil settings so lists can be compared structurally.
func Normalize(prefs []WidgetPreference) []WidgetPreference {
	out := Resequence(prefs)
	for i := range out {
		if out[i].Settings == nil {
			out[i].Settings = map[string]any{}
		}
	}
	return out
}

func splitByVisibility(prefs []WidgetPreference) (visible, hidden []WidgetPreference) {
	visible = make([]WidgetPreference, 0, len(prefs))
	hidden = make([]WidgetPreference, 0, len(prefs))
	for _, pref := range prefs {
		if pref.IsVisible {
			visible = append(visible, pref)
		} else {
			hidden = append(hidden, pref)
		}
	}
	return visible, hidden
}

func sortByOrder(prefs []WidgetPreference) {
	sort.SliceStable(prefs, func(i, j int) bool {
		return prefs[i].Order < prefs[j].Order
	})
}
