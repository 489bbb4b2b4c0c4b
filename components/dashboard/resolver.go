package dashboard

import (
	"encoding/json"
	"math"
	"sort"
)

// ResolvePreferences merges stored preferences with the registry defaults.
// Every definition appears exactly once; stored entries for unknown widgets are
// ignored and malformed fields fall back to the definition default.
func ResolvePreferences(defs []WidgetDefinition, stored []StoredPreference) []ResolvedWidgetPreference {
	index := make(map[string]StoredPreference, len(stored))
	for _, entry := range stored {
		if entry.WidgetID == "" {
			continue
		}
		if _, dup := index[entry.WidgetID]; dup {
			continue
		}
		index[entry.WidgetID] = entry
	}
	resolved := make([]ResolvedWidgetPreference, 0, len(defs))
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			continue
		}
		if _, dup := seen[def.ID]; dup {
			continue
		}
		seen[def.ID] = struct{}{}
		pref := defaultPreference(def)
		if entry, ok := index[def.ID]; ok {
			pref = mergeStored(pref, entry)
		}
		resolved = append(resolved, resolveWith(def, pref))
	}
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Order < resolved[j].Order
	})
	return resolved
}

// DefaultPreferences builds a preference list purely from definition defaults.
func DefaultPreferences(defs []WidgetDefinition) []WidgetPreference {
	resolved := ResolvePreferences(defs, nil)
	out := make([]WidgetPreference, len(resolved))
	for i, r := range resolved {
		out[i] = r.WidgetPreference
	}
	return out
}

// ResolveWith attaches display metadata to already-normalized preferences,
// dropping any entry whose widget is missing from defs.
func ResolveWith(defs []WidgetDefinition, prefs []WidgetPreference) []ResolvedWidgetPreference {
	byID := make(map[string]WidgetDefinition, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}
	out := make([]ResolvedWidgetPreference, 0, len(prefs))
	for _, pref := range prefs {
		def, ok := byID[pref.WidgetID]
		if !ok {
			continue
		}
		out = append(out, resolveWith(def, pref))
	}
	return out
}

func resolveWith(def WidgetDefinition, pref WidgetPreference) ResolvedWidgetPreference {
	return ResolvedWidgetPreference{
		WidgetPreference: pref,
		Title:            def.Title,
		Description:      def.Description,
		Icon:             def.Icon,
		Category:         def.Category,
	}
}

func defaultPreference(def WidgetDefinition) WidgetPreference {
	size := def.DefaultSize
	if !size.Valid() {
		size = WidgetSizeMedium
	}
	settings := cloneSettings(def.DefaultSettings)
	if settings == nil {
		settings = map[string]any{}
	}
	return WidgetPreference{
		WidgetID:  def.ID,
		Order:     def.DefaultOrder,
		IsVisible: def.DefaultVisible,
		Size:      size,
		Settings:  settings,
	}
}

func mergeStored(pref WidgetPreference, entry StoredPreference) WidgetPreference {
	if order, ok := coerceOrder(entry.Order); ok {
		pref.Order = order
	}
	if visible, ok := entry.IsVisible.(bool); ok {
		pref.IsVisible = visible
	}
	if raw, ok := entry.Size.(string); ok {
		if size, ok := ParseWidgetSize(raw); ok {
			pref.Size = size
		}
	}
	if entry.Settings != nil {
		pref.Settings = cloneSettings(entry.Settings)
	}
	return pref
}

// coerceOrder accepts integral and floating numbers within int32 range.
// Anything else, including NaN, infinities and huge magnitudes, is malformed.
func coerceOrder(raw any) (int, bool) {
	var f float64
	switch v := raw.(type) {
	case int:
		f = float64(v)
	case int32:
		return int(v), true
	case int64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Round(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
