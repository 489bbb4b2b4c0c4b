package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const widgetPreferencesKey = "widget_preferences"

var errMissingClassroom = errors.New("dashboard: classroom id is required")

// KeyedPreferenceStore persists preference lists as JSON documents in a KeyedStore.
type KeyedPreferenceStore struct {
	store KeyedStore
}

// NewKeyedPreferenceStore wraps a keyed store.
func NewKeyedPreferenceStore(store KeyedStore) *KeyedPreferenceStore {
	if store == nil {
		store = NewMemoryKeyedStore()
	}
	return &KeyedPreferenceStore{store: store}
}

// NewInMemoryPreferenceStore provides a concurrency-safe default store.
func NewInMemoryPreferenceStore() *KeyedPreferenceStore {
	return NewKeyedPreferenceStore(NewMemoryKeyedStore())
}

// LoadPreferences returns the stored list, or an empty slice when none exists.
func (s *KeyedPreferenceStore) LoadPreferences(ctx context.Context, classroomID string) ([]StoredPreference, error) {
	if classroomID == "" {
		return nil, errMissingClassroom
	}
	raw, ok, err := s.store.Get(ctx, ClassroomScope(classroomID), widgetPreferencesKey)
	if err != nil {
		return nil, fmt.Errorf("dashboard: load preferences for %s: %w", classroomID, err)
	}
	if !ok || len(raw) == 0 {
		return []StoredPreference{}, nil
	}
	var stored []StoredPreference
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("dashboard: decode preferences for %s: %w", classroomID, err)
	}
	return stored, nil
}

// SavePreferences replaces the stored list for the classroom.
func (s *KeyedPreferenceStore) SavePreferences(ctx context.Context, classroomID string, prefs []WidgetPreference) error {
	if classroomID == "" {
		return errMissingClassroom
	}
	if prefs == nil {
		prefs = []WidgetPreference{}
	}
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("dashboard: encode preferences for %s: %w", classroomID, err)
	}
	return s.store.Set(ctx, ClassroomScope(classroomID), widgetPreferencesKey, raw)
}
