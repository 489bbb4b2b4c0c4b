package dashboard

import (
	"context"
	"strings"
)

// PreferenceStore is the persistence gateway for per-classroom widget layouts.
// Implementations replace the whole list on save; there is no partial update.
type PreferenceStore interface {
	// LoadPreferences returns an empty slice (not an error) when nothing was saved yet.
	LoadPreferences(ctx context.Context, classroomID string) ([]StoredPreference, error)
	SavePreferences(ctx context.Context, classroomID string, prefs []WidgetPreference) error
}

// ProviderRegistry stores widget definitions/providers discoverable via hooks or manifests.
type ProviderRegistry interface {
	RegisterDefinition(def WidgetDefinition) error
	RegisterProvider(id string, provider Provider) error
	Definition(id string) (WidgetDefinition, bool)
	Provider(id string) (Provider, bool)
	Definitions() []WidgetDefinition
}

// RefreshHook notifies transports (REST/WebSocket) about committed layout changes.
type RefreshHook interface {
	PreferencesUpdated(ctx context.Context, event PreferenceEvent) error
}

// Authorizer decides whether a viewer may change a classroom layout.
type Authorizer interface {
	CanEditLayout(ctx context.Context, viewer ViewerContext, classroomID string) bool
}

// WidgetSize is the size category recorded with a widget preference. Every size
// currently renders at the same visual size.
type WidgetSize string

const (
	WidgetSizeSmall  WidgetSize = "small"
	WidgetSizeMedium WidgetSize = "medium"
	WidgetSizeLarge  WidgetSize = "large"
	WidgetSizeFull   WidgetSize = "full"
)

// Valid reports whether the size is one of the known categories.
func (s WidgetSize) Valid() bool {
	switch s {
	case WidgetSizeSmall, WidgetSizeMedium, WidgetSizeLarge, WidgetSizeFull:
		return true
	}
	return false
}

// ParseWidgetSize normalizes raw input into a WidgetSize.
func ParseWidgetSize(raw string) (WidgetSize, bool) {
	size := WidgetSize(strings.ToLower(strings.TrimSpace(raw)))
	return size, size.Valid()
}

// WidgetDefinition describes a dashboard widget kind and its layout defaults.
type WidgetDefinition struct {
	ID                   string            `json:"id" yaml:"id"`
	Title                string            `json:"title" yaml:"title"`
	TitleLocalized       map[string]string `json:"title_localized,omitempty" yaml:"title_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Icon                 string            `json:"icon,omitempty" yaml:"icon,omitempty"`
	Category             string            `json:"category,omitempty" yaml:"category,omitempty"`
	DefaultOrder         int               `json:"default_order" yaml:"default_order"`
	DefaultVisible       bool              `json:"default_visible" yaml:"default_visible"`
	DefaultSize          WidgetSize        `json:"default_size,omitempty" yaml:"default_size,omitempty"`
	DefaultSettings      map[string]any    `json:"default_settings,omitempty" yaml:"default_settings,omitempty"`
	Schema               map[string]any    `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// WidgetPreference is the persisted layout state of a single widget in a classroom.
type WidgetPreference struct {
	WidgetID  string         `json:"widgetId" bson:"widgetId"`
	Order     int            `json:"order" bson:"order"`
	IsVisible bool           `json:"isVisible" bson:"isVisible"`
	Size      WidgetSize     `json:"size" bson:"size"`
	Settings  map[string]any `json:"settings" bson:"settings"`
}

// StoredPreference is the untyped record shape returned by a PreferenceStore.
// Fields are kept loose because documents written by older clients may carry
// missing or malformed values; the resolver repairs them per field.
type StoredPreference struct {
	WidgetID  string         `json:"widgetId" bson:"widgetId"`
	Order     any            `json:"order,omitempty" bson:"order,omitempty"`
	IsVisible any            `json:"isVisible,omitempty" bson:"isVisible,omitempty"`
	Size      any            `json:"size,omitempty" bson:"size,omitempty"`
	Settings  map[string]any `json:"settings,omitempty" bson:"settings,omitempty"`
}

// StoredFrom converts committed preferences into the stored record shape.
func StoredFrom(prefs []WidgetPreference) []StoredPreference {
	out := make([]StoredPreference, 0, len(prefs))
	for _, pref := range prefs {
		out = append(out, StoredPreference{
			WidgetID:  pref.WidgetID,
			Order:     pref.Order,
			IsVisible: pref.IsVisible,
			Size:      string(pref.Size),
			Settings:  cloneSettings(pref.Settings),
		})
	}
	return out
}

// ResolvedWidgetPreference joins a preference with display metadata from its definition.
type ResolvedWidgetPreference struct {
	WidgetPreference
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Category    string `json:"category,omitempty"`
}

// ViewerContext captures the active user/classroom information needed to render boards.
type ViewerContext struct {
	UserID string
	Roles  []string
	Locale string
}

// HasRole reports whether the viewer carries the role (case-insensitive).
func (v ViewerContext) HasRole(role string) bool {
	for _, r := range v.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Board is the resolved widget list for a classroom.
type Board struct {
	ClassroomID string                     `json:"classroom_id"`
	Widgets     []ResolvedWidgetPreference `json:"widgets"`
	// Degraded is set when stored preferences could not be loaded and defaults were used.
	Degraded bool `json:"degraded,omitempty"`
	// Data holds provider payloads keyed by widget id, for visible widgets only.
	Data map[string]WidgetData `json:"data,omitempty"`
}

// Visible returns the visible widgets in order.
func (b Board) Visible() []ResolvedWidgetPreference {
	out := make([]ResolvedWidgetPreference, 0, len(b.Widgets))
	for _, w := range b.Widgets {
		if w.IsVisible {
			out = append(out, w)
		}
	}
	return out
}

// Preferences strips display metadata from the resolved widgets.
func (b Board) Preferences() []WidgetPreference {
	out := make([]WidgetPreference, len(b.Widgets))
	for i, w := range b.Widgets {
		out[i] = w.WidgetPreference
	}
	return out
}

// PreferenceEvent describes a committed layout change that transports and
// editors might care about.
type PreferenceEvent struct {
	ClassroomID string             `json:"classroom_id"`
	Reason      string             `json:"reason"`
	ActorID     string             `json:"actor_id,omitempty"`
	Preferences []WidgetPreference `json:"preferences,omitempty"`
}

func cloneSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	out := make(map[string]any, len(settings))
	for k, v := range settings {
		out[k] = v
	}
	return out
}
