package dashboard

import "context"

// Provider fetches data required to render a widget on a classroom board.
type Provider interface {
	Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, meta WidgetContext) (WidgetData, error)

// Fetch calls f.
func (f ProviderFunc) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	return f(ctx, meta)
}

// WidgetContext contains the metadata needed by providers.
type WidgetContext struct {
	ClassroomID string
	Widget      ResolvedWidgetPreference
	Viewer      ViewerContext
	Translator  TranslationService
}

// Setting returns a widget setting, falling back when absent.
func (m WidgetContext) Setting(key string) (any, bool) {
	if m.Widget.Settings == nil {
		return nil, false
	}
	v, ok := m.Widget.Settings[key]
	return v, ok
}

// WidgetData is an opaque payload passed to templates.
type WidgetData map[string]any
