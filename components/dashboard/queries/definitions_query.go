package queries

import (
	"context"

	dashboard "github.com/goliatone/go-classboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// DefinitionsInput optionally localizes titles for a viewer.
type DefinitionsInput struct {
	Locale string
}

type definitionSource interface {
	Definitions() []dashboard.WidgetDefinition
}

// DefinitionsQuery lists the registered widgets in default order.
type DefinitionsQuery struct {
	source definitionSource
}

// NewDefinitionsQuery builds the query.
func NewDefinitionsQuery(source definitionSource) *DefinitionsQuery {
	return &DefinitionsQuery{source: source}
}

var _ gocommand.Querier[DefinitionsInput, []dashboard.WidgetDefinition] = (*DefinitionsQuery)(nil)

// Query returns the definitions with Title and Description resolved for the locale.
func (q *DefinitionsQuery) Query(_ context.Context, input DefinitionsInput) ([]dashboard.WidgetDefinition, error) {
	if q.source == nil {
		return nil, nil
	}
	defs := q.source.Definitions()
	if input.Locale == "" {
		return defs, nil
	}
	out := make([]dashboard.WidgetDefinition, len(defs))
	for i, def := range defs {
		def.Title = def.TitleForLocale(input.Locale)
		def.Description = def.DescriptionForLocale(input.Locale)
		out[i] = def
	}
	return out, nil
}
