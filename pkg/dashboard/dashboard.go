package dashboard

import (
	core "github.com/goliatone/go-classboard/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// ViewerContext re-export for host applications resolving viewers.
type ViewerContext = core.ViewerContext

// Board re-export.
type Board = core.Board

// WidgetPreference re-export.
type WidgetPreference = core.WidgetPreference

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}
