package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-classboard/pkg/activity"
	"go.uber.org/zap"
)

// ErrForbidden is returned when a viewer may not change a classroom layout.
var ErrForbidden = errors.New("dashboard: viewer cannot edit this classroom layout")

const (
	verbLayoutSave   = "classroom.layout.save"
	verbLayoutReset  = "classroom.layout.reset"
	objectTypeLayout = "classroom_layout"
)

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	PreferenceStore PreferenceStore
	Providers       ProviderRegistry
	ConfigValidator ConfigValidator
	RefreshHook     RefreshHook
	Authorizer      Authorizer
	Translator      TranslationService
	Telemetry       Telemetry
	Logger          *zap.Logger
	// ChartCache is invalidated for a classroom whenever its layout is committed.
	ChartCache     *ChartCache
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
}

// Service resolves classroom boards and commits layout changes.
type Service struct {
	opts     Options
	logger   *zap.Logger
	activity *activity.Emitter
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Authorizer == nil {
		opts.Authorizer = allowAllAuthorizer{}
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	if opts.PreferenceStore == nil {
		opts.PreferenceStore = NewInMemoryPreferenceStore()
	}
	if opts.ChartCache == nil {
		opts.ChartCache = sharedChartCache
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{
		opts:     opts,
		logger:   opts.Logger.Named("dashboard"),
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
	}
}

// Definitions returns the registered widget definitions in default order.
func (s *Service) Definitions() []WidgetDefinition {
	return s.opts.Providers.Definitions()
}

// Board resolves the classroom layout for viewer. A failing store never fails
// the board: defaults are served and Board.Degraded is set.
func (s *Service) Board(ctx context.Context, viewer ViewerContext, classroomID string) (Board, error) {
	if classroomID == "" {
		return Board{}, errMissingClassroom
	}
	defs := s.Definitions()
	board := Board{ClassroomID: classroomID}
	stored, err := s.opts.PreferenceStore.LoadPreferences(ctx, classroomID)
	if err != nil {
		s.logger.Warn("load preferences failed, serving defaults",
			zap.String("classroom_id", classroomID),
			zap.Error(err),
		)
		s.recordTelemetry(ctx, "dashboard.preferences.load_error", map[string]any{
			"classroom_id": classroomID,
			"error":        err.Error(),
		})
		stored = nil
		board.Degraded = true
	}
	board.Widgets = localize(defs, ResolvePreferences(defs, stored), viewer.Locale)
	board.Data = s.attachProviderData(ctx, viewer, classroomID, board.Widgets)
	s.recordTelemetry(ctx, "dashboard.board.resolve", map[string]any{
		"classroom_id": classroomID,
		"viewer":       viewer.UserID,
		"degraded":     board.Degraded,
	})
	return board, nil
}

// SavePreferences validates and commits a full preference list for the
// classroom, returning the normalized list that was stored. Unknown widgets
// are dropped and missing ones are completed from registry defaults.
func (s *Service) SavePreferences(ctx context.Context, viewer ViewerContext, classroomID string, prefs []WidgetPreference) ([]WidgetPreference, error) {
	if classroomID == "" {
		return nil, errMissingClassroom
	}
	if !s.opts.Authorizer.CanEditLayout(ctx, viewer, classroomID) {
		return nil, ErrForbidden
	}
	defs := s.Definitions()
	committed := completePreferences(defs, prefs)
	byID := make(map[string]WidgetDefinition, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}
	for _, pref := range committed {
		if err := s.opts.ConfigValidator.Validate(byID[pref.WidgetID], pref.Settings); err != nil {
			return nil, err
		}
	}
	if err := s.commit(ctx, viewer, classroomID, committed, "save"); err != nil {
		return nil, err
	}
	return committed, nil
}

// ResetPreferences stores the registry defaults for the classroom.
func (s *Service) ResetPreferences(ctx context.Context, viewer ViewerContext, classroomID string) ([]WidgetPreference, error) {
	if classroomID == "" {
		return nil, errMissingClassroom
	}
	if !s.opts.Authorizer.CanEditLayout(ctx, viewer, classroomID) {
		return nil, ErrForbidden
	}
	defaults := Normalize(DefaultPreferences(s.Definitions()))
	if err := s.commit(ctx, viewer, classroomID, defaults, "reset"); err != nil {
		return nil, err
	}
	return defaults, nil
}

// NewEditor seeds an Editor with the classroom's current layout. Saves made
// through the editor go through SavePreferences with the same viewer.
func (s *Service) NewEditor(ctx context.Context, viewer ViewerContext, classroomID string) (*Editor, error) {
	board, err := s.Board(ctx, viewer, classroomID)
	if err != nil {
		return nil, err
	}
	save := func(ctx context.Context, classroomID string, prefs []WidgetPreference) ([]WidgetPreference, error) {
		return s.SavePreferences(ctx, viewer, classroomID, prefs)
	}
	return NewEditor(classroomID, s.Definitions(), board.Preferences(), save), nil
}

// NotifyPreferencesUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyPreferencesUpdated(ctx context.Context, event PreferenceEvent) error {
	if err := s.opts.RefreshHook.PreferencesUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.preferences.event", map[string]any{
		"classroom_id": event.ClassroomID,
		"reason":       event.Reason,
	})
	return nil
}

func (s *Service) commit(ctx context.Context, viewer ViewerContext, classroomID string, prefs []WidgetPreference, reason string) error {
	if err := s.opts.PreferenceStore.SavePreferences(ctx, classroomID, prefs); err != nil {
		s.logger.Error("save preferences failed",
			zap.String("classroom_id", classroomID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return fmt.Errorf("dashboard: save preferences: %w", err)
	}
	if n := s.opts.ChartCache.InvalidateClassroom(classroomID); n > 0 {
		s.logger.Debug("chart cache invalidated", zap.String("classroom_id", classroomID), zap.Int("entries", n))
	}

	actor := ActivityFromContext(ctx)
	if actor.ActorID == "" {
		actor.ActorID = viewer.UserID
	}
	event := PreferenceEvent{
		ClassroomID: classroomID,
		Reason:      reason,
		ActorID:     actor.ActorID,
		Preferences: clonePreferences(prefs),
	}
	// the layout is already committed; a failing hook must not report the save as failed
	if err := s.NotifyPreferencesUpdated(ctx, event); err != nil {
		s.logger.Warn("refresh hook failed", zap.String("classroom_id", classroomID), zap.Error(err))
	}

	visible, _ := splitByVisibility(prefs)
	verb := verbLayoutSave
	if reason == "reset" {
		verb = verbLayoutReset
	}
	s.emitActivity(ctx, actor, activity.Event{
		Verb:           verb,
		ObjectType:     objectTypeLayout,
		ObjectID:       classroomID,
		DefinitionCode: "classroom:" + reason,
		Metadata: map[string]any{
			"classroom_id": classroomID,
			"visible":      len(visible),
			"total":        len(prefs),
		},
	})
	s.recordTelemetry(ctx, "dashboard.preferences."+reason, map[string]any{
		"classroom_id": classroomID,
		"viewer":       viewer.UserID,
		"visible":      len(visible),
	})
	return nil
}

func (s *Service) emitActivity(ctx context.Context, actor ActivityContext, event activity.Event) {
	if !s.activity.Enabled() {
		return
	}
	event.ActorID = actor.ActorID
	event.UserID = actor.UserID
	event.TenantID = actor.TenantID
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.Warn("activity emit failed", zap.String("verb", event.Verb), zap.Error(err))
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) attachProviderData(ctx context.Context, viewer ViewerContext, classroomID string, widgets []ResolvedWidgetPreference) map[string]WidgetData {
	out := map[string]WidgetData{}
	for _, widget := range widgets {
		if !widget.IsVisible {
			continue
		}
		provider, ok := s.opts.Providers.Provider(widget.WidgetID)
		if !ok || provider == nil {
			continue
		}
		data, err := provider.Fetch(ctx, WidgetContext{
			ClassroomID: classroomID,
			Widget:      widget,
			Viewer:      viewer,
			Translator:  s.opts.Translator,
		})
		if err != nil {
			s.logger.Warn("widget provider failed",
				zap.String("classroom_id", classroomID),
				zap.String("widget_id", widget.WidgetID),
				zap.Error(err),
			)
			s.recordTelemetry(ctx, "dashboard.widget.provider_error", map[string]any{
				"widget_id": widget.WidgetID,
				"error":     err.Error(),
			})
			continue
		}
		out[widget.WidgetID] = data
	}
	return out
}

// completePreferences keeps one entry per known widget, fills in defaults for
// widgets the caller left out and resequences the result.
func completePreferences(defs []WidgetDefinition, prefs []WidgetPreference) []WidgetPreference {
	known := make(map[string]WidgetDefinition, len(defs))
	for _, def := range defs {
		known[def.ID] = def
	}
	seen := make(map[string]struct{}, len(prefs))
	out := make([]WidgetPreference, 0, len(defs))
	for _, pref := range prefs {
		def, ok := known[pref.WidgetID]
		if !ok {
			continue
		}
		if _, dup := seen[pref.WidgetID]; dup {
			continue
		}
		seen[pref.WidgetID] = struct{}{}
		if !pref.Size.Valid() {
			pref.Size = defaultPreference(def).Size
		}
		pref.Settings = cloneSettings(pref.Settings)
		out = append(out, pref)
	}
	for _, def := range defs {
		if _, ok := seen[def.ID]; ok {
			continue
		}
		pref := defaultPreference(def)
		// place after everything the caller sent, keeping default order among themselves
		pref.Order += len(defs) + maxOrder(out)
		out = append(out, pref)
	}
	return Normalize(out)
}

func localize(defs []WidgetDefinition, widgets []ResolvedWidgetPreference, locale string) []ResolvedWidgetPreference {
	if locale == "" {
		return widgets
	}
	byID := make(map[string]WidgetDefinition, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}
	for i := range widgets {
		def := byID[widgets[i].WidgetID]
		widgets[i].Title = def.TitleForLocale(locale)
		widgets[i].Description = def.DescriptionForLocale(locale)
	}
	return widgets
}

type noopRefreshHook struct{}

func (noopRefreshHook) PreferencesUpdated(context.Context, PreferenceEvent) error {
	return nil
}
