package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-classboard/components/dashboard"
)

// SavePreferencesInput carries a full classroom layout to commit.
type SavePreferencesInput struct {
	ClassroomID string                       `json:"classroom_id" validate:"required"`
	Viewer      dashboard.ViewerContext      `json:"viewer"`
	Preferences []dashboard.WidgetPreference `json:"preferences"`
	ActorID     string                       `json:"actor_id"`
	TenantID    string                       `json:"tenant_id"`
	// Result receives the normalized list that was stored.
	Result *[]dashboard.WidgetPreference `json:"-"`
}

// ResetPreferencesInput restores a classroom's default layout.
type ResetPreferencesInput struct {
	ClassroomID string                        `json:"classroom_id" validate:"required"`
	Viewer      dashboard.ViewerContext       `json:"viewer"`
	ActorID     string                        `json:"actor_id"`
	TenantID    string                        `json:"tenant_id"`
	Result      *[]dashboard.WidgetPreference `json:"-"`
}

type preferenceService interface {
	SavePreferences(ctx context.Context, viewer dashboard.ViewerContext, classroomID string, prefs []dashboard.WidgetPreference) ([]dashboard.WidgetPreference, error)
	ResetPreferences(ctx context.Context, viewer dashboard.ViewerContext, classroomID string) ([]dashboard.WidgetPreference, error)
}

// SavePreferencesCommand persists a classroom layout.
type SavePreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewSavePreferencesCommand creates the command.
func NewSavePreferencesCommand(service preferenceService, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute validates the input and commits the layout.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg SavePreferencesInput) error {
	if c.service == nil {
		return errors.New("save preferences command requires service")
	}
	if err := validateInput("save preferences", msg); err != nil {
		return err
	}
	ctx = withActivity(ctx, msg.Viewer, msg.ActorID, msg.TenantID)
	committed, err := c.service.SavePreferences(ctx, msg.Viewer, msg.ClassroomID, msg.Preferences)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = committed
	}
	c.telemetry.Record(ctx, "classboard.preferences.save", map[string]any{
		"classroom_id": msg.ClassroomID,
		"user_id":      msg.Viewer.UserID,
		"widgets":      len(committed),
	})
	return nil
}

// ResetPreferencesCommand restores registry defaults for a classroom.
type ResetPreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewResetPreferencesCommand creates the command.
func NewResetPreferencesCommand(service preferenceService, telemetry Telemetry) *ResetPreferencesCommand {
	return &ResetPreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetPreferencesInput] = (*ResetPreferencesCommand)(nil)

// Execute resets the classroom layout.
func (c *ResetPreferencesCommand) Execute(ctx context.Context, msg ResetPreferencesInput) error {
	if c.service == nil {
		return errors.New("reset preferences command requires service")
	}
	if err := validateInput("reset preferences", msg); err != nil {
		return err
	}
	ctx = withActivity(ctx, msg.Viewer, msg.ActorID, msg.TenantID)
	defaults, err := c.service.ResetPreferences(ctx, msg.Viewer, msg.ClassroomID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = defaults
	}
	c.telemetry.Record(ctx, "classboard.preferences.reset", map[string]any{
		"classroom_id": msg.ClassroomID,
		"user_id":      msg.Viewer.UserID,
	})
	return nil
}

func withActivity(ctx context.Context, viewer dashboard.ViewerContext, actorID, tenantID string) context.Context {
	if actorID == "" {
		actorID = viewer.UserID
	}
	return dashboard.ContextWithActivity(ctx, dashboard.ActivityContext{
		ActorID:  actorID,
		UserID:   viewer.UserID,
		TenantID: tenantID,
	})
}
