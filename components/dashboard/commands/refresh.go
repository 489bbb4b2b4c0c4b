package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-classboard/components/dashboard"
)

// RefreshBoardInput re-broadcasts a preference event, e.g. after an
// out-of-band store change.
type RefreshBoardInput struct {
	Event dashboard.PreferenceEvent
}

type refreshNotifier interface {
	NotifyPreferencesUpdated(ctx context.Context, event dashboard.PreferenceEvent) error
}

// RefreshBoardCommand triggers refresh hooks without forcing transports.
type RefreshBoardCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshBoardCommand creates the command.
func NewRefreshBoardCommand(service refreshNotifier, telemetry Telemetry) *RefreshBoardCommand {
	return &RefreshBoardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshBoardInput] = (*RefreshBoardCommand)(nil)

// Execute notifies the service's refresh hooks.
func (c *RefreshBoardCommand) Execute(ctx context.Context, msg RefreshBoardInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.Event.ClassroomID == "" {
		return errors.New("refresh command requires classroom id")
	}
	if msg.Event.Reason == "" {
		msg.Event.Reason = "refresh"
	}
	if err := c.service.NotifyPreferencesUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "classboard.board.refresh", map[string]any{
		"classroom_id": msg.Event.ClassroomID,
		"reason":       msg.Event.Reason,
	})
	return nil
}
