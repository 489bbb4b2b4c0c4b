package dashboard

import "context"

// NotificationsClient is the minimal contract needed from a notifications
// service (go-notifications or similar).
type NotificationsClient interface {
	PublishClassroomEvent(ctx context.Context, channel string, event PreferenceEvent) error
}

// NotificationsHook forwards committed layout changes to an external
// notifications client, e.g. to refresh student screens.
type NotificationsHook struct {
	Client  NotificationsClient
	Channel string
}

// PreferencesUpdated publishes the event on the configured channel.
func (h *NotificationsHook) PreferencesUpdated(ctx context.Context, event PreferenceEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	channel := h.Channel
	if channel == "" {
		channel = "classroom." + event.ClassroomID
	}
	return h.Client.PublishClassroomEvent(ctx, channel, event)
}
