package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-classboard/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Sink is the go-users activity sink contract.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook forwards classroom activity events into a go-users activity sink.
type Hook struct {
	Sink Sink
}

// Notify maps the event into an ActivityRecord. Identifiers that are not
// UUIDs are recorded as uuid.Nil and kept in the record data.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = activity.NormalizeEvent(event)
	if event.Verb == "" {
		return nil
	}
	data := make(map[string]any, len(event.Metadata)+3)
	for k, v := range event.Metadata {
		data[k] = v
	}
	if event.DefinitionCode != "" {
		data["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = append([]string(nil), event.Recipients...)
	}
	record := types.ActivityRecord{
		ActorID:    parseID(event.ActorID, "actor_id", data),
		UserID:     parseID(event.UserID, "user_id", data),
		TenantID:   parseID(event.TenantID, "tenant_id", data),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		OccurredAt: event.OccurredAt,
		Data:       data,
	}
	return h.Sink.Log(ctx, record)
}

func parseID(raw, key string, data map[string]any) uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		data[key] = raw
		return uuid.Nil
	}
	return id
}
