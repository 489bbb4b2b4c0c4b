package activity

import (
	"context"
	"errors"
	"testing"
)

type recordingHook struct {
	events []Event
}

func (h *recordingHook) Notify(_ context.Context, evt Event) error {
	h.events = append(h.events, evt)
	return nil
}

func TestEmitterDefaultsChannelAndEmits(t *testing.T) {
	hook := &recordingHook{}
	em := NewEmitter(Hooks{hook}, Config{Enabled: true})
	if !em.Enabled() {
		t.Fatalf("expected emitter enabled")
	}
	err := em.Emit(context.Background(), Event{
		Verb:       "verb",
		ObjectType: "object",
		ObjectID:   "id",
	})
	if err != nil {
		t.Fatalf("emit returned error: %v", err)
	}
	if len(hook.events) != 1 {
		t.Fatalf("expected event emitted, got %d", len(hook.events))
	}
	if hook.events[0].Channel != "dashboard" {
		t.Fatalf("expected default channel dashboard, got %q", hook.events[0].Channel)
	}
}

func TestEmitterDisabledWithoutHooks(t *testing.T) {
	em := NewEmitter(nil, Config{Enabled: true})
	if em.Enabled() {
		t.Fatalf("expected emitter disabled without hooks")
	}
}

func TestEmitterDisabledByConfig(t *testing.T) {
	hook := &recordingHook{}
	em := NewEmitter(Hooks{hook}, Config{Enabled: false})
	if err := em.Emit(context.Background(), Event{Verb: "v", ObjectType: "o"}); err != nil {
		t.Fatalf("emit returned error: %v", err)
	}
	if len(hook.events) != 0 {
		t.Fatalf("expected no events when disabled, got %d", len(hook.events))
	}
}

func TestEmitterKeepsExplicitChannelAndJoinsErrors(t *testing.T) {
	capture := &CaptureHook{}
	failing := HookFunc(func(context.Context, Event) error { return errors.New("sink down") })
	em := NewEmitter(Hooks{capture, failing}, Config{Enabled: true, Channel: "classboard"})

	err := em.Emit(context.Background(), Event{Verb: "v", ObjectType: "o", Channel: "audit"})
	if err == nil || err.Error() != "sink down" {
		t.Fatalf("expected joined sink error, got %v", err)
	}
	if len(capture.Events) != 1 || capture.Events[0].Channel != "audit" {
		t.Fatalf("expected explicit channel to win, got %+v", capture.Events)
	}
}
