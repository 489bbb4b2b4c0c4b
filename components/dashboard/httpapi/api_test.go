package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/goliatone/go-classboard/components/dashboard"
	"github.com/goliatone/go-classboard/components/dashboard/commands"
	"github.com/goliatone/go-classboard/components/dashboard/queries"
	"github.com/gorilla/websocket"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubBoardQuery struct {
	last queries.BoardInput
	err  error
}

func (s *stubBoardQuery) Query(_ context.Context, input queries.BoardInput) (dashboard.Board, error) {
	s.last = input
	prefs := dashboard.DefaultPreferences(dashboard.DefaultWidgetDefinitions())
	return dashboard.Board{
		ClassroomID: input.ClassroomID,
		Widgets:     dashboard.ResolveWith(dashboard.DefaultWidgetDefinitions(), prefs),
	}, s.err
}

func TestHandleSavePreferences(t *testing.T) {
	save := &stubCommander[commands.SavePreferencesInput]{}
	api := &Handlers{API: &CommandExecutor{SaveCommand: save}}
	body := `{"preferences":[{"widgetId":"announcements","order":1,"isVisible":true,"size":"large"}]}`
	req := httptest.NewRequest(http.MethodPost, "/classrooms/room-1/board/preferences", strings.NewReader(body))
	req.Header.Set("X-User-ID", "teacher-1")
	req.Header.Set("X-User-Roles", "teacher, admin")
	rec := httptest.NewRecorder()

	api.HandleSavePreferences(rec, req, "room-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if save.calls != 1 || save.last.ClassroomID != "room-1" {
		t.Fatalf("expected save for room-1, got %+v", save.last)
	}
	if save.last.Viewer.UserID != "teacher-1" || len(save.last.Viewer.Roles) != 2 {
		t.Fatalf("expected viewer from headers, got %+v", save.last.Viewer)
	}
	if len(save.last.Preferences) != 1 || save.last.Preferences[0].WidgetID != "announcements" {
		t.Fatalf("expected decoded preferences, got %+v", save.last.Preferences)
	}
}

func TestHandleSavePreferencesRejectsBadJSON(t *testing.T) {
	save := &stubCommander[commands.SavePreferencesInput]{}
	api := &Handlers{API: &CommandExecutor{SaveCommand: save}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	api.HandleSavePreferences(rec, req, "room-1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if save.calls != 0 {
		t.Fatalf("bad payloads must not reach the command")
	}
}

func TestHandleSavePreferencesMapsErrors(t *testing.T) {
	cases := map[error]int{
		dashboard.ErrForbidden: http.StatusForbidden,
		fmt.Errorf("%w: announcements", dashboard.ErrInvalidSettings): http.StatusUnprocessableEntity,
		errors.New("disk full"): http.StatusInternalServerError,
	}
	for cmdErr, want := range cases {
		save := &stubCommander[commands.SavePreferencesInput]{err: cmdErr}
		api := &Handlers{API: &CommandExecutor{SaveCommand: save}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"preferences":[]}`))
		rec := httptest.NewRecorder()
		api.HandleSavePreferences(rec, req, "room-1")
		if rec.Code != want {
			t.Fatalf("error %v: expected %d, got %d", cmdErr, want, rec.Code)
		}
	}
}

func TestHandleResetPreferences(t *testing.T) {
	reset := &stubCommander[commands.ResetPreferencesInput]{}
	api := &Handlers{API: &CommandExecutor{ResetCommand: reset}}
	req := httptest.NewRequest(http.MethodPost, "/classrooms/room-1/board/preferences/reset", nil)
	rec := httptest.NewRecorder()
	api.HandleResetPreferences(rec, req, "room-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if reset.last.ClassroomID != "room-1" {
		t.Fatalf("expected classroom id propagation")
	}
}

func TestHandleRefreshBoard(t *testing.T) {
	refresh := &stubCommander[commands.RefreshBoardInput]{}
	api := &Handlers{API: &CommandExecutor{RefreshCommand: refresh}}
	req := httptest.NewRequest(http.MethodPost, "/classrooms/room-1/board/refresh", nil)
	rec := httptest.NewRecorder()
	api.HandleRefreshBoard(rec, req, "room-1")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if refresh.last.Event.ClassroomID != "room-1" {
		t.Fatalf("expected refresh for room-1, got %+v", refresh.last.Event)
	}
}

func TestHandleBoard(t *testing.T) {
	query := &stubBoardQuery{}
	api := &Handlers{Board: query}
	req := httptest.NewRequest(http.MethodGet, "/classrooms/room-1/board/_layout", nil)
	req.Header.Set("Accept-Language", "es-MX,es;q=0.9")
	rec := httptest.NewRecorder()
	api.HandleBoard(rec, req, "room-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if query.last.Viewer.Locale != "es-mx" {
		t.Fatalf("expected locale from header, got %q", query.last.Viewer.Locale)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["classroom_id"] != "room-1" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if widgets, _ := payload["widgets"].([]any); len(widgets) != 4 {
		t.Fatalf("expected 4 visible widgets, got %v", payload["widgets"])
	}
}

func TestCommandExecutorWithoutCommands(t *testing.T) {
	exec := &CommandExecutor{}
	if _, err := exec.SavePreferences(context.Background(), commands.SavePreferencesInput{}); StatusFor(err) != http.StatusNotImplemented {
		t.Fatalf("expected not implemented, got %v", err)
	}
	if err := exec.Refresh(context.Background(), commands.RefreshBoardInput{}); err == nil {
		t.Fatalf("expected error without refresh command")
	}
}

func TestStatusForValidationErrors(t *testing.T) {
	err := validator.New().Struct(commands.SavePreferencesInput{})
	if got := StatusFor(fmt.Errorf("wrapped: %w", err)); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestHandleEventsWithoutBroadcast(t *testing.T) {
	api := &Handlers{}
	rec := httptest.NewRecorder()
	api.HandleEvents(rec, httptest.NewRequest(http.MethodGet, "/classrooms/room-1/events", nil), "room-1")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rec.Code)
	}
}

func TestEventsMuxStreamsSSE(t *testing.T) {
	hook := dashboard.NewBroadcastHook()
	api := &Handlers{Events: hook}
	srv := httptest.NewServer(api.EventsMux())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/classrooms/room-1/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("Content-Type") != "text/event-stream" {
		t.Fatalf("expected event stream, got %q", resp.Header.Get("Content-Type"))
	}
	waitForSubscribers(t, hook, 1)

	_ = hook.PreferencesUpdated(context.Background(), dashboard.PreferenceEvent{ClassroomID: "room-1", Reason: "save"})
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if !strings.Contains(line, `"classroom_id":"room-1"`) {
		t.Fatalf("unexpected frame %q", line)
	}
}

func TestEventsMuxUpgradesWebSocket(t *testing.T) {
	hook := dashboard.NewBroadcastHook()
	api := &Handlers{Events: hook}
	srv := httptest.NewServer(api.EventsMux())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/classrooms/room-9/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForSubscribers(t, hook, 1)

	_ = hook.PreferencesUpdated(context.Background(), dashboard.PreferenceEvent{ClassroomID: "room-9", Reason: "reset"})
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var event dashboard.PreferenceEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if event.ClassroomID != "room-9" || event.Reason != "reset" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func waitForSubscribers(t *testing.T, hook *dashboard.BroadcastHook, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hook.Subscribers() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, got %d", want, hook.Subscribers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
