package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goliatone/go-classboard/components/dashboard"
	"github.com/goliatone/go-classboard/components/dashboard/commands"
	"github.com/goliatone/go-classboard/components/dashboard/queries"
	gocommand "github.com/goliatone/go-command"
	"github.com/gorilla/websocket"
)

// PreferencesPayload is the request body for saving a classroom layout.
type PreferencesPayload struct {
	Preferences []dashboard.WidgetPreference `json:"preferences"`
}

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	API    Executor
	Board  gocommand.Querier[queries.BoardInput, dashboard.Board]
	Viewer func(*http.Request) dashboard.ViewerContext
	Events *dashboard.BroadcastHook
}

func (h *Handlers) HandleBoard(w http.ResponseWriter, r *http.Request, classroomID string) {
	if h.Board == nil {
		writeError(w, http.StatusNotImplemented, errCommandMissing)
		return
	}
	viewer := h.viewer(r)
	board, err := h.Board.Query(r.Context(), queries.BoardInput{Viewer: viewer, ClassroomID: classroomID})
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard.BoardPayload(board, viewer))
}

func (h *Handlers) HandleSavePreferences(w http.ResponseWriter, r *http.Request, classroomID string) {
	var payload PreferencesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	committed, err := h.API.SavePreferences(r.Context(), commands.SavePreferencesInput{
		ClassroomID: classroomID,
		Viewer:      h.viewer(r),
		Preferences: payload.Preferences,
	})
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"classroom_id": classroomID, "preferences": committed})
}

func (h *Handlers) HandleResetPreferences(w http.ResponseWriter, r *http.Request, classroomID string) {
	defaults, err := h.API.ResetPreferences(r.Context(), commands.ResetPreferencesInput{
		ClassroomID: classroomID,
		Viewer:      h.viewer(r),
	})
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"classroom_id": classroomID, "preferences": defaults})
}

func (h *Handlers) HandleRefreshBoard(w http.ResponseWriter, r *http.Request, classroomID string) {
	event := dashboard.PreferenceEvent{ClassroomID: classroomID, ActorID: h.viewer(r).UserID}
	if err := h.API.Refresh(r.Context(), commands.RefreshBoardInput{Event: event}); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleEvents streams layout changes for a classroom. WebSocket upgrade
// requests get JSON frames, everything else gets Server-Sent Events.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request, classroomID string) {
	if h.Events == nil {
		writeError(w, http.StatusNotImplemented, errCommandMissing)
		return
	}
	if websocket.IsWebSocketUpgrade(r) {
		h.Events.ServeWebSocket(w, r, classroomID)
		return
	}
	h.Events.ServeSSE(w, r, classroomID)
}

// EventsMux serves GET /classrooms/{classroom}/events on a plain net/http
// server. Streams need a hijackable connection, which the fiber adapter lacks.
func (h *Handlers) EventsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /classrooms/{classroom}/events", func(w http.ResponseWriter, r *http.Request) {
		h.HandleEvents(w, r, r.PathValue("classroom"))
	})
	return mux
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return HeaderViewer(r)
}

// HeaderViewer reads the viewer from X-User-ID, X-User-Roles (comma separated)
// and the first Accept-Language tag.
func HeaderViewer(r *http.Request) dashboard.ViewerContext {
	viewer := dashboard.ViewerContext{UserID: strings.TrimSpace(r.Header.Get("X-User-ID"))}
	for _, role := range strings.Split(r.Header.Get("X-User-Roles"), ",") {
		if role = strings.TrimSpace(role); role != "" {
			viewer.Roles = append(viewer.Roles, role)
		}
	}
	if lang := r.Header.Get("Accept-Language"); lang != "" {
		tag, _, _ := strings.Cut(lang, ",")
		tag, _, _ = strings.Cut(tag, ";")
		viewer.Locale = strings.ToLower(strings.TrimSpace(tag))
	}
	return viewer
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
