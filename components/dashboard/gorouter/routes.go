package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-classboard/components/dashboard"
	"github.com/goliatone/go-classboard/components/dashboard/commands"
	"github.com/goliatone/go-classboard/components/dashboard/httpapi"
)

const classroomParam = "classroom"

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the classroom board controller, API and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	// BasePath must contain the :classroom parameter.
	BasePath string
	Routes   RouteConfig
}

// RouteConfig customizes the paths, relative to BasePath, used for board endpoints.
type RouteConfig struct {
	HTML        string
	Layout      string
	Preferences string
	Reset       string
	Refresh     string
	WebSocket   string
}

// Register mounts board routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	base := cfg.BasePath
	if base == "" {
		base = "/classrooms/:" + classroomParam
	}
	if !strings.Contains(base, ":"+classroomParam) {
		return errors.New("gorouter: base path must include :classroom")
	}
	routes := defaultRouteConfig(cfg.Routes)
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), viewer, ctx.Param(classroomParam), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Layout, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		board, err := cfg.Controller.Board(ctx.Context(), viewer, ctx.Param(classroomParam))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, dashboard.BoardPayload(board, viewer))
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	r.Post(routes.Preferences, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.PreferencesPayload
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		classroomID := ctx.Param(classroomParam)
		committed, err := api.SavePreferences(ctx.Context(), commands.SavePreferencesInput{
			ClassroomID: classroomID,
			Viewer:      resolver(ctx),
			Preferences: payload.Preferences,
		})
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"classroom_id": classroomID, "preferences": committed})
	}))

	r.Post(routes.Reset, router.WrapHandler(func(ctx router.Context) error {
		classroomID := ctx.Param(classroomParam)
		defaults, err := api.ResetPreferences(ctx.Context(), commands.ResetPreferencesInput{
			ClassroomID: classroomID,
			Viewer:      resolver(ctx),
		})
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"classroom_id": classroomID, "preferences": defaults})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		event := dashboard.PreferenceEvent{
			ClassroomID: ctx.Param(classroomParam),
			ActorID:     resolver(ctx).UserID,
		}
		if err := api.Refresh(ctx.Context(), commands.RefreshBoardInput{Event: event}); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe(ws.Param(classroomParam))
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = strings.TrimSpace(token[:idx])
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/board"
	}
	if routes.Layout == "" {
		routes.Layout = "/board/_layout"
	}
	if routes.Preferences == "" {
		routes.Preferences = "/board/preferences"
	}
	if routes.Reset == "" {
		routes.Reset = "/board/preferences/reset"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/board/refresh"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/board/ws"
	}
	return routes
}
