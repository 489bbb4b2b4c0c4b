package gorouter

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-classboard/components/dashboard"
	"github.com/goliatone/go-classboard/components/dashboard/httpapi"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[*fiber.App]{}); err == nil {
		t.Fatalf("expected error when router/controller missing")
	}

	server := router.NewFiberAdapter()
	err := Register(Config[*fiber.App]{
		Router:     server.Router(),
		Controller: dashboard.NewController(dashboard.ControllerOptions{}),
		BasePath:   "/boards",
	})
	if err == nil {
		t.Fatalf("expected error when base path lacks :classroom")
	}
}

func TestRegisterMountsRoutes(t *testing.T) {
	service := dashboard.NewService(dashboard.Options{})
	server := router.NewFiberAdapter()
	err := Register(Config[*fiber.App]{
		Router:     server.Router(),
		Controller: dashboard.NewController(dashboard.ControllerOptions{Service: service}),
		API:        &httpapi.CommandExecutor{},
		Broadcast:  dashboard.NewBroadcastHook(),
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
}

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{HTML: "/home"})
	if routes.HTML != "/home" {
		t.Fatalf("custom routes must be kept, got %q", routes.HTML)
	}
	if routes.Layout != "/board/_layout" || routes.Reset != "/board/preferences/reset" || routes.WebSocket != "/board/ws" {
		t.Fatalf("unexpected defaults %+v", routes)
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	cases := map[string]string{
		"es-MX,es;q=0.9,en;q=0.8": "es-mx",
		" fr ;q=1":                "fr",
		",,":                      "",
		"":                        "",
	}
	for header, want := range cases {
		if got := parseAcceptLanguage(header); got != want {
			t.Fatalf("parseAcceptLanguage(%q) = %q, want %q", header, got, want)
		}
	}
}
