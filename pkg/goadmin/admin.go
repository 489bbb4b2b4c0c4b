package goadmin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	core "github.com/goliatone/go-classboard/components/dashboard"
	dashboardpkg "github.com/goliatone/go-classboard/pkg/dashboard"
)

// MenuBuilder ensures classroom board entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures board link metadata. Route may contain a {classroom} placeholder.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the board service and feature flags into a school admin shell.
type Config struct {
	EnableBoards    bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *dashboardpkg.Service
	DefaultMenuItem MenuItem
	// Classrooms are seeded with the default layout and get a menu entry on Bootstrap.
	Classrooms []string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed classroom boards and menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableBoards && cfg.Service == nil {
		return nil, errors.New("goadmin: board service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "school.classrooms"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Board"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "/classrooms/{classroom}/board"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "layout-grid"
	}
	return &Admin{cfg: cfg}, nil
}

// Boards exposes the configured board service when enabled.
func (a *Admin) Boards() *dashboardpkg.Service {
	if !a.cfg.EnableBoards {
		return nil
	}
	return a.cfg.Service
}

// Bootstrap stores default layouts for configured classrooms that have none
// and ensures each one has a menu entry.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableBoards {
		return nil
	}
	var errs error
	if len(a.cfg.Classrooms) > 0 {
		if _, err := core.SeedClassrooms(ctx, a.cfg.Service, a.cfg.Classrooms...); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if a.cfg.MenuBuilder == nil {
		return errs
	}
	for i, classroomID := range a.cfg.Classrooms {
		item := a.cfg.DefaultMenuItem
		item.Route = strings.ReplaceAll(item.Route, "{classroom}", classroomID)
		item.Label = fmt.Sprintf("%s: %s", item.Label, classroomID)
		item.Position = a.cfg.DefaultMenuItem.Position + i
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
