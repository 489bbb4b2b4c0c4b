package dashboard

import (
	"context"
	"errors"
	"io"
)

const defaultBoardTemplate = "board.html"

// BoardResolver is the subset of Service the controller depends on.
type BoardResolver interface {
	Board(ctx context.Context, viewer ViewerContext, classroomID string) (Board, error)
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  BoardResolver
	Renderer Renderer
	Template string
}

// Controller renders classroom boards for HTTP transports.
type Controller struct {
	service  BoardResolver
	renderer Renderer
	template string
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultBoardTemplate
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		template: opts.Template,
	}
}

// Board resolves the classroom board for a viewer.
func (c *Controller) Board(ctx context.Context, viewer ViewerContext, classroomID string) (Board, error) {
	if c.service == nil {
		return Board{ClassroomID: classroomID}, nil
	}
	return c.service.Board(ctx, viewer, classroomID)
}

// RenderTemplate resolves the board and renders it as HTML into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, classroomID string, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("dashboard: renderer not configured")
	}
	board, err := c.Board(ctx, viewer, classroomID)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, BoardPayload(board, viewer), out)
	return err
}

// BoardPayload shapes a board for templates and JSON responses.
func BoardPayload(board Board, viewer ViewerContext) map[string]any {
	visible := board.Visible()
	widgets := make([]map[string]any, 0, len(visible))
	for _, w := range visible {
		widgets = append(widgets, map[string]any{
			"id":          w.WidgetID,
			"title":       w.Title,
			"description": w.Description,
			"icon":        w.Icon,
			"size":        string(w.Size),
			"order":       w.Order,
			"settings":    w.Settings,
			"data":        board.Data[w.WidgetID],
		})
	}
	hidden := make([]map[string]any, 0, len(board.Widgets)-len(visible))
	for _, w := range board.Widgets {
		if w.IsVisible {
			continue
		}
		hidden = append(hidden, map[string]any{
			"id":    w.WidgetID,
			"title": w.Title,
			"icon":  w.Icon,
		})
	}
	return map[string]any{
		"classroom_id": board.ClassroomID,
		"degraded":     board.Degraded,
		"widgets":      widgets,
		"available":    hidden,
		"preferences":  board.Preferences(),
		"locale":       viewer.Locale,
		"viewer":       viewer.UserID,
	}
}
