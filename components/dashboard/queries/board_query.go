package queries

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-classboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// BoardInput identifies the classroom board a viewer asks for.
type BoardInput struct {
	Viewer      dashboard.ViewerContext
	ClassroomID string
}

type boardService interface {
	Board(ctx context.Context, viewer dashboard.ViewerContext, classroomID string) (dashboard.Board, error)
}

// BoardQuery executes read-only board resolution.
type BoardQuery struct {
	service boardService
}

// NewBoardQuery builds the query.
func NewBoardQuery(service boardService) *BoardQuery {
	return &BoardQuery{service: service}
}

var _ gocommand.Querier[BoardInput, dashboard.Board] = (*BoardQuery)(nil)

// Query resolves the classroom board for the viewer.
func (q *BoardQuery) Query(ctx context.Context, input BoardInput) (dashboard.Board, error) {
	if q.service == nil {
		return dashboard.Board{}, errors.New("board query requires service")
	}
	return q.service.Board(ctx, input.Viewer, input.ClassroomID)
}
