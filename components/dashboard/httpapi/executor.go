package httpapi

import (
	"context"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/goliatone/go-classboard/components/dashboard"
	"github.com/goliatone/go-classboard/components/dashboard/commands"
	gocommand "github.com/goliatone/go-command"
)

var errCommandMissing = errors.New("httpapi: command not configured")

// Executor is what transports call to change a classroom layout.
type Executor interface {
	SavePreferences(ctx context.Context, input commands.SavePreferencesInput) ([]dashboard.WidgetPreference, error)
	ResetPreferences(ctx context.Context, input commands.ResetPreferencesInput) ([]dashboard.WidgetPreference, error)
	Refresh(ctx context.Context, input commands.RefreshBoardInput) error
}

// CommandExecutor adapts the go-command commands to Executor.
type CommandExecutor struct {
	SaveCommand    gocommand.Commander[commands.SavePreferencesInput]
	ResetCommand   gocommand.Commander[commands.ResetPreferencesInput]
	RefreshCommand gocommand.Commander[commands.RefreshBoardInput]
}

var _ Executor = (*CommandExecutor)(nil)

// SavePreferences runs the save command and returns the committed list.
func (e *CommandExecutor) SavePreferences(ctx context.Context, input commands.SavePreferencesInput) ([]dashboard.WidgetPreference, error) {
	if e.SaveCommand == nil {
		return nil, errCommandMissing
	}
	var committed []dashboard.WidgetPreference
	input.Result = &committed
	if err := e.SaveCommand.Execute(ctx, input); err != nil {
		return nil, err
	}
	return committed, nil
}

// ResetPreferences runs the reset command and returns the stored defaults.
func (e *CommandExecutor) ResetPreferences(ctx context.Context, input commands.ResetPreferencesInput) ([]dashboard.WidgetPreference, error) {
	if e.ResetCommand == nil {
		return nil, errCommandMissing
	}
	var defaults []dashboard.WidgetPreference
	input.Result = &defaults
	if err := e.ResetCommand.Execute(ctx, input); err != nil {
		return nil, err
	}
	return defaults, nil
}

// Refresh runs the refresh command.
func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshBoardInput) error {
	if e.RefreshCommand == nil {
		return errCommandMissing
	}
	return e.RefreshCommand.Execute(ctx, input)
}

// StatusFor maps service and command errors to HTTP status codes.
func StatusFor(err error) int {
	var invalid validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, dashboard.ErrInvalidSettings):
		return http.StatusUnprocessableEntity
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, errCommandMissing):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
