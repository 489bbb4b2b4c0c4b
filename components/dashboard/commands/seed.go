package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-classboard/components/dashboard"
)

// SeedClassroomsInput lists classrooms that should start with the default layout.
type SeedClassroomsInput struct {
	ClassroomIDs []string `validate:"required,min=1,dive,required"`
	// Seeded receives the classrooms that actually got defaults stored.
	Seeded *[]string
}

// SeedClassroomsCommand stores the default layout for classrooms with nothing saved.
type SeedClassroomsCommand struct {
	service   *dashboard.Service
	telemetry Telemetry
}

// NewSeedClassroomsCommand wires dependencies.
func NewSeedClassroomsCommand(service *dashboard.Service, telemetry Telemetry) *SeedClassroomsCommand {
	return &SeedClassroomsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedClassroomsInput] = (*SeedClassroomsCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *SeedClassroomsCommand) Execute(ctx context.Context, msg SeedClassroomsInput) error {
	if c.service == nil {
		return errors.New("seed command requires service")
	}
	if err := validateInput("seed", msg); err != nil {
		return err
	}
	seeded, err := dashboard.SeedClassrooms(ctx, c.service, msg.ClassroomIDs...)
	if msg.Seeded != nil {
		*msg.Seeded = seeded
	}
	c.telemetry.Record(ctx, "classboard.seed", map[string]any{
		"requested": len(msg.ClassroomIDs),
		"seeded":    len(seeded),
	})
	return err
}
