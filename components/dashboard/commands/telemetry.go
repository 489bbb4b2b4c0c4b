package commands

import (
	"context"

	"github.com/goliatone/go-classboard/components/dashboard"
)

// Telemetry is the recorder commands report successful executions to. The
// service's dashboard.ZapTelemetry satisfies it.
type Telemetry = dashboard.Telemetry

type discardTelemetry struct{}

func (discardTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return discardTelemetry{}
	}
	return t
}
