package analytics

import (
	"context"

	dashboard "github.com/goliatone/go-classboard/components/dashboard"
)

// ParticipationClient fetches per-day classroom participation from upstream analytics services.
type ParticipationClient interface {
	FetchParticipation(ctx context.Context, query dashboard.ParticipationQuery) ([]dashboard.ParticipationPoint, error)
}
