package analytics

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-classboard/components/dashboard"
)

// NewParticipationRepository adapts an analytics client into the participation widget repository.
func NewParticipationRepository(client ParticipationClient) dashboard.ParticipationRepository {
	return &participationRepository{client: client}
}

type participationRepository struct {
	client ParticipationClient
}

func (r *participationRepository) FetchParticipation(ctx context.Context, query dashboard.ParticipationQuery) ([]dashboard.ParticipationPoint, error) {
	if r.client == nil {
		return nil, errors.New("analytics: participation client is required")
	}
	return r.client.FetchParticipation(ctx, query)
}
