package analytics

import (
	"context"
	"sync"

	dashboard "github.com/goliatone/go-classboard/components/dashboard"
)

// MockClient implements ParticipationClient using in-memory fixtures keyed by classroom.
type MockClient struct {
	mu       sync.RWMutex
	points   map[string][]dashboard.ParticipationPoint
	fallback []dashboard.ParticipationPoint
}

// NewMockClient builds a mock client; fallback is served for unknown classrooms.
func NewMockClient(fallback []dashboard.ParticipationPoint) *MockClient {
	return &MockClient{
		points:   map[string][]dashboard.ParticipationPoint{},
		fallback: fallback,
	}
}

// Set replaces the fixture for a classroom.
func (c *MockClient) Set(classroomID string, points []dashboard.ParticipationPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.points[classroomID] = append([]dashboard.ParticipationPoint(nil), points...)
}

// FetchParticipation returns the fixture, trimmed to the last query.Days points.
func (c *MockClient) FetchParticipation(_ context.Context, query dashboard.ParticipationQuery) ([]dashboard.ParticipationPoint, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	points, ok := c.points[query.ClassroomID]
	if !ok {
		points = c.fallback
	}
	if query.Days > 0 && len(points) > query.Days {
		points = points[len(points)-query.Days:]
	}
	return append([]dashboard.ParticipationPoint(nil), points...), nil
}
