package dashboard

import (
	"context"
	"fmt"
	"time"
)

// ParticipationPoint counts classroom activity for a single day.
type ParticipationPoint struct {
	Day       time.Time `json:"day"`
	Posts     int       `json:"posts"`
	Questions int       `json:"questions"`
}

// ParticipationQuery describes the requested window.
type ParticipationQuery struct {
	ClassroomID string
	Days        int
	Viewer      ViewerContext
}

// ParticipationRepository fetches per-day participation counts.
type ParticipationRepository interface {
	FetchParticipation(ctx context.Context, query ParticipationQuery) ([]ParticipationPoint, error)
}

// ParticipationChartProvider renders participation counts as a bar chart.
type ParticipationChartProvider struct {
	repo     ParticipationRepository
	renderer *EChartsProvider
}

// NewParticipationChartProvider builds a provider backed by the given repository.
func NewParticipationChartProvider(repo ParticipationRepository, renderer *EChartsProvider) Provider {
	if renderer == nil {
		renderer = NewEChartsProvider("bar")
	}
	return &ParticipationChartProvider{repo: repo, renderer: renderer}
}

// Fetch renders the participation widget.
func (p *ParticipationChartProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	if p.repo == nil {
		return nil, fmt.Errorf("participation provider: repository is required")
	}
	days := 7
	if raw, ok := meta.Setting("days"); ok {
		if v, ok := coerceOrder(raw); ok && v > 0 {
			days = v
		}
	}
	points, err := p.repo.FetchParticipation(ctx, ParticipationQuery{
		ClassroomID: meta.ClassroomID,
		Days:        days,
		Viewer:      meta.Viewer,
	})
	if err != nil {
		return nil, fmt.Errorf("participation provider: %w", err)
	}

	labels := make([]string, len(points))
	posts := make([]ChartPoint, len(points))
	questions := make([]ChartPoint, len(points))
	for i, point := range points {
		labels[i] = point.Day.Format("Jan 2")
		posts[i] = ChartPoint{Label: labels[i], Value: float64(point.Posts)}
		questions[i] = ChartPoint{Label: labels[i], Value: float64(point.Questions)}
	}
	theme, _ := meta.Setting("theme")

	data, err := p.renderer.Render(ctx, meta, ChartSpec{
		Title:    "Participation",
		Subtitle: fmt.Sprintf("Last %d days", days),
		XAxis:    labels,
		Series: []ChartSeries{
			{Name: "Posts", Points: posts},
			{Name: "Questions", Points: questions},
		},
		Theme: stringValue(theme, ""),
	})
	if err != nil {
		return nil, err
	}
	data["source"] = map[string]any{"days": days, "points": len(points)}
	return data, nil
}

// NewStaticParticipationRepository always serves the provided points.
func NewStaticParticipationRepository(points []ParticipationPoint) ParticipationRepository {
	return staticParticipationRepository{points: points}
}

type staticParticipationRepository struct {
	points []ParticipationPoint
}

func (s staticParticipationRepository) FetchParticipation(_ context.Context, _ ParticipationQuery) ([]ParticipationPoint, error) {
	out := make([]ParticipationPoint, len(s.points))
	copy(out, s.points)
	return out, nil
}

// DemoParticipationRepository generates a deterministic week-shaped series.
type DemoParticipationRepository struct{}

// FetchParticipation returns one point per requested day, oldest first.
func (DemoParticipationRepository) FetchParticipation(_ context.Context, query ParticipationQuery) ([]ParticipationPoint, error) {
	days := query.Days
	if days <= 0 {
		days = 7
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	out := make([]ParticipationPoint, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i-days+1)
		weekday := int(day.Weekday())
		out[i] = ParticipationPoint{
			Day:       day,
			Posts:     4 + (weekday*3)%7,
			Questions: 1 + weekday%4,
		}
	}
	return out, nil
}
