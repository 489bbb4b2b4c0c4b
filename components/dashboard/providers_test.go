package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedContext(widgetID string, settings map[string]any) WidgetContext {
	return WidgetContext{
		ClassroomID: "room-1",
		Widget: ResolvedWidgetPreference{
			WidgetPreference: WidgetPreference{WidgetID: widgetID, IsVisible: true, Settings: settings},
		},
	}
}

type recordingFeed struct {
	items     []FeedItem
	err       error
	lastLimit int
	lastKind  FeedKind
}

func (f *recordingFeed) Recent(_ context.Context, _ string, kind FeedKind, limit int) ([]FeedItem, error) {
	f.lastKind = kind
	f.lastLimit = limit
	return f.items, f.err
}

func TestFeedProviderHonoursLimitSetting(t *testing.T) {
	feed := &recordingFeed{items: []FeedItem{{Author: "a", Body: "b"}}}
	provider := NewFeedProvider(feed, FeedBoardPosts, 5)

	data, err := provider.Fetch(context.Background(), feedContext(WidgetActivityBoard, map[string]any{"limit": float64(2)}))
	require.NoError(t, err)
	assert.Equal(t, 2, feed.lastLimit)
	assert.Equal(t, FeedBoardPosts, feed.lastKind)
	assert.Equal(t, "posts", data["kind"])
	assert.Len(t, data["items"], 1)

	_, err = provider.Fetch(context.Background(), feedContext(WidgetActivityBoard, map[string]any{"limit": "lots"}))
	require.NoError(t, err)
	assert.Equal(t, 5, feed.lastLimit)
}

func TestFeedProviderFiltersAnsweredQuestions(t *testing.T) {
	feed := &recordingFeed{items: []FeedItem{
		{Author: "Sam", Body: "open"},
		{Author: "Ava", Body: "done", Answered: true},
	}}
	provider := NewFeedProvider(feed, FeedQuestions, 10)

	data, err := provider.Fetch(context.Background(), feedContext(WidgetOpenQuestions, nil))
	require.NoError(t, err)
	items := data["items"].([]FeedItem)
	require.Len(t, items, 1)
	assert.Equal(t, "Sam", items[0].Author)

	data, err = provider.Fetch(context.Background(), feedContext(WidgetOpenQuestions, map[string]any{"include_answered": true}))
	require.NoError(t, err)
	assert.Len(t, data["items"], 2)
	assert.Len(t, feed.items, 2, "filtering must not mutate the feed's slice")
}

func TestFeedProviderWrapsErrors(t *testing.T) {
	feedErr := errors.New("timeout")
	provider := NewFeedProvider(&recordingFeed{err: feedErr}, FeedChat, 10)
	_, err := provider.Fetch(context.Background(), feedContext(WidgetClassChat, nil))
	require.ErrorIs(t, err, feedErr)

	_, err = NewFeedProvider(nil, FeedChat, 10).Fetch(context.Background(), feedContext(WidgetClassChat, nil))
	require.Error(t, err)
}

func TestFeedProviderEmptyMessageTranslated(t *testing.T) {
	provider := NewFeedProvider(&recordingFeed{}, FeedAnnouncements, 3)
	ctx := feedContext(WidgetAnnouncements, nil)
	data, err := provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nothing here yet", data["empty"])

	ctx.Translator = stubTranslationService{value: "Nada por aquí"}
	data, err = provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nada por aquí", data["empty"])
}

func TestStaticClassFeedLimit(t *testing.T) {
	feed := DemoClassFeed()
	items, err := feed.Recent(context.Background(), "room-1", FeedBoardPosts, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = feed.Recent(context.Background(), "room-1", FeedBoardPosts, 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestQuickLinksProviderDefaults(t *testing.T) {
	data, err := quickLinksProvider().Fetch(context.Background(), feedContext(WidgetQuickLinks, nil))
	require.NoError(t, err)
	links := data["links"].([]map[string]any)
	require.Len(t, links, 3)
	assert.Equal(t, "/classrooms/room-1/activity", links[0]["route"])
	assert.Equal(t, "/classrooms/room-1/chat", links[2]["route"])
}

func TestQuickLinksProviderUsesSettings(t *testing.T) {
	custom := []any{map[string]any{"label": "Rubric", "route": "/files/rubric.pdf"}}
	data, err := quickLinksProvider().Fetch(context.Background(), feedContext(WidgetQuickLinks, map[string]any{"links": custom}))
	require.NoError(t, err)
	assert.Equal(t, custom, data["links"])
}

type failingParticipationRepo struct{}

func (failingParticipationRepo) FetchParticipation(context.Context, ParticipationQuery) ([]ParticipationPoint, error) {
	return nil, errors.New("warehouse offline")
}

type recordingParticipationRepo struct {
	query ParticipationQuery
}

func (r *recordingParticipationRepo) FetchParticipation(_ context.Context, query ParticipationQuery) ([]ParticipationPoint, error) {
	r.query = query
	return DemoParticipationRepository{}.FetchParticipation(context.Background(), query)
}

func TestParticipationChartProvider(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	repo := NewStaticParticipationRepository([]ParticipationPoint{
		{Day: day, Posts: 4, Questions: 1},
		{Day: day.AddDate(0, 0, 1), Posts: 6, Questions: 2},
	})
	provider := NewParticipationChartProvider(repo, NewEChartsProvider("bar", WithChartCache(nil)))

	data, err := provider.Fetch(context.Background(), feedContext(WidgetParticipation, nil))
	require.NoError(t, err)
	assert.Equal(t, "bar", data["chart_type"])
	assert.Equal(t, "Last 7 days", data["subtitle"])
	assert.Equal(t, map[string]any{"days": 7, "points": 2}, data["source"])
	assert.Contains(t, html(data), "mar 3")
}

func TestParticipationChartProviderDaysSetting(t *testing.T) {
	repo := &recordingParticipationRepo{}
	provider := NewParticipationChartProvider(repo, NewEChartsProvider("line", WithChartCache(nil)))

	data, err := provider.Fetch(context.Background(), feedContext(WidgetParticipation, map[string]any{"days": 14}))
	require.NoError(t, err)
	assert.Equal(t, 14, repo.query.Days)
	assert.Equal(t, "room-1", repo.query.ClassroomID)
	assert.Equal(t, "line", data["chart_type"])
}

func TestParticipationChartProviderErrors(t *testing.T) {
	_, err := NewParticipationChartProvider(failingParticipationRepo{}, nil).Fetch(context.Background(), feedContext(WidgetParticipation, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse offline")

	_, err = NewParticipationChartProvider(nil, nil).Fetch(context.Background(), feedContext(WidgetParticipation, nil))
	require.Error(t, err)
}

func TestDemoParticipationRepositoryShape(t *testing.T) {
	points, err := DemoParticipationRepository{}.FetchParticipation(context.Background(), ParticipationQuery{Days: 5})
	require.NoError(t, err)
	require.Len(t, points, 5)
	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].Day.After(points[i-1].Day), "points must be oldest first")
	}
}
