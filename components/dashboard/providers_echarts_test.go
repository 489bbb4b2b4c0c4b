package dashboard

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEChartsBarProvider(t *testing.T) {
	t.Parallel()
	provider := NewEChartsProvider("bar", WithChartCache(nil))
	ctx := sampleChartContext("weekly_posts", map[string]any{
		"title":  "Posts per day",
		"x_axis": []string{"Mon", "Tue", "Wed"},
		"series": []map[string]any{
			{"name": "Posts", "data": []float64{10, 20, 30}},
		},
	})

	data, err := provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)

	assert.Equal(t, "bar", data["chart_type"])
	assert.Equal(t, "Posts per day", data["title"])
	assert.Contains(t, html(data), "echarts")
}

func TestEChartsLineProvider(t *testing.T) {
	t.Parallel()
	provider := NewEChartsProvider("line", WithChartCache(nil))
	ctx := sampleChartContext("question_trend", map[string]any{
		"title":  "Questions",
		"x_axis": []any{"Week 1", "Week 2", "Week 3"},
		"series": []any{
			map[string]any{"name": "Asked", "data": []any{4, 7.5, "3"}},
		},
	})

	data, err := provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, "line", data["chart_type"])
	assert.Equal(t, "Questions", data["title"])
	assert.Contains(t, html(data), "echarts")
}

func TestEChartsPieProvider(t *testing.T) {
	t.Parallel()
	provider := NewEChartsProvider("pie", WithChartCache(nil))
	ctx := sampleChartContext("post_mix", map[string]any{
		"title": "Post types",
		"series": []map[string]any{
			{
				"name": "Types",
				"data": []any{
					map[string]any{"name": "Notes", "value": 100},
					map[string]any{"name": "Photos", "value": 200},
				},
			},
		},
	})

	data, err := provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, "pie", data["chart_type"])
	assert.Contains(t, html(data), "photos")
}

func TestEChartsProviderFallsBackToWidgetTitle(t *testing.T) {
	t.Parallel()
	provider := NewEChartsProvider("bar", WithChartCache(nil))
	ctx := sampleChartContext("weekly_posts", map[string]any{
		"series": []map[string]any{{"name": "Posts", "data": []int{1, 2}}},
	})
	ctx.Widget.Title = "Weekly posts"

	data, err := provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, "Weekly posts", data["title"])
}

func TestEChartsProviderRequiresSeries(t *testing.T) {
	t.Parallel()
	provider := NewEChartsProvider("bar", WithChartCache(nil))
	_, err := provider.Fetch(context.Background(), sampleChartContext("empty", map[string]any{"title": "Nothing"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "series")
}

func TestEChartsProviderInvalidType(t *testing.T) {
	t.Parallel()
	provider := NewEChartsProvider("bubble", WithChartCache(nil))
	ctx := sampleChartContext("weekly_posts", map[string]any{
		"title": "Unsupported",
		"series": []map[string]any{
			{"name": "Series", "data": []float64{1}},
		},
	})

	_, err := provider.Fetch(context.Background(), ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestEChartsProviderUsesCache(t *testing.T) {
	t.Parallel()
	cache := &countingCache{}
	provider := NewEChartsProvider("bar", WithChartCache(cache))
	ctx := sampleChartContext("weekly_posts", map[string]any{
		"title":  "Cached",
		"series": []map[string]any{{"name": "Series", "data": []float64{1, 2}}},
	})

	_, err := provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	_, err = provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), cache.calls)
	assert.True(t, strings.HasPrefix(cache.lastKey, "room-1:weekly_posts:bar:"))
}

func TestEChartsProviderThemeOverride(t *testing.T) {
	t.Parallel()
	provider := NewEChartsProvider("bar", WithChartCache(nil), WithChartThemeResolver(func(ViewerContext) string {
		return types.ThemeWalden
	}))
	ctx := sampleChartContext("weekly_posts", map[string]any{
		"title": "Theme Override",
		"series": []map[string]any{
			{"name": "Series", "data": []float64{5, 6}},
		},
		"theme": types.ThemeWonderland,
	})

	data, err := provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeWonderland, data["theme"])

	delete(ctx.Widget.Settings, "theme")
	data, err = provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeWalden, data["theme"])
}

func TestEChartsProviderStaticTheme(t *testing.T) {
	t.Parallel()
	provider := NewEChartsProvider("bar", WithChartCache(nil), WithChartTheme(types.ThemeChalk))
	ctx := sampleChartContext("weekly_posts", map[string]any{
		"series": []map[string]any{{"name": "Series", "data": []float64{1}}},
	})

	data, err := provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ThemeChalk, data["theme"])
}

func TestEChartsProviderTranslatesTitle(t *testing.T) {
	t.Parallel()
	provider := NewEChartsProvider("bar", WithChartCache(nil))
	ctx := sampleChartContext("weekly_posts", map[string]any{
		"title":  "Posts",
		"series": []map[string]any{{"name": "Posts", "data": []float64{1}}},
	})
	ctx.Translator = stubTranslationService{value: "Publicaciones"}
	ctx.Viewer.Locale = "es"

	data, err := provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	assert.Equal(t, "Publicaciones", data["title"])
}

func TestEChartsProviderAssetsHost(t *testing.T) {
	t.Parallel()
	provider := NewEChartsProvider("bar", WithChartCache(nil), WithChartAssetsHost("https://cdn.example.edu/echarts/"))
	ctx := sampleChartContext("weekly_posts", map[string]any{
		"series": []map[string]any{{"name": "Series", "data": []float64{1}}},
	})

	data, err := provider.Fetch(context.Background(), ctx)
	require.NoError(t, err)
	assert.Contains(t, html(data), "https://cdn.example.edu/echarts/")
}

func TestInferredAxisLabels(t *testing.T) {
	labels := inferredAxisLabels([]ChartSeries{
		{Name: "short", Points: []ChartPoint{{Value: 1}}},
		{Name: "long", Points: []ChartPoint{{Label: "Mon", Value: 1}, {Value: 2}}},
	})
	assert.Equal(t, []string{"Mon", "Item 2"}, labels)
}

func TestChartCacheKeyChangesWithSpec(t *testing.T) {
	a := chartCacheKey("room-1", "w", "bar", ChartSpec{Title: "A"})
	b := chartCacheKey("room-1", "w", "bar", ChartSpec{Title: "B"})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, chartCacheKey("room-1", "w", "bar", ChartSpec{Title: "A"}))
}

func sampleChartContext(widgetID string, cfg map[string]any) WidgetContext {
	return WidgetContext{
		ClassroomID: "room-1",
		Widget: ResolvedWidgetPreference{
			WidgetPreference: WidgetPreference{
				WidgetID:  widgetID,
				IsVisible: true,
				Size:      WidgetSizeMedium,
				Settings:  cfg,
			},
		},
		Viewer: ViewerContext{UserID: "tester", Locale: "en"},
	}
}

func html(data WidgetData) string {
	val, _ := data["chart_html"].(string)
	return strings.ToLower(val)
}

type countingCache struct {
	calls   int32
	value   string
	lastKey string
}

func (c *countingCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	c.lastKey = key
	if c.value != "" {
		return c.value, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	atomic.AddInt32(&c.calls, 1)
	c.value = html
	return html, nil
}

func BenchmarkEChartsBarChart(b *testing.B) {
	provider := NewEChartsProvider("bar", WithChartCache(nil))
	ctx := sampleChartContext("weekly_posts", map[string]any{
		"title":  "Benchmark",
		"x_axis": []string{"A", "B", "C", "D", "E"},
		"series": []map[string]any{
			{"name": "S1", "data": []float64{10, 20, 30, 40, 50}},
			{"name": "S2", "data": []float64{11, 21, 31, 41, 51}},
		},
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := provider.Fetch(context.Background(), ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEChartsBarChartCached(b *testing.B) {
	cache := NewChartCache(5 * time.Minute)
	provider := NewEChartsProvider("bar", WithChartCache(cache))
	ctx := sampleChartContext("weekly_posts", map[string]any{
		"title":  "Cached Benchmark",
		"x_axis": []string{"A", "B", "C", "D", "E"},
		"series": []map[string]any{
			{"name": "S1", "data": []float64{10, 20, 30, 40, 50}},
		},
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := provider.Fetch(context.Background(), ctx); err != nil {
			b.Fatal(err)
		}
	}
}
