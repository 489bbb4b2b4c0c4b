package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "320px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartSeries is one legend entry of a chart.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint is an individual value, optionally labeled.
type ChartPoint struct {
	Label string
	Value float64
}

// ChartSpec is everything needed to draw a chart independent of its data source.
type ChartSpec struct {
	Title    string
	Subtitle string
	XAxis    []string
	Series   []ChartSeries
	Theme    string
}

// ThemeResolver selects a chart theme per viewer.
type ThemeResolver func(ViewerContext) string

// EChartsProvider renders server-side chart HTML for the given chart type.
type EChartsProvider struct {
	chartType     string
	cache         RenderCache
	theme         string
	themeResolver ThemeResolver
	assetsHost    string
}

// EChartsProviderOption customizes provider behavior.
type EChartsProviderOption func(*EChartsProvider)

// WithChartCache injects a render cache. A nil cache disables caching.
func WithChartCache(cache RenderCache) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.theme = theme
	}
}

// WithChartThemeResolver resolves themes dynamically per viewer.
func WithChartThemeResolver(resolver ThemeResolver) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.themeResolver = resolver
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.assetsHost = host
	}
}

// NewEChartsProvider builds a provider for "bar", "line" or "pie" charts.
func NewEChartsProvider(chartType string, opts ...EChartsProviderOption) *EChartsProvider {
	p := &EChartsProvider{
		chartType: strings.ToLower(chartType),
		cache:     sharedChartCache,
		theme:     types.ThemeWesteros,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch draws a chart described entirely by the widget settings
// ("title", "subtitle", "x_axis", "series", "theme").
func (p *EChartsProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	cfg := meta.Widget.Settings
	if cfg == nil {
		cfg = map[string]any{}
	}
	series := parseChartSeries(cfg["series"])
	if len(series) == 0 {
		return nil, fmt.Errorf("chart series is required")
	}
	return p.Render(ctx, meta, ChartSpec{
		Title:    stringValue(cfg["title"], meta.Widget.Title),
		Subtitle: stringValue(cfg["subtitle"], ""),
		XAxis:    stringSliceValue(cfg["x_axis"]),
		Series:   series,
		Theme:    stringValue(cfg["theme"], ""),
	})
}

// Render draws spec for the widget in meta, translating labels and caching the HTML.
func (p *EChartsProvider) Render(ctx context.Context, meta WidgetContext, spec ChartSpec) (WidgetData, error) {
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("chart series is required")
	}
	if meta.Translator != nil {
		key := fmt.Sprintf("dashboard.widget.%s.title", meta.Widget.WidgetID)
		spec.Title = translateOrFallback(ctx, meta.Translator, key, meta.Viewer.Locale, spec.Title, nil)
	}
	if len(spec.XAxis) == 0 {
		spec.XAxis = inferredAxisLabels(spec.Series)
	}
	spec.XAxis = translateLabels(ctx, meta, spec.XAxis)
	spec.Series = translateSeries(ctx, meta, spec.Series)
	if strings.TrimSpace(spec.Theme) == "" {
		spec.Theme = p.resolveTheme(meta.Viewer)
	}

	renderFn := func() (string, error) {
		return p.render(spec)
	}
	var (
		html string
		err  error
	)
	if p.cache != nil {
		html, err = p.cache.GetOrRender(chartCacheKey(meta.ClassroomID, meta.Widget.WidgetID, p.chartType, spec), renderFn)
	} else {
		html, err = renderFn()
	}
	if err != nil {
		return nil, err
	}
	return WidgetData{
		"chart_html": html,
		"chart_type": p.chartType,
		"title":      spec.Title,
		"subtitle":   spec.Subtitle,
		"theme":      spec.Theme,
	}, nil
}

func (p *EChartsProvider) render(spec ChartSpec) (string, error) {
	switch p.chartType {
	case "bar":
		bar := charts.NewBar()
		bar.SetGlobalOptions(p.globalChartOptions(spec)...)
		bar.SetXAxis(spec.XAxis)
		for _, s := range spec.Series {
			bar.AddSeries(s.Name, toBarData(s.Points))
		}
		return renderChart(bar)
	case "line":
		line := charts.NewLine()
		line.SetGlobalOptions(p.globalChartOptions(spec)...)
		line.SetXAxis(spec.XAxis)
		for _, s := range spec.Series {
			line.AddSeries(s.Name, toLineData(s.Points))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case "pie":
		pie := charts.NewPie()
		pie.SetGlobalOptions(p.globalChartOptions(spec)...)
		for _, s := range spec.Series {
			pie.AddSeries(s.Name, toPieData(s.Points))
		}
		return renderChart(pie)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", p.chartType)
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *EChartsProvider) globalChartOptions(spec ChartSpec) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  spec.Theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if p.assetsHost != "" {
		initOpts.AssetsHost = p.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func (p *EChartsProvider) resolveTheme(viewer ViewerContext) string {
	if p.themeResolver != nil {
		if theme := p.themeResolver(viewer); theme != "" {
			return theme
		}
	}
	if p.theme != "" {
		return p.theme
	}
	return types.ThemeWesteros
}

func chartCacheKey(classroomID, widgetID, chartType string, spec ChartSpec) string {
	b, err := json.Marshal(spec)
	hash := "invalid"
	if err == nil {
		hash = contentHash(b)
	}
	return fmt.Sprintf("%s:%s:%s:%s", classroomID, widgetID, chartType, hash)
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []ChartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	return data
}

func parseChartSeries(v any) []ChartSeries {
	var items []map[string]any
	switch val := v.(type) {
	case []map[string]any:
		items = val
	case []any:
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				items = append(items, m)
			}
		}
	default:
		return nil
	}
	out := make([]ChartSeries, 0, len(items))
	for _, item := range items {
		series := ChartSeries{
			Name:   stringValue(item["name"], "Series"),
			Points: parseChartPoints(item["data"]),
		}
		if len(series.Points) > 0 {
			out = append(out, series)
		}
	}
	return out
}

func parseChartPoints(v any) []ChartPoint {
	switch value := v.(type) {
	case []float64:
		points := make([]ChartPoint, len(value))
		for i, val := range value {
			points[i] = ChartPoint{Value: val}
		}
		return points
	case []int:
		points := make([]ChartPoint, len(value))
		for i, val := range value {
			points[i] = ChartPoint{Value: float64(val)}
		}
		return points
	case []any:
		points := make([]ChartPoint, 0, len(value))
		for _, item := range value {
			if m, ok := item.(map[string]any); ok {
				points = append(points, ChartPoint{
					Label: stringValue(m["name"], ""),
					Value: float64Value(m["value"]),
				})
				continue
			}
			points = append(points, ChartPoint{Value: float64Value(item)})
		}
		return points
	default:
		return nil
	}
}

func stringSliceValue(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

func boolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true")
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return false
	}
}

func translateLabels(ctx context.Context, meta WidgetContext, labels []string) []string {
	if meta.Translator == nil || len(labels) == 0 {
		return labels
	}
	out := make([]string, len(labels))
	for i, label := range labels {
		out[i] = translateOrFallback(ctx, meta.Translator, label, meta.Viewer.Locale, label, nil)
	}
	return out
}

func translateSeries(ctx context.Context, meta WidgetContext, series []ChartSeries) []ChartSeries {
	if meta.Translator == nil {
		return series
	}
	out := make([]ChartSeries, len(series))
	copy(out, series)
	for i := range out {
		if out[i].Name == "" {
			continue
		}
		out[i].Name = translateOrFallback(ctx, meta.Translator, out[i].Name, meta.Viewer.Locale, out[i].Name, nil)
	}
	return out
}

func inferredAxisLabels(series []ChartSeries) []string {
	var candidate []string
	longest := 0
	for _, s := range series {
		if len(s.Points) <= longest {
			continue
		}
		longest = len(s.Points)
		candidate = make([]string, len(s.Points))
		for i, point := range s.Points {
			if point.Label != "" {
				candidate[i] = point.Label
			} else {
				candidate[i] = fmt.Sprintf("Item %d", i+1)
			}
		}
	}
	return candidate
}
