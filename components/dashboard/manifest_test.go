package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: 1
name: science-pack
widgets:
  - definition:
      id: lab_schedule
      title: Lab Schedule
      description: Upcoming lab sessions.
      category: planning
      default_order: 10
      default_size: large
      schema:
        type: object
        properties:
          weeks:
            type: integer
    provider:
      name: Lab schedule provider
      summary: Calls the scheduling API.
      entry: github.com/example/labs.Provider
      package: github.com/example/labs
      docs_url: https://example.com/widgets/labs
      capabilities: ["html","json"]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)

	widget := doc.Widgets[0]
	assert.Equal(t, "lab_schedule", widget.Definition.ID)
	assert.Equal(t, "Lab Schedule", widget.Definition.Title)
	assert.Equal(t, WidgetSizeLarge, widget.Definition.DefaultSize)
	assert.Equal(t, 10, widget.Definition.DefaultOrder)
	assert.Equal(t, "Lab schedule provider", widget.Provider.Name)
	assert.Equal(t, "planning", widget.Definition.Category)
}

func TestDecodeManifestRejectsUnknownFields(t *testing.T) {
	const payload = `
widgets:
  - definition:
      id: lab_schedule
      title: Lab Schedule
      colour: red
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
}

func TestDecodeManifestRejectsUnknownSize(t *testing.T) {
	const payload = `
widgets:
  - definition:
      id: lab_schedule
      title: Lab Schedule
      default_size: huge
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown default_size")
}

func TestRegistryLoadManifestDocument(t *testing.T) {
	doc := &WidgetManifestDocument{
		Version: manifestVersionV1,
		Widgets: []ManifestWidget{
			{
				Definition: WidgetDefinition{ID: "reading_log", Title: "Reading Log", DefaultOrder: 9},
				Provider: ManifestProvider{
					Name:  "Reading log provider",
					Entry: "github.com/acme/widgets.NewReadingLog",
				},
			},
			{
				Definition: WidgetDefinition{ID: "grades_pie", Title: "Grades"},
				Provider:   ManifestProvider{Entry: "echarts.pie"},
			},
		},
	}
	reg := NewRegistry()

	require.NoError(t, reg.LoadManifestDocument(doc))

	def, ok := reg.Definition("reading_log")
	require.True(t, ok)
	assert.Equal(t, "Reading Log", def.Title)
	assert.Equal(t, WidgetSizeMedium, def.DefaultSize)

	meta, ok := reg.ProviderMetadata("reading_log")
	require.True(t, ok)
	assert.Equal(t, "github.com/acme/widgets.NewReadingLog", meta.Entry)

	_, ok = reg.Provider("reading_log")
	assert.False(t, ok, "unknown entries only record metadata")
	provider, ok := reg.Provider("grades_pie")
	require.True(t, ok)
	assert.IsType(t, &EChartsProvider{}, provider)
}

func TestManifestDuplicateIDs(t *testing.T) {
	const payload = `
widgets:
  - definition:
      id: dup_widget
      title: First
  - definition:
      id: dup_widget
      title: Second
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates widget id")
}

func TestDocsManifestsAreValid(t *testing.T) {
	dir := filepath.Join("..", "..", "docs", "manifests")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	ids := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := ReadManifest(path)
		require.NoErrorf(t, err, "manifest %s should parse", path)
		for _, widget := range doc.Widgets {
			if prev, exists := ids[widget.Definition.ID]; exists {
				t.Fatalf("widget id %s defined in both %s and %s", widget.Definition.ID, prev, path)
			}
			if _, builtin := defaultWidgetByID(widget.Definition.ID); builtin {
				t.Fatalf("manifest %s redefines built-in widget %s", path, widget.Definition.ID)
			}
			ids[widget.Definition.ID] = path
		}
	}
}

func TestDocsManifestWidgetsRenderOnBoard(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.LoadManifestFile(filepath.Join("..", "..", "docs", "manifests", "classroom-extras.yaml"))
	require.NoError(t, err)

	svc := NewService(Options{Providers: reg, ChartCache: NewChartCache(0)})
	ctx := context.Background()
	board, err := svc.Board(ctx, ViewerContext{UserID: "t-1"}, "room-1")
	require.NoError(t, err)
	require.Len(t, board.Widgets, 8)

	prefs := board.Preferences()
	for i := range prefs {
		prefs[i].IsVisible = prefs[i].WidgetID == "question_trend" || prefs[i].WidgetID == "chat_digest"
	}
	_, err = svc.SavePreferences(ctx, ViewerContext{UserID: "t-1"}, "room-1", prefs)
	require.NoError(t, err)

	board, err = svc.Board(ctx, ViewerContext{UserID: "t-1"}, "room-1")
	require.NoError(t, err)
	require.Contains(t, board.Data, "question_trend")
	assert.Equal(t, "line", board.Data["question_trend"]["chart_type"])
	require.Contains(t, board.Data, "chat_digest")
	items, ok := board.Data["chat_digest"]["items"].([]FeedItem)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func defaultWidgetByID(id string) (WidgetDefinition, bool) {
	for _, def := range DefaultWidgetDefinitions() {
		if def.ID == id {
			return def, true
		}
	}
	return WidgetDefinition{}, false
}
