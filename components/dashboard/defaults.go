package dashboard

import "github.com/go-echarts/go-echarts/v2/types"

// Widget identifiers for the built-in ClassBoard widgets.
const (
	WidgetAnnouncements = "announcements"
	WidgetQuickLinks    = "quick_links"
	WidgetActivityBoard = "activity_board"
	WidgetOpenQuestions = "open_questions"
	WidgetClassChat     = "class_chat"
	WidgetParticipation = "participation"
)

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		ID:    WidgetAnnouncements,
		Title: "Announcements",
		TitleLocalized: map[string]string{
			"es": "Anuncios",
		},
		Description: "Pinned notes from the teacher",
		DescriptionLocalized: map[string]string{
			"es": "Notas fijadas por el docente",
		},
		Icon:            "megaphone",
		Category:        "communication",
		DefaultOrder:    1,
		DefaultVisible:  true,
		DefaultSize:     WidgetSizeLarge,
		DefaultSettings: map[string]any{"limit": 3},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 20},
			},
		},
	},
	{
		ID:    WidgetQuickLinks,
		Title: "Quick Links",
		TitleLocalized: map[string]string{
			"es": "Accesos rápidos",
		},
		Description:    "Shortcuts to the activity board, ask session and chat",
		Icon:           "link",
		Category:       "navigation",
		DefaultOrder:   2,
		DefaultVisible: true,
		DefaultSize:    WidgetSizeSmall,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"links": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "object"},
				},
			},
		},
	},
	{
		ID:    WidgetActivityBoard,
		Title: "Activity Board",
		TitleLocalized: map[string]string{
			"es": "Tablero de actividades",
		},
		Description: "Latest notes posted by students",
		DescriptionLocalized: map[string]string{
			"es": "Últimas notas publicadas por estudiantes",
		},
		Icon:            "sticky-note",
		Category:        "activity",
		DefaultOrder:    3,
		DefaultVisible:  true,
		DefaultSize:     WidgetSizeMedium,
		DefaultSettings: map[string]any{"limit": 5},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 50},
			},
		},
	},
	{
		ID:    WidgetOpenQuestions,
		Title: "Open Questions",
		TitleLocalized: map[string]string{
			"es": "Preguntas abiertas",
		},
		Description:     "Unanswered questions from the current ask session",
		Icon:            "help-circle",
		Category:        "activity",
		DefaultOrder:    4,
		DefaultVisible:  true,
		DefaultSize:     WidgetSizeMedium,
		DefaultSettings: map[string]any{"include_answered": false},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"include_answered": map[string]any{"type": "boolean"},
			},
		},
	},
	{
		ID:          WidgetClassChat,
		Title:       "Class Chat",
		Description: "Most recent chat messages",
		Icon:        "message-circle",
		Category:    "communication",
		// hidden until the teacher adds it from the picker
		DefaultOrder:    5,
		DefaultVisible:  false,
		DefaultSize:     WidgetSizeMedium,
		DefaultSettings: map[string]any{"limit": 10},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 50},
			},
		},
	},
	{
		ID:    WidgetParticipation,
		Title: "Participation",
		TitleLocalized: map[string]string{
			"es": "Participación",
		},
		Description:    "Posts and questions per day",
		Icon:           "bar-chart",
		Category:       "analytics",
		DefaultOrder:   6,
		DefaultVisible: false,
		DefaultSize:    WidgetSizeFull,
		DefaultSettings: map[string]any{
			"days":  7,
			"theme": types.ThemeWesteros,
		},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"days":  map[string]any{"type": "integer", "minimum": 1, "maximum": 30},
				"theme": map[string]any{"type": "string"},
			},
		},
	},
}

// DefaultWidgetDefinitions returns the built-in ClassBoard widgets.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	for i, def := range defaultWidgetDefinitions {
		def.DefaultSettings = cloneSettings(def.DefaultSettings)
		out[i] = def
	}
	return out
}
