package dashboard

import (
	"context"
	"errors"
	"testing"
)

type stubTranslationService struct {
	value string
	err   error
}

func (s stubTranslationService) Translate(ctx context.Context, key, locale string, args map[string]any) (string, error) {
	return s.value, s.err
}

func TestResolveLocalizedValue(t *testing.T) {
	values := map[string]string{
		"en":    "Board",
		"es":    "Tablero",
		"es-mx": "Panel",
	}
	if got := ResolveLocalizedValue(values, "es-mx", "fallback"); got != "Panel" {
		t.Fatalf("expected region-specific match, got %q", got)
	}
	if got := ResolveLocalizedValue(values, "es-ar", "fallback"); got != "Tablero" {
		t.Fatalf("expected base locale fallback, got %q", got)
	}
	if got := ResolveLocalizedValue(values, "fr", "Board"); got != "Board" {
		t.Fatalf("expected fallback when locale missing, got %q", got)
	}
	if got := ResolveLocalizedValue(nil, "es", "Board"); got != "Board" {
		t.Fatalf("expected fallback when no localized map, got %q", got)
	}
}

func TestTranslateOrFallback(t *testing.T) {
	svc := stubTranslationService{value: "Tablero"}
	out := translateOrFallback(context.Background(), svc, "classboard.title", "es", "Board", nil)
	if out != "Tablero" {
		t.Fatalf("expected translator value, got %q", out)
	}
	svc = stubTranslationService{err: errors.New("boom")}
	out = translateOrFallback(context.Background(), svc, "classboard.title", "es", "Board", nil)
	if out != "Board" {
		t.Fatalf("expected fallback on error, got %q", out)
	}
	out = translateOrFallback(context.Background(), nil, "classboard.title", "es", "", nil)
	if out != "classboard.title" {
		t.Fatalf("expected key when no fallback is available, got %q", out)
	}
}

func TestDefinitionTitleForLocale(t *testing.T) {
	reg := NewEmptyRegistry()
	if err := reg.RegisterDefinition(WidgetDefinition{
		ID:             "announcements",
		Title:          "Announcements",
		TitleLocalized: map[string]string{" ES ": "Anuncios", "fr": ""},
	}); err != nil {
		t.Fatalf("RegisterDefinition returned error: %v", err)
	}
	def, _ := reg.Definition("announcements")
	if got := def.TitleForLocale("es-MX"); got != "Anuncios" {
		t.Fatalf("expected normalized locale key to match, got %q", got)
	}
	if got := def.TitleForLocale("fr"); got != "Announcements" {
		t.Fatalf("expected empty translations to be dropped, got %q", got)
	}
}

func TestResolveLocalizedValueNormalizesTags(t *testing.T) {
	values := map[string]string{"PT-BR": "Mural", "default": "Board"}
	if got := ResolveLocalizedValue(values, "pt_BR", "fallback"); got != "Mural" {
		t.Fatalf("expected underscore and case to be normalized, got %q", got)
	}
	if got := ResolveLocalizedValue(values, "de", "fallback"); got != "Board" {
		t.Fatalf("expected default entry, got %q", got)
	}
	if got := ResolveLocalizedValue(values, "", "fallback"); got != "Board" {
		t.Fatalf("expected default entry for empty locale, got %q", got)
	}
}
