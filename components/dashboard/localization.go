package dashboard

import (
	"context"
	"strings"
)

const defaultLocaleKey = "default"

// TranslationService resolves message keys for a locale. Widget providers use
// it for labels; definition titles come from the *Localized maps instead.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// ResolveLocalizedValue picks values[locale], then the base language
// ("es-MX" -> "es"), then values["default"], then fallback. Tags are matched
// case-insensitively and "_" is treated as "-".
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	var index map[string]string
	for _, tag := range localeCandidates(locale) {
		if v := values[tag]; v != "" {
			return v
		}
		if index == nil {
			index = normalizeLocaleMap(values)
		}
		if v := index[tag]; v != "" {
			return v
		}
	}
	return fallback
}

func (def *WidgetDefinition) normalizeLocalizedFields() {
	def.TitleLocalized = normalizeLocaleMap(def.TitleLocalized)
	def.DescriptionLocalized = normalizeLocaleMap(def.DescriptionLocalized)
}

// TitleForLocale returns the widget title shown to a viewer with this locale.
func (def WidgetDefinition) TitleForLocale(locale string) string {
	return ResolveLocalizedValue(def.TitleLocalized, locale, def.Title)
}

// DescriptionForLocale returns the add-widget picker description for the locale.
func (def WidgetDefinition) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(def.DescriptionLocalized, locale, def.Description)
}

// normalizeLocaleMap lowercases tags and drops empty entries.
func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for tag, value := range values {
		if tag = normalizeLocale(tag); tag != "" && value != "" {
			out[tag] = value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func localeCandidates(locale string) []string {
	tag := normalizeLocale(locale)
	switch base, _, found := strings.Cut(tag, "-"); {
	case tag == "":
		return []string{defaultLocaleKey}
	case found && base != "":
		return []string{tag, base, defaultLocaleKey}
	default:
		return []string{tag, defaultLocaleKey}
	}
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(locale)), "_", "-")
}

// translateOrFallback never fails: translator errors and empty results fall
// back to fallback, then to the key itself.
func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		translated, err := svc.Translate(ctx, key, locale, params)
		if err == nil && translated != "" {
			return translated
		}
	}
	if fallback == "" {
		return key
	}
	return fallback
}
