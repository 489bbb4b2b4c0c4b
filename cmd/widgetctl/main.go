package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-classboard/components/dashboard"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Add a classroom widget to a manifest and optionally generate a provider stub."`
	Validate validateCmd `cmd:"" help:"Check manifests decode and register cleanly."`
}

type scaffoldCmd struct {
	ID              string   `required:"" help:"Widget id (normalized to snake_case, e.g. question_trend)."`
	Title           string   `required:"" help:"Display title for the widget."`
	Description     string   `required:"" help:"One-line description used in manifests and the add-widget picker."`
	Icon            string   `default:"square" help:"Icon name shown on the widget header."`
	Category        string   `default:"custom" help:"Widget category (communication, analytics, ...)."`
	Order           int      `name:"default-order" required:"" help:"Default position among classroom widgets (1 = first)."`
	Visible         bool     `name:"default-visible" help:"Show the widget on boards that never customized their layout."`
	Size            string   `name:"default-size" default:"medium" enum:"small,medium,large,full" help:"Default widget size."`
	ManifestPath    string   `required:"" type:"path" help:"Path to the widget manifest YAML file to update."`
	SchemaPath      string   `type:"path" help:"Optional path to a JSON schema file for the widget settings."`
	Tag             []string `help:"Optional tags to include in the manifest (use multiple --tag flags)."`
	Maintainer      []string `help:"Maintainers to record in the manifest."`
	Builtin         string   `help:"Built-in provider entry (echarts.bar, echarts.line, echarts.pie, feed.<kind>); skips stub generation."`
	ProviderPackage string   `default:"github.com/goliatone/go-classboard/components/dashboard" help:"Go package where the provider factory lives."`
	ProviderOut     string   `help:"File path for the generated provider stub (defaults to components/dashboard/providers_<id>.go)."`
	Overwrite       bool     `help:"Overwrite existing provider stub / manifest entry if present."`
	SkipProvider    bool     `name:"skip-provider" help:"Skip provider stub generation."`
}

type validateCmd struct {
	Paths []string `arg:"" type:"existingfile" help:"Manifest files to check."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Widget manifest utility for classroom boards."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	id := strcase.ToSnake(strings.TrimSpace(cmd.ID))
	if id == "" {
		return errors.New("widgetctl: widget id is required")
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("widgetctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	existing := -1
	for idx, widget := range doc.Widgets {
		if widget.Definition.ID == id {
			existing = idx
			break
		}
	}
	if existing >= 0 && !cmd.Overwrite {
		return fmt.Errorf("widgetctl: manifest already defines widget %s (use --overwrite to replace)", id)
	}

	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	providerType := strcase.ToCamel(id) + "Provider"
	providerEntry := cmd.Builtin
	if providerEntry == "" {
		providerEntry = fmt.Sprintf("%s.New%s", cmd.ProviderPackage, providerType)
	}

	entry := dashboard.ManifestWidget{
		Definition: dashboard.WidgetDefinition{
			ID:             id,
			Title:          cmd.Title,
			Description:    cmd.Description,
			Icon:           cmd.Icon,
			Category:       cmd.Category,
			DefaultOrder:   cmd.Order,
			DefaultVisible: cmd.Visible,
			DefaultSize:    dashboard.WidgetSize(cmd.Size),
			Schema:         schema,
		},
		Provider: dashboard.ManifestProvider{
			Name:    fmt.Sprintf("%s Provider", cmd.Title),
			Summary: cmd.Description,
			Entry:   providerEntry,
			Package: cmd.ProviderPackage,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}

	if existing >= 0 {
		doc.Widgets[existing] = entry
	} else {
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.SliceStable(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Definition.DefaultOrder < doc.Widgets[j].Definition.DefaultOrder
	})

	if err := checkManifest(doc); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}

	if cmd.SkipProvider || cmd.Builtin != "" {
		fmt.Fprintf(os.Stdout, "✓ Added %s to %s (provider entry %s)\n", id, manifestPath, providerEntry)
		return nil
	}

	providerPath := cmd.ProviderOut
	if providerPath == "" {
		providerPath = filepath.Join("components", "dashboard", fmt.Sprintf("providers_%s.go", id))
	}
	if err := writeProviderStub(providerPath, providerType, id, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s and generated %s\n", id, manifestPath, providerPath)
	return nil
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("widgetctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("widgetctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func (cmd *validateCmd) Run(_ context.Context) error {
	var errs error
	for _, path := range cmd.Paths {
		doc, err := dashboard.ReadManifest(path)
		if err == nil {
			err = checkManifest(doc)
		}
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		fmt.Fprintf(os.Stdout, "✓ %s: %d widgets\n", path, len(doc.Widgets))
	}
	return errs
}

// checkManifest registers the document on a scratch registry so bad entries
// and schemas that reject their own defaults surface before writing.
func checkManifest(doc *dashboard.WidgetManifestDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	registry := dashboard.NewEmptyRegistry()
	if err := registry.LoadManifestDocument(doc); err != nil {
		return err
	}
	validator := dashboard.NewJSONSchemaValidator()
	for _, widget := range doc.Widgets {
		def := widget.Definition
		if err := validator.Validate(def, def.DefaultSettings); err != nil {
			return fmt.Errorf("widgetctl: default settings for %s: %w", def.ID, err)
		}
	}
	return nil
}

func loadOrInitManifest(path string) (*dashboard.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			doc := &dashboard.WidgetManifestDocument{
				Version: dashboard.ManifestVersion,
				Widgets: []dashboard.ManifestWidget{},
				Source:  path,
			}
			return doc, nil
		}
		return nil, fmt.Errorf("widgetctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("widgetctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("widgetctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("widgetctl: write manifest: %w", err)
	}
	return nil
}

func writeProviderStub(path, providerType, id string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("widgetctl: provider stub %s already exists (use --overwrite or --provider-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("widgetctl: mkdir provider dir: %w", err)
	}
	content := fmt.Sprintf(`package dashboard

import (
	"context"
)

// %s fetches data for the %s widget.
type %s struct{}

// New%s wires the provider into the widget registry.
func New%s() Provider {
	return &%s{}
}

// Fetch retrieves the widget payload for meta.ClassroomID.
func (p *%s) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	return WidgetData{
		"classroom_id": meta.ClassroomID,
		"message":      "replace with real data",
	}, nil
}
`, providerType, id, providerType, providerType, providerType, providerType, providerType)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("widgetctl: write provider stub: %w", err)
	}
	return nil
}
