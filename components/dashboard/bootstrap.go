package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// RegisterDefinitions adds definitions to a registry, stopping at the first failure.
func RegisterDefinitions(registry ProviderRegistry, defs []WidgetDefinition) error {
	if registry == nil {
		return errors.New("dashboard: registry is required")
	}
	for _, def := range defs {
		if err := registry.RegisterDefinition(def); err != nil {
			return fmt.Errorf("register definition %s: %w", def.ID, err)
		}
	}
	return nil
}

// SeedClassrooms stores the default layout for classrooms that have never
// saved one. Classrooms with stored preferences are left untouched. It
// returns the ids that were seeded.
func SeedClassrooms(ctx context.Context, service *Service, classroomIDs ...string) ([]string, error) {
	if service == nil {
		return nil, errors.New("dashboard: service is required to seed classrooms")
	}
	var (
		seeded  []string
		seedErr error
	)
	defaults := Normalize(DefaultPreferences(service.Definitions()))
	for _, id := range classroomIDs {
		stored, err := service.opts.PreferenceStore.LoadPreferences(ctx, id)
		if err != nil {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed %s: %w", id, err))
			continue
		}
		if len(stored) > 0 {
			continue
		}
		if err := service.opts.PreferenceStore.SavePreferences(ctx, id, clonePreferences(defaults)); err != nil {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed %s: %w", id, err))
			continue
		}
		seeded = append(seeded, id)
	}
	return seeded, seedErr
}
