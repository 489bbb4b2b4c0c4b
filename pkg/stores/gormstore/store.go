// Package gormstore persists classroom widget preferences in Postgres through gorm.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/goliatone/go-classboard/components/dashboard"
)

var errMissingClassroom = errors.New("gormstore: classroom id is required")

// Record is one row per classroom holding the whole preference list.
type Record struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	ClassroomID string         `gorm:"column:classroom_id;not null;uniqueIndex:uq_classroom_widget_preferences_classroom"`
	Preferences datatypes.JSON `gorm:"column:preferences;type:jsonb;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;not null"`
}

func (Record) TableName() string { return "classroom_widget_preferences" }

// Store implements dashboard.PreferenceStore.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to Postgres. Connections are not verified until first use
// when ping is false.
func Open(dsn string, ping bool) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("gormstore: dsn is required")
	}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{DisableAutomaticPing: !ping})
	if err != nil {
		return nil, fmt.Errorf("gormstore: open postgres: %w", err)
	}
	return db, nil
}

// New wraps an open gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Migrate creates or updates the preferences table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("gormstore: migrate: %w", err)
	}
	return nil
}

// LoadPreferences returns the stored list, or an empty slice when the classroom has no row.
func (s *Store) LoadPreferences(ctx context.Context, classroomID string) ([]dashboard.StoredPreference, error) {
	if classroomID == "" {
		return nil, errMissingClassroom
	}
	var rec Record
	err := s.db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []dashboard.StoredPreference{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gormstore: load preferences for %s: %w", classroomID, err)
	}
	return decodePreferences(classroomID, rec.Preferences)
}

// SavePreferences upserts the whole list for the classroom.
func (s *Store) SavePreferences(ctx context.Context, classroomID string, prefs []dashboard.WidgetPreference) error {
	rec, err := s.record(classroomID, prefs)
	if err != nil {
		return err
	}
	if err := s.upsert(s.db.WithContext(ctx), rec).Error; err != nil {
		return fmt.Errorf("gormstore: save preferences for %s: %w", classroomID, err)
	}
	return nil
}

func (s *Store) upsert(db *gorm.DB, rec *Record) *gorm.DB {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "classroom_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"preferences": rec.Preferences,
			"updated_at":  rec.UpdatedAt,
		}),
	}).Create(rec)
}

func (s *Store) record(classroomID string, prefs []dashboard.WidgetPreference) (*Record, error) {
	if classroomID == "" {
		return nil, errMissingClassroom
	}
	if prefs == nil {
		prefs = []dashboard.WidgetPreference{}
	}
	raw, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("gormstore: encode preferences for %s: %w", classroomID, err)
	}
	now := s.now().UTC()
	return &Record{
		ID:          uuid.New(),
		ClassroomID: classroomID,
		Preferences: datatypes.JSON(raw),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func decodePreferences(classroomID string, raw datatypes.JSON) ([]dashboard.StoredPreference, error) {
	if len(raw) == 0 {
		return []dashboard.StoredPreference{}, nil
	}
	var stored []dashboard.StoredPreference
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("gormstore: decode preferences for %s: %w", classroomID, err)
	}
	if stored == nil {
		stored = []dashboard.StoredPreference{}
	}
	return stored, nil
}
