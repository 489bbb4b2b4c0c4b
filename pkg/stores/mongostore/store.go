// Package mongostore persists classroom widget preferences in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goliatone/go-classboard/components/dashboard"
)

// DefaultCollection holds one document per classroom.
const DefaultCollection = "classroom_widget_preferences"

var errMissingClassroom = errors.New("mongostore: classroom id is required")

// Document is the stored shape; the classroom id doubles as _id.
type Document struct {
	ClassroomID string                       `bson:"_id"`
	Preferences []dashboard.StoredPreference `bson:"preferences"`
	UpdatedAt   time.Time                    `bson:"updatedAt"`
}

// Store implements dashboard.PreferenceStore over a collection.
type Store struct {
	collection *mongo.Collection
	now        func() time.Time
}

// Connect dials MongoDB and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	return client, nil
}

// New returns a store backed by the named collection in db.
func New(db *mongo.Database, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{collection: db.Collection(collection), now: time.Now}
}

// LoadPreferences returns the stored list, or an empty slice when no document exists.
func (s *Store) LoadPreferences(ctx context.Context, classroomID string) ([]dashboard.StoredPreference, error) {
	if classroomID == "" {
		return nil, errMissingClassroom
	}
	var doc Document
	err := s.collection.FindOne(ctx, bson.M{"_id": classroomID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []dashboard.StoredPreference{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongostore: load preferences for %s: %w", classroomID, err)
	}
	return normalizeStored(doc.Preferences), nil
}

// SavePreferences replaces the classroom document, inserting it when missing.
func (s *Store) SavePreferences(ctx context.Context, classroomID string, prefs []dashboard.WidgetPreference) error {
	doc, err := s.document(classroomID, prefs)
	if err != nil {
		return err
	}
	_, err = s.collection.ReplaceOne(ctx, bson.M{"_id": classroomID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongostore: save preferences for %s: %w", classroomID, err)
	}
	return nil
}

func (s *Store) document(classroomID string, prefs []dashboard.WidgetPreference) (Document, error) {
	if classroomID == "" {
		return Document{}, errMissingClassroom
	}
	return Document{
		ClassroomID: classroomID,
		Preferences: dashboard.StoredFrom(prefs),
		UpdatedAt:   s.now().UTC(),
	}, nil
}

// normalizeStored converts BSON container types in settings into plain maps
// and slices so JSON schema validation and rendering see the same shapes as
// the other stores.
func normalizeStored(stored []dashboard.StoredPreference) []dashboard.StoredPreference {
	if stored == nil {
		return []dashboard.StoredPreference{}
	}
	for i := range stored {
		if stored[i].Settings == nil {
			continue
		}
		settings := make(map[string]any, len(stored[i].Settings))
		for k, v := range stored[i].Settings {
			settings[k] = plainValue(v)
		}
		stored[i].Settings = settings
	}
	return stored
}

func plainValue(v any) any {
	switch val := v.(type) {
	case primitive.D:
		out := make(map[string]any, len(val))
		for _, elem := range val {
			out[elem.Key] = plainValue(elem.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = plainValue(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = plainValue(elem)
		}
		return out
	case primitive.A:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = plainValue(elem)
		}
		return out
	default:
		return v
	}
}
