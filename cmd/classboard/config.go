package main

import (
	"fmt"
	"time"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"
	storeMongo    = "mongo"
)

// Config is parsed by kong from flags and CLASSBOARD_* environment variables.
// A .env file in the working directory is loaded before parsing.
type Config struct {
	Addr        string   `default:":8080" env:"CLASSBOARD_ADDR" help:"HTTP listen address."`
	EventsAddr  string   `default:":8081" env:"CLASSBOARD_EVENTS_ADDR" help:"Listen address for the SSE/WebSocket layout stream; empty disables it."`
	Environment string   `default:"development" enum:"development,production" env:"CLASSBOARD_ENV" help:"Selects the logger configuration."`
	Classrooms  []string `env:"CLASSBOARD_CLASSROOMS" help:"Classrooms seeded with the default layout on start."`
	Manifests   []string `name:"manifest" type:"existingfile" env:"CLASSBOARD_MANIFESTS" help:"Widget manifest files registered on start."`
	EditorRoles []string `name:"editor-role" default:"teacher,admin" env:"CLASSBOARD_EDITOR_ROLES" help:"Roles allowed to edit classroom layouts."`

	Store           string `default:"memory" enum:"memory,postgres,mongo" env:"CLASSBOARD_STORE" help:"Preference store backend."`
	DatabaseDSN     string `name:"database-dsn" env:"CLASSBOARD_DATABASE_DSN" help:"Postgres DSN used by the postgres store."`
	AutoMigrate     bool   `default:"true" env:"CLASSBOARD_AUTO_MIGRATE" negatable:"" help:"Create the preferences table on start."`
	MongoURI        string `name:"mongo-uri" default:"mongodb://localhost:27017" env:"CLASSBOARD_MONGO_URI" help:"MongoDB connection URI."`
	MongoDatabase   string `name:"mongo-database" default:"classboard" env:"CLASSBOARD_MONGO_DATABASE" help:"MongoDB database name."`
	MongoCollection string `name:"mongo-collection" env:"CLASSBOARD_MONGO_COLLECTION" help:"MongoDB collection for preferences."`

	AnalyticsURL    string        `name:"analytics-url" env:"CLASSBOARD_ANALYTICS_URL" help:"Participation analytics API; demo data is served when empty."`
	AnalyticsAPIKey string        `name:"analytics-api-key" env:"CLASSBOARD_ANALYTICS_API_KEY" help:"Bearer token for the analytics API."`
	ChartTheme      string        `name:"chart-theme" env:"CLASSBOARD_CHART_THEME" help:"go-echarts theme for chart widgets."`
	ShutdownTimeout time.Duration `default:"10s" env:"CLASSBOARD_SHUTDOWN_TIMEOUT" help:"Graceful shutdown timeout."`

	ActivityEnabled bool   `name:"activity" default:"true" env:"CLASSBOARD_ACTIVITY" negatable:"" help:"Record layout changes as user activity."`
	ActivityChannel string `name:"activity-channel" default:"classboard" env:"CLASSBOARD_ACTIVITY_CHANNEL" help:"Channel stamped on activity records."`
}

// Validate is called by kong after parsing.
func (c *Config) Validate() error {
	switch c.Store {
	case storePostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("--database-dsn is required for the %s store", storePostgres)
		}
	case storeMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("--mongo-uri is required for the %s store", storeMongo)
		}
	}
	return nil
}
