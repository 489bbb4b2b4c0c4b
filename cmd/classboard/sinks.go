package main

import (
	"context"

	"github.com/goliatone/go-users/pkg/types"
	"go.uber.org/zap"

	"github.com/goliatone/go-classboard/pkg/goadmin"
)

// logSink records go-users activity as log lines until a persistent
// activity repository is configured.
type logSink struct {
	logger *zap.Logger
}

func newLogSink(logger *zap.Logger) logSink {
	return logSink{logger: logger.Named("activity")}
}

func (s logSink) Log(_ context.Context, record types.ActivityRecord) error {
	s.logger.Info(record.Verb,
		zap.String("actor_id", record.ActorID.String()),
		zap.String("object_type", record.ObjectType),
		zap.String("object_id", record.ObjectID),
		zap.String("channel", record.Channel),
		zap.Time("occurred_at", record.OccurredAt),
		zap.Any("data", record.Data),
	)
	return nil
}

type menuLogger struct {
	logger *zap.Logger
}

func (m menuLogger) EnsureMenuItem(_ context.Context, menuCode string, item goadmin.MenuItem) error {
	m.logger.Debug("board menu item",
		zap.String("menu", menuCode),
		zap.String("label", item.Label),
		zap.String("route", item.Route),
		zap.Int("position", item.Position),
	)
	return nil
}
