package app

import (
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to each service's route registration during server initialization.
//
// Exactly one of Db/Mongo is the item store, selected by STORE_DRIVER;
// the other may be nil. Db is also nil in processes that only consume events
// (the bus owns its own connection).
//
// Logging: Logger is backed by a trace-aware handler — use slog's context
// methods and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "processing item", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Db       *database.Database
	Mongo    *database.MongoClient
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
}
