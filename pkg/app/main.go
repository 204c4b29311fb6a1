// Package app carries the process-wide dependencies handed to the inventory
// and manufacturing contexts when their routes are mounted.
package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/mrpcapacity/pkg/cache"
	"github.com/ghuser/mrpcapacity/pkg/config"
	"github.com/ghuser/mrpcapacity/pkg/database"
	"github.com/ghuser/mrpcapacity/pkg/events"
	"github.com/ghuser/mrpcapacity/pkg/logger"
)

// Application is built once in cmd/api. EventBus is publish-only there: it
// writes to the outbox inside the caller's transaction and the forwarder
// relays to subscribers in cmd/worker.
//
// Log with the context methods so request_id, operator_id and the trace ids
// are attached:
//
//	a.Logger.InfoContext(ctx, "capacity allocated", "product_number", pn, "quantity", q)
type Application struct {
	Config       *config.Config
	DB           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	SessionStore sessions.Store
}
