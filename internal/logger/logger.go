// Package logger holds the process-wide zap sugared logger. Gateway
// failures in the valuation path are logged and degraded rather than
// surfaced, so the logger must always be usable, even before Init.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the global logger for the given environment. "production"
// gets the JSON encoder; anything else gets the console encoder, which is
// easier to scan when tailing quote and indicator fetches locally.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		if env == "production" {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}

		if err != nil {
			// A broken logger must not take the API down with it.
			base = zap.NewNop()
		}

		sugar = base.Sugar()
	})
}

// Get returns the global sugared logger, initializing a development one
// on first use if Init was never called. Tests rely on this lazy path.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync flushes buffered entries. Deferred from main before exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
