package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger returns a component-scoped logger derived from the global logger
// installed by the logging package.
func Logger(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
