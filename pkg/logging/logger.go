package logging

import (
	"go.uber.org/zap"
)

// New builds the process-wide logger. Production gets the JSON encoder at
// info level; every other environment gets the development console encoder
// with debug enabled.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
