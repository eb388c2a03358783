package logging

import "go.uber.org/zap"

// New returns a JSON logger in production and a console logger
// otherwise.
func New(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
