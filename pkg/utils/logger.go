package utils

import "go.uber.org/zap"

// NewLogger returns a zap logger tagged with the service name. When debug is
// true it uses the development config (console, debug level); otherwise the
// production config (JSON, info level).
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.InitialFields = map[string]interface{}{"service": "kondate"}
	return cfg.Build()
}
