package bootstrap

import (
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/modeloptions/logger"
)

// Option customizes NewApp.
type Option func(*settings)

type settings struct {
	log       *logger.Logger
	grace     time.Duration
	dialector gorm.Dialector
	models    []interface{}
}

func collect(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger replaces the logger built from cfg.Logging.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds shutdown. Non-positive values keep the 15s
// default.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) { s.grace = d }
}

// WithDatabaseDriver opens the options database with d instead of the
// dialector named by database.driver, e.g. postgres.Open(dsn).
func WithDatabaseDriver(d gorm.Dialector) Option {
	return func(s *settings) { s.dialector = d }
}

// WithModels auto-migrates owner models next to the options table.
func WithModels(models ...interface{}) Option {
	return func(s *settings) { s.models = append(s.models, models...) }
}
