package lazy

import (
	"github.com/on-the-ground/lazy_ive_go/internal/logging"
	"go.uber.org/zap"
)

// Config carries the ambient settings shared by sequences.
type Config struct {
	Logger *zap.Logger // default: no-op
}

// NewConfig returns a Config with defaults applied.
func NewConfig(logger *zap.Logger) Config {
	return Config{
		Logger: logging.OrNop(logger),
	}
}

// DefaultConfig is NewConfig(nil).
func DefaultConfig() Config {
	return NewConfig(nil)
}
