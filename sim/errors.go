package sim

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the sentinel wrapped by every ConfigError.
// Callers test with errors.Is(err, sim.ErrConfiguration).
var ErrConfiguration = errors.New("configuration error")

// ConfigError reports an invalid run or scenario parameter.
// It is returned before any simulation or optimization work begins.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigError builds a ConfigError with a formatted reason.
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
