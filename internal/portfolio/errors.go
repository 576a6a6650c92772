package portfolio

import (
	"errors"
	"fmt"
)

// ErrUnsupportedCurrency is matched by ConfigurationError for currency fields.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ConfigurationError reports request or config input that cannot be used.
type ConfigurationError struct {
	Field string
	Value string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrUnsupportedCurrency && e.Field == "currency"
}
