package provider

import "fmt"

// ValidationError reports a provider response that lacks a required field.
type ValidationError struct {
	Symbol string
	Field  string
}

func (e *ValidationError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("provider response missing %s", e.Field)
	}
	return fmt.Sprintf("provider response for %q missing %s", e.Symbol, e.Field)
}

// ProviderError reports a transport failure or a non-success status.
type ProviderError struct {
	Endpoint string
	Status   int    // 0 when the request never got a response
	Body     string // raw response payload, if any
	Err      error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Err != nil && e.Status == 0:
		return fmt.Sprintf("provider %s: %v", e.Endpoint, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("provider %s: status %d: %v", e.Endpoint, e.Status, e.Err)
	default:
		return fmt.Sprintf("provider %s: status %d, body: %s", e.Endpoint, e.Status, e.Body)
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }
