package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents upstream fetch errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting by the source site
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeStorage represents ledger persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeRender represents feed rendering errors
	ErrorTypeRender ErrorType = "render"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// DegradeError describes a failure that was absorbed at a component
// boundary. It is logged, never returned to an HTTP caller.
type DegradeError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *DegradeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *DegradeError) Unwrap() error {
	return e.Err
}

// New creates a new DegradeError
func New(errType ErrorType, component, message string, err error) *DegradeError {
	return &DegradeError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *DegradeError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(component, message string, err error) *DegradeError {
	return New(ErrorTypeParsing, component, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(component string, duration time.Duration) *DegradeError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, component, message, nil)
}

// NewStorage creates a new storage error
func NewStorage(component, message string, err error) *DegradeError {
	return New(ErrorTypeStorage, component, message, err)
}

// NewRender creates a new render error
func NewRender(component, message string, err error) *DegradeError {
	return New(ErrorTypeRender, component, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *DegradeError {
	return New(ErrorTypeConfiguration, "", message, err)
}
