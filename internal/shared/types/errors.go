package types

import "errors"

// Tipos de erro do pipeline. Use errors.Is para classificar.
var (
	ErrUpstream         = errors.New("billing API failure")
	ErrInsufficientData = errors.New("insufficient cost data")
	ErrRender           = errors.New("report rendering failed")
	ErrDelivery         = errors.New("notification delivery failed")
	ErrConfig           = errors.New("invalid configuration")
)

// KindOf returns the name of the error kind wrapped by err, or "Unknown".
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfig):
		return "ConfigError"
	case errors.Is(err, ErrUpstream):
		return "UpstreamError"
	case errors.Is(err, ErrInsufficientData):
		return "InsufficientDataError"
	case errors.Is(err, ErrRender):
		return "RenderError"
	case errors.Is(err, ErrDelivery):
		return "DeliveryError"
	default:
		return "Unknown"
	}
}

// IsFatal reports whether err must be surfaced to the scheduler so that its
// own retry policy applies.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfig) || errors.Is(err, ErrUpstream)
}
