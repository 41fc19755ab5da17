package contract

import "errors"

var (
	ErrModelInvoke        = errors.New("model invoke failed")
	ErrValidation         = errors.New("validation failed")
	ErrFieldNotFound      = errors.New("field not found")
	ErrLogSinkUnavailable = errors.New("execution log sink unavailable")

	// Generation failures. The stages only branch on success vs failure,
	// these exist so the gateway can report which one happened.
	ErrGenerationTimeout   = errors.New("generation timed out")
	ErrGenerationTransport = errors.New("generation transport failed")
	ErrMalformedResponse   = errors.New("generation response is malformed")
)
