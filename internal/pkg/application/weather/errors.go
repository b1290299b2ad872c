package weather

import "errors"

var (
	ErrConfiguration         = errors.New("configuration error")
	ErrCredentialUnavailable = errors.New("credential unavailable")
	ErrFetchFailed           = errors.New("fetch failed")
	ErrMalformedEnvelope     = errors.New("malformed envelope")
	ErrConversionFailed      = errors.New("conversion failed")
	ErrSerializationFailed   = errors.New("serialization failed")

	// ErrTimeout is joined with ErrCredentialUnavailable or ErrFetchFailed
	// when the upstream call ran out of time.
	ErrTimeout = errors.New("timeout")
)
