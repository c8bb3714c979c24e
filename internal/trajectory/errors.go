package trajectory

import "errors"

var (
	// ErrEmpty is returned by Undo when there is nothing to undo.
	ErrEmpty = errors.New("no records to undo")
	// ErrNotArmed is returned when an observation arrives outside recording mode.
	// Drivers are expected to swallow it.
	ErrNotArmed = errors.New("recorder not armed")
	// ErrMalformedPayload is returned when an observation carries a payload
	// that cannot become a valid record. The observation is dropped.
	ErrMalformedPayload = errors.New("malformed payload")
)
