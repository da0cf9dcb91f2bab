package driver

import "errors"

var (
	// ErrUnknownModel is returned by Lookup for a model name that was
	// never registered.
	ErrUnknownModel = errors.New("unknown camera model")

	// ErrUnsupportedCapability is returned when a command has no encoder
	// on the selected driver. Tally commands downgrade this to a warning
	// at the CLI boundary; everything else treats it as fatal.
	ErrUnsupportedCapability = errors.New("command not supported by this model")

	// ErrInvalidArgument is returned for malformed or out-of-range
	// command arguments, before any network call is made.
	ErrInvalidArgument = errors.New("invalid command argument")
)
