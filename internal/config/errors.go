package config

import "errors"

// ErrInvalidConfig is wrapped into the error Validate returns, so a
// caller can distinguish a rejected config from a file/decode failure
// surfaced by Load.
var ErrInvalidConfig = errors.New("invalid config")
