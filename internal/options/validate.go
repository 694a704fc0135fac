// Package options provides shared helpers for functional option validation.
package options

import "github.com/erraggy/oascompose/oaserrors"

// SingleSource ensures exactly one of the input sources is set.
// option names the option family in the returned *oaserrors.ConfigError.
func SingleSource(option string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}
	switch {
	case count == 0:
		return &oaserrors.ConfigError{Option: option, Message: "no input source specified"}
	case count > 1:
		return &oaserrors.ConfigError{Option: option, Message: "exactly one input source must be specified"}
	}
	return nil
}

// NonEmpty returns a *oaserrors.ConfigError when value is empty.
func NonEmpty(option, value string) error {
	if value == "" {
		return &oaserrors.ConfigError{Option: option, Message: "cannot be empty"}
	}
	return nil
}
