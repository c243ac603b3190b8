package config

import (
	"errors"
	"fmt"
)

// InvalidOptionError reports an unrecognized or malformed option
type InvalidOptionError struct {
	Key    string
	Value  string
	Reason string
}

func (e *InvalidOptionError) Error() string {
	switch {
	case e.Key == "":
		return fmt.Sprintf("invalid option: %s", e.Reason)
	case e.Value == "":
		return fmt.Sprintf("invalid option %q: %s", e.Key, e.Reason)
	default:
		return fmt.Sprintf("invalid option %s=%q: %s", e.Key, e.Value, e.Reason)
	}
}

// IsInvalidOption checks if an error is an invalid option error
func IsInvalidOption(err error) bool {
	var target *InvalidOptionError
	return errors.As(err, &target)
}
