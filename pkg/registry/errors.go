package registry

import (
	"errors"
	"fmt"
)

// DuplicateTypeError reports two declarations registering the same
// fully-qualified name. A valid compiled bundle never triggers it.
type DuplicateTypeError struct {
	Ref    TypeRef
	First  string
	Second string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("duplicate type %s declared in %s and %s", e.Ref, e.First, e.Second)
}

// UnknownTypeError reports a reference to a type absent from the bundle,
// usually because a dependency file was not passed to the plugin.
type UnknownTypeError struct {
	Ref TypeRef
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %s", e.Ref)
}

// UnknownFileError reports a file listed for generation that is missing
// from the bundle.
type UnknownFileError struct {
	Name string
}

func (e *UnknownFileError) Error() string {
	return fmt.Sprintf("unknown file %s", e.Name)
}

// IsUnknownType checks if an error is an unknown type error
func IsUnknownType(err error) bool {
	var target *UnknownTypeError
	return errors.As(err, &target)
}
