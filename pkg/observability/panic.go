package observability

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// RecoverError recovers a panic, logs it with its stack and stores it in
// *errp. It must be called directly by a deferred function:
//
//	func generate() (err error) {
//	    defer observability.RecoverError(logger, "generate", &err)
//	    ...
//	}
//
// Without a panic *errp is left untouched.
func RecoverError(logger *logrus.Logger, context string, errp *error) {
	r := recover()
	if r == nil {
		return
	}

	logger.WithFields(logrus.Fields{
		"panic":   r,
		"stack":   string(debug.Stack()),
		"context": context,
	}).Error("PANIC recovered")

	if errp != nil {
		*errp = fmt.Errorf("%s: panic: %v", context, r)
	}
}
