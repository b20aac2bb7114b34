package stream

import (
	"errors"
	"fmt"
)

// ErrUnclassifiable is wrapped into the fatal error raised when auto
// detection cannot classify a line and continueOnError is false. When
// continueOnError is true and detection keeps failing until the
// consecutive-error budget is exhausted, the fatal error wraps
// ErrTooManyConsecutiveErrors instead.
var ErrUnclassifiable = errors.New("stream: could not detect vendor")

// ErrTooManyConsecutiveErrors is wrapped into the fatal error raised when
// the consecutive-failure budget is exhausted.
var ErrTooManyConsecutiveErrors = errors.New("stream: too many consecutive errors")

func fatalConsecutiveErrors(n, successful, total int) error {
	return fmt.Errorf("%w: stopped after %d consecutive errors (successful=%d/%d)",
		ErrTooManyConsecutiveErrors, n, successful, total)
}

func fatalUnclassifiable(lineNumber int) error {
	return fmt.Errorf("%w: line %d did not match any registered vendor", ErrUnclassifiable, lineNumber)
}
