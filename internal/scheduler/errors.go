package scheduler

import (
	"fmt"
	"strings"
)

// ValidationError means the request itself is malformed. Nothing was written.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError means referenced content or account ids do not exist (or are
// not in a usable state). Nothing was written.
type NotFoundError struct {
	Kind string // "content" or "account"
	IDs  []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, strings.Join(e.IDs, ", "))
}

// NoMatchError means filtering left zero eligible accounts or content items.
// Nothing was written.
type NoMatchError struct {
	Reason string
}

func (e *NoMatchError) Error() string { return e.Reason }

// UnsupportedFeatureError is returned for distribution types other than "bulk".
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("distribution type %q is not implemented, use \"bulk\"", e.Feature)
}
