package advisor

import "fmt"

// UpstreamError marks a failure or timeout of the advisory service. It is
// surfaced distinctly from internal errors so callers can map it to an
// upstream-failure signal instead of a generic 500.
type UpstreamError struct {
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("advisory service unavailable: %v", e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
