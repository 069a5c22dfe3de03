package ranking

import "fmt"

// ModelTransportError wraps a network or timeout failure while talking to
// the generative model. The ranker swallows it (fail-soft); the refinement
// engine surfaces it.
type ModelTransportError struct {
	Err error
}

func (e *ModelTransportError) Error() string {
	return fmt.Sprintf("model transport failure: %v", e.Err)
}

func (e *ModelTransportError) Unwrap() error { return e.Err }

// ModelOutputError means a response was received but could not be parsed as
// JSON by either the strict or the extracted-substring strategy. It is a
// content error and must never trigger a retry.
type ModelOutputError struct {
	Raw string
	Err error
}

func (e *ModelOutputError) Error() string {
	return fmt.Sprintf("unparseable model output: %v", e.Err)
}

func (e *ModelOutputError) Unwrap() error { return e.Err }
