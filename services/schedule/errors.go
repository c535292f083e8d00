package schedule

import "fmt"

// EngineError is a precondition violation reported to the caller.
type EngineError struct {
	Code    string
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidWindowError reports a query window whose start lies after its
// end.
func NewInvalidWindowError(msg string) error {
	return &EngineError{
		Code:    "invalidWindow",
		Message: msg,
	}
}
