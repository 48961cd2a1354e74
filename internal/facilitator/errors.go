package facilitator

import (
	"encoding/json"
	"fmt"
)

// Error is returned when a facilitator call could not be completed: the
// request failed, the facilitator answered with a non-2xx status, or its
// answer could not be decoded.
type Error struct {
	Op         string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("facilitator %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("facilitator %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Details is what the gateway may show a client about the failure: the
// facilitator's own payload when there is one, otherwise the error message.
func (e *Error) Details() any {
	if len(e.Body) > 0 {
		if json.Valid(e.Body) {
			return json.RawMessage(e.Body)
		}
		return string(e.Body)
	}
	return e.Err.Error()
}
