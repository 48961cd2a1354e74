package gateway

import "errors"

var (
	ErrMissingStore       = errors.New("resource store required")
	ErrMissingFacilitator = errors.New("payment enforced but no facilitator configured")
)
