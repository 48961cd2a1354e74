package gateway

import "net/http"

// State is a step of the access protocol. Access returns the terminal one.
type State int

const (
	StateInitial State = iota
	StateCheckingExistence
	StateBadRequest
	StateNotFound
	StateAwaitingPayment
	StateVerifying
	StateRejected
	StateSettling
	StateSettlementFailed
	StateFulfilled
	StateError
)

var stateNames = map[State]string{
	StateInitial:           "initial",
	StateCheckingExistence: "checking_existence",
	StateBadRequest:        "bad_request",
	StateNotFound:          "not_found",
	StateAwaitingPayment:   "awaiting_payment",
	StateVerifying:         "verifying",
	StateRejected:          "rejected",
	StateSettling:          "settling",
	StateSettlementFailed:  "settlement_failed",
	StateFulfilled:         "fulfilled",
	StateError:             "error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// HTTPStatus is the response status of a terminal state.
func (s State) HTTPStatus() int {
	switch s {
	case StateBadRequest:
		return http.StatusBadRequest
	case StateNotFound:
		return http.StatusNotFound
	case StateAwaitingPayment, StateRejected, StateSettlementFailed:
		return http.StatusPaymentRequired
	case StateFulfilled:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// Terminal reports whether Access can end in s.
func (s State) Terminal() bool {
	switch s {
	case StateBadRequest, StateNotFound, StateAwaitingPayment, StateRejected,
		StateSettlementFailed, StateFulfilled, StateError:
		return true
	}
	return false
}
