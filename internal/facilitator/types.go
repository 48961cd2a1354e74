package facilitator

import (
	"encoding/json"

	"github.com/stemstr/skillgate/internal/x402"
)

// EventSettled is the only settle event that counts as a completed payment.
const EventSettled = "payment.settled"

type paymentRequest struct {
	X402Version         int                      `json:"x402Version"`
	PaymentHeader       string                   `json:"paymentHeader"`
	PaymentRequirements x402.PaymentRequirements `json:"paymentRequirements"`
}

type VerifyResponse struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
}

// SettleResponse is the facilitator's answer to a settle call. Value,
// BlockNumber and Timestamp are kept as raw JSON because facilitators differ
// on whether they are strings or numbers.
type SettleResponse struct {
	Event       string          `json:"event"`
	TxHash      string          `json:"txHash,omitempty"`
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
	BlockNumber json.RawMessage `json:"blockNumber,omitempty"`
	Timestamp   json.RawMessage `json:"timestamp,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func (s *SettleResponse) Settled() bool {
	return s.Event == EventSettled
}

// Transaction returns the on-chain record of a settlement.
func (s *SettleResponse) Transaction() *Transaction {
	return &Transaction{
		TxHash:      s.TxHash,
		From:        s.From,
		To:          s.To,
		Value:       s.Value,
		BlockNumber: s.BlockNumber,
		Timestamp:   s.Timestamp,
	}
}

type Transaction struct {
	TxHash      string          `json:"txHash,omitempty"`
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
	BlockNumber json.RawMessage `json:"blockNumber,omitempty"`
	Timestamp   json.RawMessage `json:"timestamp,omitempty"`
}
