// Package receipts journals settled payments. The journal is written by the
// gateway after settlement and read only by operators; nothing on the
// request path ever reads it.
package receipts

import (
	"context"
	"time"
)

type Receipt struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	TxHash      string    `json:"tx_hash" db:"tx_hash"`
	From        string    `json:"from" db:"payer"`
	To          string    `json:"to" db:"payee"`
	Value       string    `json:"value" db:"value"`
	BlockNumber string    `json:"block_number" db:"block_number"`
	Timestamp   string    `json:"timestamp" db:"tx_timestamp"`
	Fulfilled   bool      `json:"fulfilled" db:"fulfilled"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type ListOptions struct {
	Limit           int
	UnfulfilledOnly bool
}

type Store interface {
	Create(ctx context.Context, r Receipt) (*Receipt, error)
	List(ctx context.Context, opts ListOptions) ([]Receipt, error)
	Close() error
}
