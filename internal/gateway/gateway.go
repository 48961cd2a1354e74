// Package gateway decides, for one request, whether a skill is served, a
// payment is demanded, or the request fails.
//
// A request moves through existence check, payment challenge, proof
// verification, settlement and link issuance. Verification and settlement are
// two separate facilitator calls made strictly in that order; a proof that
// verified may still fail to settle. Nothing is cached between requests and
// nothing is retried.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/stemstr/skillgate/internal/facilitator"
	"github.com/stemstr/skillgate/internal/receipts"
	"github.com/stemstr/skillgate/internal/x402"
)

const (
	DefaultMaxTimeoutSeconds = 300
	DefaultMimeType          = "application/json"
)

// Config is built once at start up and never changed.
type Config struct {
	// PaymentEnforced switches between the paid and the free protocol.
	PaymentEnforced bool

	Network string
	PayTo   string
	Asset   string
	// Amount is in the asset's smallest unit.
	Amount            uint64
	MaxTimeoutSeconds int
	MimeType          string
}

type resourceStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	Sign(ctx context.Context, name string) (string, error)
}

type paymentFacilitator interface {
	Verify(ctx context.Context, proof string, reqs x402.PaymentRequirements) (*facilitator.VerifyResponse, error)
	Settle(ctx context.Context, proof string, reqs x402.PaymentRequirements) (*facilitator.SettleResponse, error)
}

type receiptRecorder interface {
	Create(ctx context.Context, r receipts.Receipt) (*receipts.Receipt, error)
}

// New returns a Gateway. fac may be nil when payment is not enforced, and
// rec may be nil to disable the receipt journal.
func New(cfg Config, store resourceStore, fac paymentFacilitator, rec receiptRecorder) (*Gateway, error) {
	if store == nil {
		return nil, ErrMissingStore
	}
	if cfg.PaymentEnforced && fac == nil {
		return nil, ErrMissingFacilitator
	}
	if cfg.MaxTimeoutSeconds == 0 {
		cfg.MaxTimeoutSeconds = DefaultMaxTimeoutSeconds
	}
	if cfg.MimeType == "" {
		cfg.MimeType = DefaultMimeType
	}

	return &Gateway{
		cfg:         cfg,
		store:       store,
		facilitator: fac,
		receipts:    rec,
	}, nil
}

type Gateway struct {
	cfg         Config
	store       resourceStore
	facilitator paymentFacilitator
	receipts    receiptRecorder
}

type Request struct {
	Name  string
	Proof string
}

// Outcome is the terminal state of a request and the data its response needs.
type Outcome struct {
	State State
	Name  string

	// AwaitingPayment
	Challenge *x402.Challenge

	// Rejected, SettlementFailed
	Reason string

	// Fulfilled. Payment is nil in free mode.
	SignedURL string
	Payment   *facilitator.Transaction

	// Error
	Err error
}

// Details is the upstream payload or message behind a StateError outcome.
func (o Outcome) Details() any {
	if o.Err == nil {
		return nil
	}
	var ferr *facilitator.Error
	if errors.As(o.Err, &ferr) {
		return ferr.Details()
	}
	return o.Err.Error()
}

// Requirements builds the payment requirements for the skill name. The name
// only appears in the description.
func (g *Gateway) Requirements(name string) x402.PaymentRequirements {
	return x402.PaymentRequirements{
		Scheme:            x402.SchemeExact,
		Network:           g.cfg.Network,
		PayTo:             g.cfg.PayTo,
		Asset:             g.cfg.Asset,
		Description:       "Access to skill: " + name,
		MimeType:          g.cfg.MimeType,
		MaxAmountRequired: strconv.FormatUint(g.cfg.Amount, 10),
		MaxTimeoutSeconds: g.cfg.MaxTimeoutSeconds,
	}
}

func (g *Gateway) PaymentEnforced() bool {
	return g.cfg.PaymentEnforced
}

// Access runs the protocol for req and returns its terminal outcome.
func (g *Gateway) Access(ctx context.Context, req Request) Outcome {
	if req.Name == "" {
		return Outcome{State: StateBadRequest}
	}

	// Existence is checked before anything payment related so that no
	// challenge is ever issued for a skill that does not exist.
	exists, err := g.store.Exists(ctx, req.Name)
	if err != nil {
		log.Printf("err: store.Exists: name=%q %v", req.Name, err)
		return Outcome{State: StateError, Name: req.Name, Err: err}
	}
	if !exists {
		return Outcome{State: StateNotFound, Name: req.Name}
	}

	if !g.cfg.PaymentEnforced {
		return g.fulfill(ctx, req.Name, nil)
	}

	reqs := g.Requirements(req.Name)

	if req.Proof == "" {
		return Outcome{
			State:     StateAwaitingPayment,
			Name:      req.Name,
			Challenge: x402.NewChallenge(reqs),
		}
	}

	verification, err := g.facilitator.Verify(ctx, req.Proof, reqs)
	if err != nil {
		log.Printf("err: facilitator.Verify: name=%q %v", req.Name, err)
		return Outcome{State: StateError, Name: req.Name, Err: err}
	}
	if !verification.IsValid {
		log.Printf("payment rejected: name=%q reason=%q", req.Name, verification.InvalidReason)
		return Outcome{State: StateRejected, Name: req.Name, Reason: verification.InvalidReason}
	}

	// Once settlement starts it runs to completion even if the client goes away.
	ctx = context.WithoutCancel(ctx)

	settlement, err := g.facilitator.Settle(ctx, req.Proof, reqs)
	if err != nil {
		log.Printf("err: facilitator.Settle: name=%q %v", req.Name, err)
		return Outcome{State: StateError, Name: req.Name, Err: err}
	}
	if !settlement.Settled() {
		log.Printf("settlement failed: name=%q event=%q error=%q", req.Name, settlement.Event, settlement.Error)
		return Outcome{State: StateSettlementFailed, Name: req.Name, Reason: settlement.Error}
	}

	tx := settlement.Transaction()
	out := g.fulfill(ctx, req.Name, tx)
	g.record(ctx, req.Name, tx, out.State == StateFulfilled)

	return out
}

func (g *Gateway) fulfill(ctx context.Context, name string, tx *facilitator.Transaction) Outcome {
	signed, err := g.store.Sign(ctx, name)
	if err != nil {
		if tx != nil {
			// Paid but unfulfilled. There is no compensating action; the
			// receipt journal keeps the transaction for an operator.
			log.Printf("err: store.Sign after settlement: name=%q tx=%q %v", name, tx.TxHash, err)
		} else {
			log.Printf("err: store.Sign: name=%q %v", name, err)
		}
		return Outcome{State: StateError, Name: name, Err: fmt.Errorf("sign: %w", err)}
	}

	return Outcome{
		State:     StateFulfilled,
		Name:      name,
		SignedURL: signed,
		Payment:   tx,
	}
}

func (g *Gateway) record(ctx context.Context, name string, tx *facilitator.Transaction, fulfilled bool) {
	if g.receipts == nil {
		return
	}

	_, err := g.receipts.Create(ctx, receipts.Receipt{
		Name:        name,
		TxHash:      tx.TxHash,
		From:        tx.From,
		To:          tx.To,
		Value:       string(tx.Value),
		BlockNumber: string(tx.BlockNumber),
		Timestamp:   string(tx.Timestamp),
		Fulfilled:   fulfilled,
	})
	if err != nil {
		log.Printf("err: receipts.Create: name=%q tx=%q %v", name, tx.TxHash, err)
	}
}
