package gateway

import (
	"context"

	"github.com/stemstr/skillgate/internal/facilitator"
	"github.com/stemstr/skillgate/internal/receipts"
	"github.com/stemstr/skillgate/internal/x402"
)

type mockStore struct {
	ExistsBool bool
	ExistsErr  error
	SignURL    string
	SignErr    error

	ExistsCalls int
	SignCalls   int
}

func (m *mockStore) Exists(ctx context.Context, name string) (bool, error) {
	m.ExistsCalls++
	return m.ExistsBool, m.ExistsErr
}

func (m *mockStore) Sign(ctx context.Context, name string) (string, error) {
	m.SignCalls++
	return m.SignURL, m.SignErr
}

type mockFacilitator struct {
	VerifyResp *facilitator.VerifyResponse
	VerifyErr  error
	SettleResp *facilitator.SettleResponse
	SettleErr  error

	// Calls records "verify" and "settle" in call order.
	Calls    []string
	GotProof string
	GotReqs  x402.PaymentRequirements
}

func (m *mockFacilitator) Verify(ctx context.Context, proof string, reqs x402.PaymentRequirements) (*facilitator.VerifyResponse, error) {
	m.Calls = append(m.Calls, "verify")
	m.GotProof = proof
	m.GotReqs = reqs
	return m.VerifyResp, m.VerifyErr
}

func (m *mockFacilitator) Settle(ctx context.Context, proof string, reqs x402.PaymentRequirements) (*facilitator.SettleResponse, error) {
	m.Calls = append(m.Calls, "settle")
	return m.SettleResp, m.SettleErr
}

type mockRecorder struct {
	Receipts  []receipts.Receipt
	CreateErr error
}

func (m *mockRecorder) Create(ctx context.Context, r receipts.Receipt) (*receipts.Receipt, error) {
	m.Receipts = append(m.Receipts, r)
	return &r, m.CreateErr
}
