package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/stemstr/skillgate/internal/facilitator"
	"github.com/stemstr/skillgate/internal/gateway"
	"github.com/stemstr/skillgate/internal/x402"
)

const (
	msgNameRequired     = "name query parameter is required"
	msgNotFound         = "File not found in bucket"
	msgInvalidPayment   = "Invalid payment"
	msgSettlementFailed = "Payment settlement failed"
	msgServerError      = "Server error processing payment"
)

type handlers struct {
	gw         *gateway.Gateway
	extractors []x402.ProofExtractor
	notifier   notifierIface
}

type notifierIface interface {
	Send(context.Context, string)
}

type errorResponse struct {
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Details any    `json:"details,omitempty"`
}

type skillResponse struct {
	Name      string                   `json:"name"`
	SignedURL string                   `json:"signedUrl"`
	Payment   *facilitator.Transaction `json:"payment,omitempty"`
}

// handleGetSkill returns a signed url for a skill, or the payment challenge
// that has to be met first.
func (h *handlers) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	var (
		ctx  = r.Context()
		name = r.URL.Query().Get("name")
	)

	out := h.gw.Access(ctx, gateway.Request{
		Name:  name,
		Proof: x402.ExtractProof(r, h.extractors...),
	})
	accessOutcomes.WithLabelValues(out.State.String()).Inc()

	status := out.State.HTTPStatus()

	switch out.State {
	case gateway.StateBadRequest:
		writeJSON(w, status, errorResponse{Error: msgNameRequired})
	case gateway.StateNotFound:
		writeJSON(w, status, errorResponse{Error: msgNotFound})
	case gateway.StateAwaitingPayment:
		writeJSON(w, status, out.Challenge)
	case gateway.StateRejected:
		writeJSON(w, status, errorResponse{Error: msgInvalidPayment, Reason: out.Reason})
	case gateway.StateSettlementFailed:
		writeJSON(w, status, errorResponse{Error: msgSettlementFailed, Reason: out.Reason})
	case gateway.StateFulfilled:
		signedURLCounter.Inc()
		if out.Payment != nil {
			settledCounter.Inc()
			h.announce(out.Name)
		}
		writeJSON(w, status, skillResponse{
			Name:      out.Name,
			SignedURL: out.SignedURL,
			Payment:   out.Payment,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgServerError, Details: out.Details()})
	}
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) announce(name string) {
	if h.notifier == nil {
		return
	}
	go h.notifier.Send(context.Background(), "skill purchased: "+name)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	jsonb, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal resp: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonb)
}
