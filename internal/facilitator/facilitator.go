// Package facilitator is a client for an x402 payment facilitator. The
// facilitator verifies payment proofs and settles them on chain; this client
// only transports requests and decodes answers.
package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/stemstr/skillgate/internal/x402"
)

const maxResponseBytes = 1 << 20

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("must set facilitator url")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse facilitator url: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Verify asks the facilitator whether proof satisfies reqs. It does not move funds.
func (c *Client) Verify(ctx context.Context, proof string, reqs x402.PaymentRequirements) (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.post(ctx, "verify", proof, reqs, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Settle asks the facilitator to execute the payment. Callers must only
// settle a proof that verified, and must not retry on error: the transfer
// may already have happened.
func (c *Client) Settle(ctx context.Context, proof string, reqs x402.PaymentRequirements) (*SettleResponse, error) {
	var resp SettleResponse
	if err := c.post(ctx, "settle", proof, reqs, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, op, proof string, reqs x402.PaymentRequirements, out any) error {
	payload, err := json.Marshal(paymentRequest{
		X402Version:         x402.Version,
		PaymentHeader:       proof,
		PaymentRequirements: reqs,
	})
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+op, bytes.NewReader(payload))
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(x402.HeaderVersion, strconv.Itoa(x402.Version))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        fmt.Errorf("unexpected status %q", resp.Status),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Body: body, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
