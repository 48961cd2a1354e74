package x402

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractProof(t *testing.T) {
	var tests = []struct {
		name        string
		header      string
		contentType string
		body        string
		expected    string
	}{
		{"no proof", "", "", "", ""},
		{"header only", "proof-h", "", "", "proof-h"},
		{"body only", "", "application/json", `{"paymentHeader":"proof-b"}`, "proof-b"},
		{"header wins over body", "proof-h", "application/json", `{"paymentHeader":"proof-b"}`, "proof-h"},
		{"json with charset", "", "application/json; charset=utf-8", `{"paymentHeader":"proof-b"}`, "proof-b"},
		{"body not json content type", "", "text/plain", `{"paymentHeader":"proof-b"}`, ""},
		{"malformed body", "", "application/json", `{"paymentHeader":`, ""},
		{"non string field", "", "application/json", `{"paymentHeader":42}`, ""},
		{"other fields only", "", "application/json", `{"name":"demo"}`, ""},
		{"blank header falls back", "  ", "application/json", `{"paymentHeader":"proof-b"}`, "proof-b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			r := httptest.NewRequest(http.MethodGet, "/get-skill?name=demo", body)
			if tt.header != "" {
				r.Header.Set(HeaderPayment, tt.header)
			}
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			assert.Equal(t, tt.expected, ExtractProof(r, DefaultExtractors...))
		})
	}
}

func TestFromBodyFieldRestoresBody(t *testing.T) {
	const payload = `{"paymentHeader":"proof-b"}`
	r := httptest.NewRequest(http.MethodGet, "/get-skill", strings.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")

	assert.Equal(t, "proof-b", FromBodyField(BodyFieldPayment)(r))

	rest, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(rest))
}

func TestExtractorOrder(t *testing.T) {
	first := func(*http.Request) string { return "first" }
	second := func(*http.Request) string { return "second" }
	empty := func(*http.Request) string { return "" }

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "first", ExtractProof(r, first, second))
	assert.Equal(t, "second", ExtractProof(r, empty, second))
	assert.Equal(t, "", ExtractProof(r))
}

func TestChallengeJSON(t *testing.T) {
	reqs := PaymentRequirements{
		Scheme:            SchemeExact,
		Network:           "cronos-testnet",
		PayTo:             "0xseller",
		Asset:             "0xasset",
		Description:       "Access to skill: demo",
		MimeType:          "application/json",
		MaxAmountRequired: "1000000",
		MaxTimeoutSeconds: 300,
	}

	b, err := json.Marshal(NewChallenge(reqs))
	require.NoError(t, err)

	const expected = `{"error":"Payment Required Response","x402Version":1,"accepts":[` +
		`{"scheme":"exact","network":"cronos-testnet","payTo":"0xseller","asset":"0xasset",` +
		`"description":"Access to skill: demo","mimeType":"application/json",` +
		`"maxAmountRequired":"1000000","maxTimeoutSeconds":300}]}`
	assert.Equal(t, expected, string(b))
}
