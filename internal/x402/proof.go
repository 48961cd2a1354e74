package x402

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
)

const maxProofBodyBytes = 1 << 20

// ProofExtractor returns the payment proof carried by r, or "" if it has none.
type ProofExtractor func(r *http.Request) string

// DefaultExtractors checks the X-Payment header first, then the paymentHeader body field.
var DefaultExtractors = []ProofExtractor{
	FromHeader(HeaderPayment),
	FromBodyField(BodyFieldPayment),
}

// ExtractProof tries each extractor in order. The first non-empty proof wins.
func ExtractProof(r *http.Request, extractors ...ProofExtractor) string {
	for _, extract := range extractors {
		if proof := extract(r); proof != "" {
			return proof
		}
	}
	return ""
}

func FromHeader(name string) ProofExtractor {
	return func(r *http.Request) string {
		return strings.TrimSpace(r.Header.Get(name))
	}
}

// FromBodyField reads a string field from a JSON request body. The body is
// restored afterwards so it can be read again.
func FromBodyField(field string) ProofExtractor {
	return func(r *http.Request) string {
		if r.Body == nil || r.Body == http.NoBody {
			return ""
		}
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			return ""
		}

		data, err := io.ReadAll(io.LimitReader(r.Body, maxProofBodyBytes))
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(data))
		if err != nil || len(data) == 0 {
			return ""
		}

		var body map[string]json.RawMessage
		if err := json.Unmarshal(data, &body); err != nil {
			return ""
		}
		raw, ok := body[field]
		if !ok {
			return ""
		}

		var proof string
		if err := json.Unmarshal(raw, &proof); err != nil {
			return ""
		}
		return strings.TrimSpace(proof)
	}
}
