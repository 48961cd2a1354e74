// Package x402 holds the wire types of the x402 payment protocol used by the
// gateway, and the strategies for finding a payment proof on a request.
package x402

const (
	// Version is the protocol version sent in bodies and the X402-Version header.
	Version = 1

	SchemeExact = "exact"

	HeaderPayment = "X-Payment"
	HeaderVersion = "X402-Version"

	// BodyFieldPayment is the JSON body field consulted when the header is absent.
	BodyFieldPayment = "paymentHeader"

	challengeError = "Payment Required Response"
)

// PaymentRequirements describes what a caller must pay for a resource.
// Field order is part of the wire format.
type PaymentRequirements struct {
	Scheme            string `json:"scheme"`
	Network           string `json:"network"`
	PayTo             string `json:"payTo"`
	Asset             string `json:"asset"`
	Description       string `json:"description"`
	MimeType          string `json:"mimeType"`
	MaxAmountRequired string `json:"maxAmountRequired"`
	MaxTimeoutSeconds int    `json:"maxTimeoutSeconds"`
}

// Challenge is the body of a 402 response sent when no proof was supplied.
type Challenge struct {
	Error       string                `json:"error"`
	X402Version int                   `json:"x402Version"`
	Accepts     []PaymentRequirements `json:"accepts"`
}

func NewChallenge(reqs PaymentRequirements) *Challenge {
	return &Challenge{
		Error:       challengeError,
		X402Version: Version,
		Accepts:     []PaymentRequirements{reqs},
	}
}
