package protocol

import (
	"strings"

	"paygate/pkg/errors"
)

// Algorithm selects the HMAC scheme used to sign and verify fields.
type Algorithm string

const (
	AlgorithmSHA1   Algorithm = "SHA1"
	AlgorithmSHA256 Algorithm = "SHA256"
)

// ParseAlgorithm normalizes a configured algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case string(AlgorithmSHA1):
		return AlgorithmSHA1, nil
	case string(AlgorithmSHA256):
		return AlgorithmSHA256, nil
	default:
		return "", errors.ErrMissingParameter.
			WithMessage("unknown signature algorithm %q", name)
	}
}

// Signer signs outbound payment-request fields and verifies the
// signature of inbound result fields.
type Signer interface {
	// Sign computes the signature fields for a payment-request form.
	// The returned map holds only the signature fields, it does not
	// include the input.
	Sign(fields Fields) Fields

	// VerifyResult reports whether the merchantSig carried by the
	// fields matches the expected signature. Fields without a
	// merchantSig carry nothing to check and verify as true.
	VerifyResult(fields Fields) bool

	// ComputeHash returns the base64-encoded HMAC of the signing
	// string. Exposed for diagnostics and tests.
	ComputeHash(signingString string) string
}

// NewSigner returns the signer for the given algorithm.
func NewSigner(algorithm Algorithm, secret string) (Signer, error) {
	switch algorithm {
	case AlgorithmSHA1:
		return NewHMACSha1(secret), nil
	case AlgorithmSHA256:
		return NewHMACSha256(secret)
	default:
		return nil, errors.ErrMissingParameter.
			WithMessage("unknown signature algorithm %q", string(algorithm))
	}
}
