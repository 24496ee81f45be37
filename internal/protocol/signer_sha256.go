package protocol

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"sort"
	"strings"

	"paygate/internal/constants"
	"paygate/pkg/errors"
)

var signatureEscaper = strings.NewReplacer(`\`, `\\`, `:`, `\:`)

// signatureEscape protects the signing-string separator inside keys
// and values.
func signatureEscape(value string) string {
	return signatureEscaper.Replace(value)
}

// signableKey reports whether a field takes part in the SHA-256
// signature. Signature carriers and fields explicitly marked to be
// ignored are excluded.
func signableKey(key string) bool {
	if key == constants.FieldMerchantSig || key == "sig" {
		return false
	}
	return !strings.HasPrefix(key, constants.IgnorePrefix)
}

// HMACSha256 implements the current signature scheme. Signable fields
// are sorted by key and the signing string is all escaped keys joined
// by ":", then all escaped values in the same order, joined by ":"
// again. The skin secret is hex key material.
type HMACSha256 struct {
	secret []byte
}

func NewHMACSha256(secret string) (*HMACSha256, error) {
	key, err := hex.DecodeString(secret)
	if err != nil {
		return nil, errors.ErrMissingParameter.
			WithMessage("the SHA-256 secret key must be hex-encoded").
			WithCause(err)
	}
	return &HMACSha256{secret: key}, nil
}

// BuildSigningString assembles the canonical signing string for the
// given fields. Unlike the legacy scheme there is no hard-coded key
// order, every signable field present participates.
func BuildSigningString(fields Fields) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if signableKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	escapedKeys := make([]string, 0, len(keys))
	escapedValues := make([]string, 0, len(keys))
	for _, key := range keys {
		escapedKeys = append(escapedKeys, signatureEscape(key))
		escapedValues = append(escapedValues, signatureEscape(fields[key]))
	}

	return strings.Join(escapedKeys, constants.SignatureSeparator) +
		constants.SignatureSeparator +
		strings.Join(escapedValues, constants.SignatureSeparator)
}

func (s *HMACSha256) Sign(fields Fields) Fields {
	return Fields{
		constants.FieldMerchantSig: s.ComputeHash(BuildSigningString(fields)),
	}
}

func (s *HMACSha256) VerifyResult(fields Fields) bool {
	given, ok := fields[constants.FieldMerchantSig]
	if !ok {
		return true
	}
	expected := s.ComputeHash(BuildSigningString(fields))
	return hmac.Equal([]byte(given), []byte(expected))
}

func (s *HMACSha256) ComputeHash(signingString string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingString))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
