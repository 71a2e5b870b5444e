// Package totp implements RFC 6238 time-based one-time passwords:
// HMAC-SHA-1, 6 digits, 30-second step. SHA-1 here is what virtually every
// issuer assumes and is unrelated to the AEAD used for secret storage.
package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/secure2fa/vault/internal/common"
)

const (
	// Step is the code rotation period.
	Step = 30 * time.Second

	// Digits is the length of a generated code.
	Digits = 6
)

// DecodeSecret normalizes and decodes a base32-encoded TOTP secret:
// whitespace is stripped, letters are upper-cased, and trailing padding is
// ignored. Returns common.ErrorValidation for anything that is not valid
// base32 or is empty.
func DecodeSecret(secret string) ([]byte, error) {
	normalized := normalizeSecret(secret)
	if normalized == "" {
		return nil, fmt.Errorf("empty secret: %w", common.ErrorValidation)
	}

	decoder := base32.StdEncoding.WithPadding(base32.NoPadding)
	b, err := decoder.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid base32 secret: %w", common.ErrorValidation)
	}
	return b, nil
}

// ValidateSecret reports whether secret is a syntactically valid base32
// TOTP secret after normalization.
func ValidateSecret(secret string) error {
	_, err := DecodeSecret(secret)
	return err
}

// Code computes the 6-digit code for the given raw secret bytes at the
// given time, zero-padded.
func Code(secret []byte, now time.Time) string {
	step := int64(Step / time.Second)
	counter := uint64(now.Unix() / step)
	return computeCode(secret, counter)
}

// Remaining returns the number of seconds until the next 30-second
// boundary: 30 − (now mod 30), in the range 1..30.
func Remaining(now time.Time) int {
	step := int64(Step / time.Second)
	return int(step - now.Unix()%step)
}

// StepCounter returns floor(now / 30). Callers that tick faster than the
// rotation period compare counters to recompute only on boundary crossings.
func StepCounter(now time.Time) int64 {
	return now.Unix() / int64(Step/time.Second)
}

// computeCode is RFC 4226 dynamic truncation over an HMAC-SHA-1 of the
// big-endian 8-byte counter.
func computeCode(secret []byte, counter uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)

	mac := hmac.New(sha1.New, secret)
	mac.Write(buf[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0F
	trunc := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7FFFFFFF
	code := trunc % 1_000_000
	return fmt.Sprintf("%0*d", Digits, code)
}

func normalizeSecret(secret string) string {
	var b strings.Builder
	for _, r := range secret {
		switch r {
		case ' ', '\t', '\r', '\n', '-':
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(strings.ToUpper(b.String()), "=")
}
