// Package crypto implements the time-based one-time code check used to gate writes.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base32"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP parameters. Only the exact current time step is accepted.
const (
	Period uint       = 30
	Digits otp.Digits = otp.DigitsEight
	Skew   uint       = 0
)

// TOTP derives and checks one-time codes (HMAC-SHA256, 8 digits, 30s step).
type TOTP struct {
	opts totp.ValidateOpts
}

// NewTOTP returns a validator with the service-wide parameters.
func NewTOTP() TOTP {
	return TOTP{opts: totp.ValidateOpts{
		Period:    Period,
		Skew:      Skew,
		Digits:    Digits,
		Algorithm: otp.AlgorithmSHA256,
	}}
}

// EncodeSecret turns a configured shared secret into the base32 key form.
// The HMAC key is the raw bytes of the secret.
func EncodeSecret(secret string) string {
	return base32.StdEncoding.EncodeToString([]byte(secret))
}

// Step returns the time-step index floor(now / period).
func Step(now time.Time) int64 {
	return now.Unix() / int64(Period)
}

// CurrentCode returns the zero-padded code valid during now's time step.
func (t TOTP) CurrentCode(secret string, now time.Time) (string, error) {
	return totp.GenerateCodeCustom(EncodeSecret(secret), now, t.opts)
}

// Verify reports whether presented equals the code for now's time step.
// The comparison is constant-time over the full code.
func (t TOTP) Verify(secret, presented string, now time.Time) bool {
	want, err := t.CurrentCode(secret, now)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(presented)) == 1
}

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}
