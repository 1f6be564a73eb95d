// Package override validates human-authorized bypass codes.
//
// Codes are standard RFC 6238 TOTP values (SHA-1, 6 digits, 30-second step)
// computed from a shared secret. Validation accepts the code for the current
// step or the immediately preceding step, absorbing clock skew between the
// operator's generator and this process.
//
// Validation is stateless and non-consuming: a code stays valid for its full
// window (~60 seconds) and can succeed more than once within it. Operators
// should treat codes as short-lived, not single-use.
package override

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Step is the TOTP time step.
const Step = 30 * time.Second

var codeOpts = totp.ValidateOpts{
	Period:    30,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Validate reports whether suppliedCode is the TOTP code for the current or
// immediately preceding step at now. An empty or undecodable secret always
// fails: absent configuration must never silently disable protection.
func Validate(suppliedCode, secret string, now time.Time) bool {
	suppliedCode = strings.TrimSpace(suppliedCode)
	if secret == "" || suppliedCode == "" {
		return false
	}

	for _, at := range []time.Time{now, now.Add(-Step)} {
		want, err := GenerateCode(secret, at)
		if err != nil {
			return false
		}
		if subtle.ConstantTimeCompare([]byte(want), []byte(suppliedCode)) == 1 {
			return true
		}
	}
	return false
}

// GenerateCode computes the code for the step containing at. The secret is
// base32-encoded, as produced by standard authenticator enrollment.
func GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(strings.TrimSpace(secret), at, codeOpts)
}
