package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// Prefix marks a value as a signed token on the wire.
// The format follows the widely deployed signed-cookie convention: s:<value>.<signature>.
const Prefix = "s:"

// Sign binds value to secret with HMAC-SHA256 and returns the wire token
// "s:<value>.<signature>". The signature is base64url-encoded without padding.
// The value must not contain the "." separator; escape it at the call site if
// it can.
func Sign(value, secret string) string {
	return Prefix + value + "." + signature(value, secret)
}

// Verify checks token against the ordered secret set and returns the embedded
// value on the first match. All secrets are tried, which keeps tokens signed
// under a retired secret valid during key rotation. Signature comparison is
// constant-time.
//
// Malformed input is a normal outcome, not an error: anything that does not
// parse as "s:<value>.<signature>" or fails verification returns ("", false).
func Verify(token string, secrets []string) (string, bool) {
	if !strings.HasPrefix(token, Prefix) {
		return "", false
	}

	// Split on the last "." so the signature is unambiguous even if a caller
	// escaped a separator into the value.
	rest := token[len(Prefix):]
	dot := strings.LastIndexByte(rest, '.')
	if dot < 0 {
		return "", false
	}

	value, sig := rest[:dot], rest[dot+1:]
	for _, secret := range secrets {
		expected := signature(value, secret)
		if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) == 1 {
			return value, true
		}
	}

	return "", false
}

func signature(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
