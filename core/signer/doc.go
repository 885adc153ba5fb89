// Package signer implements tamper-evident signing of opaque values for
// cookie transport.
//
// A token has the wire format "s:<value>.<signature>" where the signature is
// the base64url-encoded (no padding) HMAC-SHA256 of the value under a shared
// secret. Signing always uses a single secret; verification accepts an ordered
// set of secrets so that retired secrets keep validating existing tokens
// during key rotation:
//
//	token := signer.Sign(sessionID, secrets[0])
//
//	if id, ok := signer.Verify(token, secrets); ok {
//		// id is authentic
//	}
//
// Verification never fails with an error: a malformed or forged token simply
// yields ok == false, which callers treat as "no session".
package signer
