// Package jwt is the token codec: it issues and verifies signed, time-bounded
// bearer tokens carrying a subject and a role claim.
//
// Verification fails closed. A token is either fully valid (signature,
// algorithm, expiry, issuer, audience) or rejected with [ErrTokenInvalid].
// Cryptographic validity is necessary but not sufficient for authentication;
// the session registry decides whether the token is still live.
package jwt
