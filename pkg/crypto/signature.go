package crypto

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// CredentialSignature returns hex(sha512(clientID + ":" + clientSecret)).
// Providers that sign with static credentials send this value in a header
// and expect the same value on outbound requests.
func CredentialSignature(clientID, clientSecret string) string {
	sum := sha512.Sum512([]byte(clientID + ":" + clientSecret))
	return hex.EncodeToString(sum[:])
}

// SignatureMatches compares two hex signatures case-insensitively in constant time.
func SignatureMatches(expected, provided string) bool {
	provided = strings.TrimSpace(provided)
	if expected == "" || provided == "" {
		return false
	}
	e := []byte(strings.ToLower(expected))
	p := []byte(strings.ToLower(provided))
	return subtle.ConstantTimeCompare(e, p) == 1
}
