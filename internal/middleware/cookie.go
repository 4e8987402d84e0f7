package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// The session cookie carries the server-side session ID together with
// an HMAC-SHA256 over it, keyed by the configured secret. A tampered
// cookie fails verification before the database is ever consulted.

func SignSessionCookie(secret, sessionID string) string {
	return sessionID + "." + sessionMAC(secret, sessionID)
}

func VerifySessionCookie(secret, cookie string) (string, error) {
	parts := strings.SplitN(cookie, ".", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("malformed session cookie")
	}

	sessionID, mac := parts[0], parts[1]
	expected := sessionMAC(secret, sessionID)
	if !hmac.Equal([]byte(mac), []byte(expected)) {
		return "", fmt.Errorf("session cookie signature mismatch")
	}

	return sessionID, nil
}

func sessionMAC(secret, sessionID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(sessionID))
	return hex.EncodeToString(h.Sum(nil))
}
