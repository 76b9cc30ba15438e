package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// randomToken returns a hex string of n random bytes (2n characters).
// Reservation tokens are capability secrets handed to the holder, never used
// for lookup by id.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ticketCode returns a human-presentable code of length n drawn from an
// unambiguous upper-case alphabet. Uniqueness is enforced by the tickets.code
// constraint.
func ticketCode(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate ticket code: %w", err)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}
