package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Key size constants (in bytes before encoding).
const (
	// KeySize128 provides 128 bits of entropy (22 chars base64url).
	KeySize128 = 16
	// KeySize256 provides 256 bits of entropy (43 chars base64url).
	KeySize256 = 32
)

// GenerateKey creates a cryptographically secure random key of the given
// byte length, returned base64url-encoded without padding.
func GenerateKey(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: key size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate random key: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MustGenerateKey is like GenerateKey but panics on error. Use only during
// initialization where failure is unrecoverable.
func MustGenerateKey(size int) string {
	key, err := GenerateKey(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate key: %v", err))
	}
	return key
}
