package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// ErrEmptySecret reports an attempt to hash an empty secret. Callers are
// expected to validate input before reaching the hasher, so this surfaces
// eagerly as a programming error rather than a user-facing failure.
var ErrEmptySecret = errors.New("cryptox: empty secret")

// HashPassword produces a PHC-encoded Argon2id hash of the given secret
// (a password, session key or one-time token). The salt is random per call,
// so hashing the same secret twice yields different strings.
func HashPassword(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	sum := argon2.IDKey([]byte(secret+GetPepper()), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// VerifyPassword checks a plaintext secret against a PHC-encoded Argon2id
// hash. It returns nil on a match and a non-nil error for any mismatch or
// malformed hash; it never panics. Comparison is constant time.
func VerifyPassword(secret, encodedHash string) error {
	parts := splitPHC(encodedHash)
	if len(parts) != 6 {
		return errors.New("cryptox: malformed hash")
	}
	if parts[1] != "argon2id" || parts[2] != "v=19" {
		return errors.New("cryptox: unsupported hash")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("cryptox: malformed hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("cryptox: malformed salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("cryptox: malformed digest: %w", err)
	}

	got := argon2.IDKey(
		[]byte(secret+GetPepper()),
		salt,
		iters,
		mem,
		par,
		uint32(len(want)), // #nosec G115 - digest lengths are small
	)

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return errors.New("cryptox: secret does not match")
	}
	return nil
}

// GenerateKeyHash returns a fresh random key together with its Argon2id
// hash. Only the hash is meant to be persisted; the key is shown to the
// caller exactly once (session keys, e-mail verification and password reset
// tokens).
func GenerateKeyHash() (key, hash string, err error) {
	key, err = GenerateKey(KeySize256)
	if err != nil {
		return "", "", err
	}
	hash, err = HashPassword(key)
	if err != nil {
		return "", "", err
	}
	return key, hash, nil
}

func splitPHC(s string) []string {
	parts := make([]string, 0, 6)
	for i := 0; i < len(s); i++ {
		if s[i] == '$' {
			parts = append(parts, s[:i])
			s = s[i+1:]
			i = -1
		}
	}
	return append(parts, s)
}
