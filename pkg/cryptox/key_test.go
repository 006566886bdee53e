package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := GenerateKey(0)
		require.Error(t, err)

		_, err = GenerateKey(-1)
		require.Error(t, err)
	})

	t.Run("produces url-safe keys of the right entropy", func(t *testing.T) {
		key, err := GenerateKey(KeySize256)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(key)
		require.NoError(t, err)
		require.Len(t, raw, KeySize256)
	})

	t.Run("keys are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 64 {
			key := MustGenerateKey(KeySize128)
			_, dup := seen[key]
			require.False(t, dup)
			seen[key] = struct{}{}
		}
	})
}
