package cryptox_test

import (
	"encoding/hex"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"128-bit token", cryptox.TokenSize128, 22},
		{"256-bit token", cryptox.TokenSize256, 43},
		{"512-bit token", cryptox.TokenSize512, 86},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := cryptox.GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, a, tt.wantLen)

			b, err := cryptox.GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, a, b)
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		tok, err := cryptox.GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, tok)

		tok, err = cryptox.GenerateHexToken(size)
		require.Error(t, err)
		require.Empty(t, tok)
	}
}

func TestGenerateHexToken(t *testing.T) {
	tok, err := cryptox.GenerateHexToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.Len(t, tok, 64)

	_, err = hex.DecodeString(tok)
	require.NoError(t, err)
}

func TestFingerprintToken(t *testing.T) {
	a1 := cryptox.FingerprintToken("test-token-1")
	a2 := cryptox.FingerprintToken("test-token-1")
	b := cryptox.FingerprintToken("test-token-2")

	require.Equal(t, a1, a2)
	require.NotEqual(t, a1, b)
	require.Len(t, a1, 43)
}
