package cryptox_test

import (
	"testing"

	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestIsPasswordStrong(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"StrongPass1!", true},
		{"Aa1@aaaa", true},
		{"Weak1!", false},       // too short
		{"Weak1!x", false},      // 7 chars
		{"strongpass1!", false}, // no upper
		{"STRONGPASS1!", false}, // no lower
		{"StrongPass!!", false}, // no digit
		{"StrongPass11", false}, // no symbol
		{"StrongPass1#", false}, // symbol outside the allowed set
		{"ÉCOLEé12!", true},     // lowercase only from é
		{"Straße٣!", true},      // Arabic-Indic digit
		{"Éé1!Éé1", false},      // 7 characters in more than 8 bytes
		{"ÉCOLEÉ12!", false},    // no lower in any script
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			require.Equal(t, tt.want, cryptox.IsPasswordStrong(tt.password))
		})
	}
}
