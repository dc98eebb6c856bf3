package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ticket and title", "INC-1042 VPN down for Sales!", "inc-1042-vpn-down-for-sales"},
		{"collapses runs", "a   //  b", "a-b"},
		{"trims hyphens", "--hello--", "hello"},
		{"non ascii dropped", "Café ünïcode", "caf-n-code"},
		{"empty falls back", "", FallbackFilename},
		{"only symbols falls back", "!!! ???", FallbackFilename},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.in))
		})
	}
}

func TestFilenameTruncates(t *testing.T) {
	got := Filename(strings.Repeat("abc ", 40))
	assert.Len(t, got, 60)
}
