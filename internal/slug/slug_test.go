package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Getting Started", "getting-started"},
		{"Chapter 1: Accounts & Keys", "chapter-1-accounts-keys"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"Geschäftslogik", "geschaftslogik"},
		{"Déployer un contrat", "deployer-un-contrat"},
		{"UPPER_case_mix", "upper-case-mix"},
		{"---", ""},
		{"", ""},
		{"42", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestAnchorMatchesMake(t *testing.T) {
	assert.Equal(t, Make("Storage Layout"), Anchor("Storage Layout"))
}
