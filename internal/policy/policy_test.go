package policy

import (
	"testing"

	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
)

func TestCheckCommandAllowed(t *testing.T) {
	tests := []struct {
		name      string
		allowlist []string
		path      string
		allowed   bool
	}{
		{name: "empty allowlist", allowlist: nil, path: "quote", allowed: true},
		{name: "exact match", allowlist: []string{"quote"}, path: "quote", allowed: true},
		{name: "case and spacing", allowlist: []string{" Tokens  Resolve "}, path: "tokens resolve", allowed: true},
		{name: "group allows subcommands", allowlist: []string{"tokens"}, path: "tokens list", allowed: true},
		{name: "prefix is not a group", allowlist: []string{"token"}, path: "tokens list", allowed: false},
		{name: "blocked", allowlist: []string{"providers list"}, path: "quote", allowed: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckCommandAllowed(tc.allowlist, tc.path)
			if tc.allowed && err != nil {
				t.Fatalf("expected %q to be allowed: %v", tc.path, err)
			}
			if !tc.allowed && !clierr.Is(err, clierr.CodeBlocked) {
				t.Fatalf("expected %q to be blocked, got %v", tc.path, err)
			}
		})
	}
}
