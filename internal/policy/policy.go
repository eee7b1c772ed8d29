package policy

import (
	"strings"

	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
)

// CheckCommandAllowed enforces the --enable-commands allowlist. An entry
// naming a command group ("tokens") allows every subcommand in it.
func CheckCommandAllowed(allowlist []string, commandPath string) error {
	if len(allowlist) == 0 {
		return nil
	}
	normPath := normalize(commandPath)
	for _, allowed := range allowlist {
		norm := normalize(allowed)
		if norm == normPath || strings.HasPrefix(normPath, norm+" ") {
			return nil
		}
	}
	return clierr.New(clierr.CodeBlocked, "command blocked by --enable-commands policy: "+normPath)
}

func normalize(v string) string {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(v)))
	return strings.Join(parts, " ")
}
