package errors

import (
	"strings"
	"unicode"
)

// maxPackageIDLen bounds identifier length; real Maven coordinates stay
// far below this.
const maxPackageIDLen = 256

// ValidatePackageID validates a package identifier for safety and
// correctness before it reaches a provider. The rules are intentionally
// conservative: no empty ids, no control characters, no path traversal
// sequences. Provider-specific shape checks (coordinate format) are done
// separately by the providers.
func ValidatePackageID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidPackage, "package identifier cannot be empty")
	}

	if len(id) > maxPackageIDLen {
		return New(ErrCodeInvalidPackage, "package identifier too long (max %d characters)", maxPackageIDLen)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package identifier contains control characters")
		}
	}

	// Identifiers become path segments in POM lookups.
	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidPackage, "package identifier contains invalid sequence %q", pattern)
		}
	}

	return nil
}
