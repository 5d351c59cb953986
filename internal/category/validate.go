package category

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hangarhq/hangar/internal/errors"
)

// forbiddenChars are rejected in any path component: characters with
// special meaning on common filesystems, plus anything that could smuggle
// a separator past the containment check.
const forbiddenChars = `<>:"|?*`

// whitespaceRegex matches one or more whitespace characters.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize normalizes a category name: trim, lowercase, collapse
// internal whitespace to single spaces.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// ValidateRelativePath checks a slash-separated relative path: every
// component must pass ValidateComponent, and the path must not be empty.
func ValidateRelativePath(p string) error {
	if p == "" {
		return errors.NewInvalidPath("relative path must not be empty")
	}
	// Accept either separator in user input; validate per component.
	p = strings.ReplaceAll(p, `\`, "/")
	for _, part := range strings.Split(p, "/") {
		if err := ValidateComponent(part); err != nil {
			return err
		}
	}
	return nil
}

// ValidateComponent checks a single path component. Empty components,
// "." and ".." (traversal), control characters, and the forbidden
// character set are all rejected.
func ValidateComponent(part string) error {
	if part == "" {
		return errors.NewInvalidPath("path contains an empty component")
	}
	if part == "." || part == ".." {
		return errors.NewInvalidPath("path must not contain traversal segments")
	}
	for _, r := range part {
		if r < 32 || r == 127 {
			return errors.NewInvalidPath("path contains control characters")
		}
		if strings.ContainsRune(forbiddenChars, r) {
			return errors.NewInvalidPath(fmt.Sprintf("path contains forbidden character %q", r))
		}
	}
	return nil
}
