package vfs

import "strings"

// SanitizeFilename rewrites a string into a single safe path component:
// path separators and forbidden characters become underscores, leading
// and trailing dots and spaces are stripped, and an empty result falls
// back to "unnamed".
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('_')
		case strings.ContainsRune(`<>:"|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	s := strings.Trim(b.String(), ". ")
	if s == "" {
		return "unnamed"
	}
	return s
}
