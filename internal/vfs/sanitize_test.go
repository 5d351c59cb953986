package vfs

import "testing"

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.json":        "report.json",
		"a/b\\c.txt":         "a_b_c.txt",
		`na<me>:"|?*.txt`:    "na_me______.txt",
		"..hidden..":         "hidden",
		"  spaced  ":         "spaced",
		"...":                "unnamed",
		"":                   "unnamed",
		"ctrl\x01char.txt":   "ctrl_char.txt",
		"../../etc/passwd":   "_.._etc_passwd",
		"normal name (1).md": "normal name (1).md",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
