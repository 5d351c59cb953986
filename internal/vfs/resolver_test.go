package vfs

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/hangarhq/hangar/internal/category"
	"github.com/hangarhq/hangar/internal/errors"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	reg := category.NewRegistry(t.TempDir(), nil)
	r, err := NewResolver(reg)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	return r
}

func TestCategoryPath_Empty(t *testing.T) {
	r := newTestResolver(t)

	got, err := r.CategoryPath("")
	if err != nil {
		t.Fatalf("CategoryPath failed: %v", err)
	}
	if got != r.BaseDir() {
		t.Errorf("CategoryPath(\"\") = %q, want base root %q", got, r.BaseDir())
	}
}

func TestCategoryPath_Registered(t *testing.T) {
	r := newTestResolver(t)

	got, err := r.CategoryPath("reports")
	if err != nil {
		t.Fatalf("CategoryPath failed: %v", err)
	}
	want := filepath.Join(r.BaseDir(), "reports")
	if got != want {
		t.Errorf("CategoryPath(reports) = %q, want %q", got, want)
	}
}

func TestCategoryPath_UnknownRawPath(t *testing.T) {
	r := newTestResolver(t)

	got, err := r.CategoryPath("adhoc/nested")
	if err != nil {
		t.Fatalf("CategoryPath failed: %v", err)
	}
	want := filepath.Join(r.BaseDir(), "adhoc", "nested")
	if got != want {
		t.Errorf("CategoryPath = %q, want %q", got, want)
	}
}

func TestCategoryPath_Invalid(t *testing.T) {
	r := newTestResolver(t)

	cases := []string{"..", "../etc", "a/../b", "a//b", "bad|name", "a\x00b"}
	for _, c := range cases {
		if _, err := r.CategoryPath(c); !errors.Is(err, errors.ErrInvalidPath) {
			t.Errorf("CategoryPath(%q) error = %v, want INVALID_PATH", c, err)
		}
	}
}

func TestFilePath_Traversal(t *testing.T) {
	r := newTestResolver(t)

	// Concrete scenario: resolveFilePath("reports","../../etc/passwd")
	// must fail, not return a path.
	if _, err := r.FilePath("reports", "../../etc/passwd", FileOpts{}); !errors.Is(err, errors.ErrInvalidPath) {
		t.Errorf("FilePath traversal error = %v, want INVALID_PATH", err)
	}
}

func TestFilePath_ForbiddenCharacters(t *testing.T) {
	r := newTestResolver(t)

	cases := []string{`na<me.txt`, `na>me.txt`, `na:me.txt`, `na"me.txt`, `na|me.txt`, `na?me.txt`, `na*me.txt`, "na\x07me.txt"}
	for _, c := range cases {
		if _, err := r.FilePath("reports", c, FileOpts{}); !errors.Is(err, errors.ErrInvalidPath) {
			t.Errorf("FilePath(%q) error = %v, want INVALID_PATH", c, err)
		}
	}
}

func TestFilePath_DangerousExtensions(t *testing.T) {
	r := newTestResolver(t)

	for _, name := range []string{"x.exe", "x.sh", "x.bat", "x.cmd", "x.ps1", "x.jar", "x.dll", "x.com", "x.EXE"} {
		if _, err := r.FilePath("scripts", name, FileOpts{}); !errors.Is(err, errors.ErrInvalidPath) {
			t.Errorf("FilePath(%q) error = %v, want INVALID_PATH", name, err)
		}
		if _, err := r.FilePath("scripts", name, FileOpts{AllowDangerousExtensions: true}); err != nil {
			t.Errorf("FilePath(%q) with override failed: %v", name, err)
		}
	}
}

func TestFilePath_EmptyName(t *testing.T) {
	r := newTestResolver(t)

	if _, err := r.FilePath("reports", "  ", FileOpts{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("FilePath(empty) error = %v, want INVALID_REQUEST", err)
	}
}

func TestFilePath_Nested(t *testing.T) {
	r := newTestResolver(t)

	got, err := r.FilePath("reports", "2026/summary.json", FileOpts{})
	if err != nil {
		t.Fatalf("FilePath failed: %v", err)
	}
	want := filepath.Join(r.BaseDir(), "reports", "2026", "summary.json")
	if got != want {
		t.Errorf("FilePath = %q, want %q", got, want)
	}
}

func TestIsWithin_SeparatorBoundary(t *testing.T) {
	sep := string(filepath.Separator)
	base := sep + filepath.Join("base", "foo")

	// Sibling with a shared string prefix must not count as contained.
	if isWithin(base, base+"bar") {
		t.Error("isWithin treated /base/foobar as inside /base/foo")
	}
	if !isWithin(base, base) {
		t.Error("isWithin should accept the base itself")
	}
	if !isWithin(base, filepath.Join(base, "child")) {
		t.Error("isWithin should accept a direct child")
	}
	if isWithin(base, sep+filepath.Join("base", "fo")) {
		t.Error("isWithin accepted a shorter sibling")
	}
}

func TestCheckContainment_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}
	reg := category.NewRegistry(t.TempDir(), nil)
	r, err := NewResolver(reg)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	// Plant a symlink inside the root pointing outside it.
	outside := t.TempDir()
	link := filepath.Join(r.BaseDir(), "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatalf("Symlink failed: %v", err)
	}

	if _, err := r.FilePath("escape", "secret.txt", FileOpts{}); !errors.Is(err, errors.ErrInvalidPath) {
		t.Errorf("FilePath through escaping symlink error = %v, want INVALID_PATH", err)
	}
}

func TestResolveExistingPrefix_MissingTail(t *testing.T) {
	base := t.TempDir()
	p := filepath.Join(base, "does", "not", "exist.txt")

	got, err := resolveExistingPrefix(p)
	if err != nil {
		t.Fatalf("resolveExistingPrefix failed: %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join("does", "not", "exist.txt")) {
		t.Errorf("resolveExistingPrefix = %q, want suffix does/not/exist.txt", got)
	}
}
