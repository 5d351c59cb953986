package category

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hangarhq/hangar/internal/errors"
)

func TestNewRegistry_SeedsDefaults(t *testing.T) {
	r := NewRegistry(t.TempDir(), nil)

	for name, rel := range Defaults {
		got, ok := r.Resolve(name)
		if !ok {
			t.Errorf("default category %q not registered", name)
			continue
		}
		if got != rel {
			t.Errorf("Resolve(%q) = %q, want %q", name, got, rel)
		}
	}
}

func TestNewRegistry_Extras(t *testing.T) {
	r := NewRegistry(t.TempDir(), map[string]string{"traces": "debug/traces"})

	got, ok := r.Resolve("traces")
	if !ok {
		t.Fatal("extra category not registered")
	}
	if got != "debug/traces" {
		t.Errorf("Resolve(traces) = %q, want %q", got, "debug/traces")
	}
}

func TestRegister_Idempotent(t *testing.T) {
	r := NewRegistry(t.TempDir(), nil)

	if err := r.Register("notes", "notes"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	// Re-registering the same name overwrites, never conflicts
	if err := r.Register("notes", "archive/notes"); err != nil {
		t.Fatalf("re-Register failed: %v", err)
	}

	got, _ := r.Resolve("notes")
	if got != "archive/notes" {
		t.Errorf("Resolve(notes) = %q, want %q", got, "archive/notes")
	}
}

func TestRegister_NormalizesName(t *testing.T) {
	r := NewRegistry(t.TempDir(), nil)

	if err := r.Register("  My  Notes ", "notes"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, ok := r.Resolve("my notes"); !ok {
		t.Error("Resolve with normalized name should succeed")
	}
}

func TestRegister_InvalidRelativePath(t *testing.T) {
	r := NewRegistry(t.TempDir(), nil)

	cases := []string{"", "..", "a/../b", "a//b", `bad<name`, "a/./b"}
	for _, rel := range cases {
		err := r.Register("x", rel)
		if !errors.Is(err, errors.ErrInvalidPath) {
			t.Errorf("Register(%q) error = %v, want INVALID_PATH", rel, err)
		}
	}
}

func TestRegister_CreatesDirectoryBestEffort(t *testing.T) {
	baseDir := t.TempDir()
	r := NewRegistry(baseDir, nil)

	if err := r.Register("artifacts", "artifacts/raw"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Creation is asynchronous; poll briefly.
	dir := filepath.Join(baseDir, "artifacts", "raw")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("directory %s was not created", dir)
}

func TestResolve_Unknown(t *testing.T) {
	r := NewRegistry(t.TempDir(), nil)

	if _, ok := r.Resolve("nope"); ok {
		t.Error("Resolve(nope) should report absent")
	}
}

func TestNames_SortedSnapshot(t *testing.T) {
	r := NewRegistry(t.TempDir(), nil)

	names := r.Names()
	if len(names) != len(Defaults) {
		t.Fatalf("Names() returned %d entries, want %d", len(names), len(Defaults))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestValidateComponent(t *testing.T) {
	valid := []string{"report.json", "sub-dir", "with space", "unicodé"}
	for _, s := range valid {
		if err := ValidateComponent(s); err != nil {
			t.Errorf("ValidateComponent(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{"", ".", "..", "a<b", `a"b`, "a|b", "a?b", "a*b", "a:b", "a\x00b", "a\nb"}
	for _, s := range invalid {
		if err := ValidateComponent(s); !errors.Is(err, errors.ErrInvalidPath) {
			t.Errorf("ValidateComponent(%q) = %v, want INVALID_PATH", s, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Hello   World  ": "hello world",
		"REPORTS":           "reports",
		"":                  "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
