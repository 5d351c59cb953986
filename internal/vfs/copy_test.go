package vfs

import (
	"testing"

	"github.com/hangarhq/hangar/internal/errors"
)

func TestCopy_Basic(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Save(NewSaveInput("scraped", "page.json", `{"url":"x"}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := s.Copy(CopyInput{
		SourceCategory: "scraped",
		SourceFileName: "page.json",
		TargetCategory: "reports",
	})
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if out.Size != int64(len(`{"url":"x"}`)) {
		t.Errorf("Size = %d, want %d", out.Size, len(`{"url":"x"}`))
	}

	// Target defaults to the source name; source remains.
	for _, cat := range []string{"scraped", "reports"} {
		got, err := s.Get(GetInput{Category: cat, FileName: "page.json", Raw: true})
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", cat, err)
		}
		if string(got.Raw) != `{"url":"x"}` {
			t.Errorf("Get(%s) = %q, want original content", cat, got.Raw)
		}
	}
}

func TestCopy_RenamesTarget(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Save(NewSaveInput("scraped", "page.json", "x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := s.Copy(CopyInput{
		SourceCategory: "scraped",
		SourceFileName: "page.json",
		TargetCategory: "reports",
		TargetFileName: "renamed.json",
	})
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if _, err := s.Get(GetInput{Category: "reports", FileName: "renamed.json"}); err != nil {
		t.Errorf("Get(renamed.json) failed: %v", err)
	}
}

func TestCopy_SourceNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Copy(CopyInput{
		SourceCategory: "scraped",
		SourceFileName: "missing.json",
		TargetCategory: "reports",
	})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Copy error = %v, want NOT_FOUND", err)
	}
}

func TestCopy_TargetConflict(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Save(NewSaveInput("scraped", "page.json", "src")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := s.Save(NewSaveInput("reports", "page.json", "dst")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := s.Copy(CopyInput{
		SourceCategory: "scraped",
		SourceFileName: "page.json",
		TargetCategory: "reports",
	})
	if !errors.Is(err, errors.ErrConflict) {
		t.Errorf("Copy error = %v, want CONFLICT", err)
	}

	// Overwrite clears the conflict.
	if _, err := s.Copy(CopyInput{
		SourceCategory: "scraped",
		SourceFileName: "page.json",
		TargetCategory: "reports",
		Overwrite:      true,
	}); err != nil {
		t.Fatalf("Copy with overwrite failed: %v", err)
	}
	got, _ := s.Get(GetInput{Category: "reports", FileName: "page.json", Raw: true})
	if string(got.Raw) != "src" {
		t.Errorf("content = %q, want %q", got.Raw, "src")
	}
}

func TestCopy_SamePath(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Save(NewSaveInput("reports", "a.txt", "x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := s.Copy(CopyInput{
		SourceCategory: "reports",
		SourceFileName: "a.txt",
		TargetCategory: "reports",
		TargetFileName: "a.txt",
		Overwrite:      true,
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Copy error = %v, want INVALID_REQUEST", err)
	}
}
