package errors

import (
	"fmt"
	"testing"
)

func TestHangarError_Error(t *testing.T) {
	err := &HangarError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "not found: reports/summary.json",
	}

	expected := "NOT_FOUND: not found: reports/summary.json"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidPath(t *testing.T) {
	err := NewInvalidPath("path must not contain directory traversal")

	if err.Code != ErrInvalidPath {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidPath)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("reports/summary.json")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "reports/summary.json" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "reports/summary.json")
	}
}

func TestNewConflict(t *testing.T) {
	err := NewConflict("file already exists")

	if err.Code != ErrConflict {
		t.Errorf("Code = %q, want %q", err.Code, ErrConflict)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
}

func TestNewTooLarge(t *testing.T) {
	err := NewTooLarge(1024, 4096)

	if err.Code != ErrTooLarge {
		t.Errorf("Code = %q, want %q", err.Code, ErrTooLarge)
	}
	if err.Status != 413 {
		t.Errorf("Status = %d, want 413", err.Status)
	}
	if err.Details["max_bytes"] != int64(1024) {
		t.Errorf("Details[max_bytes] = %v, want 1024", err.Details["max_bytes"])
	}
	if err.Details["actual_bytes"] != int64(4096) {
		t.Errorf("Details[actual_bytes] = %v, want 4096", err.Details["actual_bytes"])
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk on fire"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Message != "disk on fire" {
		t.Errorf("Message = %q, want %q", err.Message, "disk on fire")
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)

	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("x")

	if !Is(err, ErrNotFound) {
		t.Error("Is(err, ErrNotFound) = false, want true")
	}
	if Is(err, ErrConflict) {
		t.Error("Is(err, ErrConflict) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrNotFound) {
		t.Error("Is(plain error, ErrNotFound) = true, want false")
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(NewTooLarge(1, 2)); got != 413 {
		t.Errorf("StatusOf(TooLarge) = %d, want 413", got)
	}
	if got := StatusOf(fmt.Errorf("plain")); got != 500 {
		t.Errorf("StatusOf(plain) = %d, want 500", got)
	}
}
