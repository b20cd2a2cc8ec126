package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errNotFound = Sentinel(http.StatusNotFound, "not_found", "Not found")

func TestWrapMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("lookup: %w", Wrap(errNotFound, "User not found", nil))
	if !errors.Is(err, errNotFound) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected errors.As to find *Error")
	}
	if ae.Status != http.StatusNotFound || ae.PublicMessage() != "User not found" {
		t.Fatalf("unexpected %+v", ae)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(errNotFound, "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost")
	}
	if err.PublicMessage() != "Not found" {
		t.Fatalf("default message not applied: %q", err.PublicMessage())
	}
	if err.Error() != "Not found: db down" {
		t.Fatalf("unexpected Error(): %q", err.Error())
	}
}

func TestDifferentCodesDoNotMatch(t *testing.T) {
	other := Sentinel(http.StatusBadRequest, "validation", "bad")
	if errors.Is(Wrap(other, "x", nil), errNotFound) {
		t.Fatalf("different codes matched")
	}
}
