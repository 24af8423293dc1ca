package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{InvalidInput, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusOf(New(tc.kind, "boom")); got != tc.want {
			t.Fatalf("StatusOf(kind %d) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestUnclassifiedErrorDefaults(t *testing.T) {
	err := errors.New("pq: connection refused")

	if StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unclassified error, got %d", StatusOf(err))
	}
	if MessageOf(err) != "internal server error" {
		t.Fatalf("driver details must not leak, got %q", MessageOf(err))
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("row not found")
	err := Wrap(NotFound, "video not found", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable")
	}
	if KindOf(err) != NotFound {
		t.Fatalf("expected NotFound kind, got %d", KindOf(err))
	}
	if MessageOf(err) != "video not found" {
		t.Fatalf("unexpected message %q", MessageOf(err))
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handle request: %w", New(Forbidden, "not the owner"))

	if KindOf(err) != Forbidden {
		t.Fatalf("expected Forbidden through fmt wrapping, got %d", KindOf(err))
	}
	if StatusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", StatusOf(err))
	}
}
