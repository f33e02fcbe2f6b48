package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{InvalidArgument, http.StatusBadRequest},
		{Conflict, http.StatusBadRequest},
		{Unauthenticated, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Internal, http.StatusInternalServerError},
		{Kind("bogus"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.HTTPStatus(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.kind, tt.want, got)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	base := New(NotFound, "campaign not found")
	err := fmt.Errorf("load: %w", base)

	if KindOf(err) != NotFound {
		t.Fatalf("expected NOT_FOUND, got %s", KindOf(err))
	}
	if !errors.Is(err, &Error{Kind: NotFound}) {
		t.Fatal("expected errors.Is to match by kind")
	}
	if errors.Is(err, &Error{Kind: Conflict}) {
		t.Fatal("expected no match for a different kind")
	}
}

func TestKindOfForeignError(t *testing.T) {
	if KindOf(errors.New("boom")) != Internal {
		t.Fatal("expected foreign errors to be internal")
	}
	if IsKind(nil, Internal) {
		t.Fatal("nil error carries no kind")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := Wrap(Internal, "could not update campaign", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if err.Error() != "could not update campaign: socket closed" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
