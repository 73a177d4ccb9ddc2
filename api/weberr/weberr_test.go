package weberr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/e-commerce-books/apperr"
)

func TestFromKind(t *testing.T) {
	tests := []struct {
		kind   apperr.Kind
		status int
		msg    string
	}{
		{apperr.NotFound, http.StatusNotFound, "the resource could not be found"},
		{apperr.Unauthenticated, http.StatusUnauthorized, "login required"},
		{apperr.PersistenceFailure, http.StatusInternalServerError, "could not save changes"},
		{apperr.ExternalAPIFailure, http.StatusBadGateway, "payment provider unavailable"},
	}

	for _, tt := range tests {
		err := FromKind(fmt.Errorf("handler: %w", apperr.New(tt.kind, "db is on fire")), false)

		body, status, ok := Response(err)
		if !ok {
			t.Fatalf("%s: expected a response", tt.kind)
		}
		if status != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.kind, tt.status, status)
		}
		if diff := cmp.Diff(&ErrorResponse{tt.msg}, body); diff != "" {
			t.Errorf("%s: body mismatch (-want +got):\n%s", tt.kind, diff)
		}

		fields, ok := Fields(err)
		if !ok || fields["kind"] != tt.kind.String() {
			t.Errorf("%s: expected kind field, got %v", tt.kind, fields)
		}
	}
}

func TestFromKindDebug(t *testing.T) {
	err := FromKind(apperr.New(apperr.PersistenceFailure, "disk full"), true)

	body, _, ok := Response(err)
	if !ok {
		t.Fatal("expected a response")
	}
	if msg := body.(*ErrorResponse).Error; !strings.Contains(msg, "disk full") {
		t.Fatalf("expected raw error text, got %q", msg)
	}
}

func TestFromKindPassThrough(t *testing.T) {
	plain := errors.New("plain")
	if got := FromKind(plain, false); got != plain {
		t.Fatalf("expected unchanged error, got %v", got)
	}

	nf := NewError(plain, "gone", http.StatusNotFound)
	if got := FromKind(nf, false); got != nf {
		t.Fatal("errors with a response must not be rewrapped")
	}

	if FromKind(nil, false) != nil {
		t.Fatal("nil must stay nil")
	}
}

func TestFieldsMerge(t *testing.T) {
	inner := InternalError(errors.New("boom"), WithFields(map[string]any{"trace": "stack", "kind": "inner"}))
	err := Wrap(fmt.Errorf("outer: %w", inner), WithFields(map[string]any{"kind": "outer"}))

	got, ok := Fields(err)
	if !ok {
		t.Fatal("expected fields")
	}
	want := map[string]any{"trace": "stack", "kind": "outer"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if _, ok := Fields(errors.New("bare")); ok {
		t.Fatal("bare errors carry no fields")
	}
}
