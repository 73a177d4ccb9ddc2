package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWrapMiddlewareOrder(t *testing.T) {
	var calls []string
	mark := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				calls = append(calls, name)
				return next(ctx, w, r)
			}
		}
	}

	h := WrapMiddleware([]Middleware{mark("a"), nil, mark("b")}, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		calls = append(calls, "handler")
		return nil
	})

	if err := h(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)); err != nil {
		t.Fatal(err)
	}

	if got := strings.Join(calls, ","); got != "a,b,handler" {
		t.Fatalf("unexpected call order %s", got)
	}
}

func TestRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/admin", nil)

	if err := Redirect(context.Background(), w, r, "/admin"); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Book","extra":1}`))
	if err := Decode(httptest.NewRecorder(), r, &v); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{``, "body must not be empty"},
		{`{"title":`, "body contains badly-formed JSON"},
		{`{"title":1}`, `body contains an incorrect JSON type for field "title"`},
		{`{"extra":1}`, `body contains unknown field "extra"`},
		{`{"title":"a"}{"title":"b"}`, "body must contain a single JSON object"},
	}

	for _, tt := range tests {
		var v struct {
			Title string `json:"title"`
		}
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
		err := Decode(httptest.NewRecorder(), r, &v)
		if err == nil || !strings.HasPrefix(err.Error(), tt.want) {
			t.Errorf("body %q: expected %q, got %v", tt.body, tt.want, err)
		}
	}
}

func TestRespondNil(t *testing.T) {
	w := httptest.NewRecorder()
	if err := Respond(context.Background(), w, nil, http.StatusBadRequest); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusBadRequest || w.Body.Len() != 0 {
		t.Fatalf("expected bare 400, got %d %q", w.Code, w.Body.String())
	}
}
