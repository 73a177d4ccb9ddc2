package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/irsalhamdi/e-commerce-books/api/middleware"
	"github.com/irsalhamdi/e-commerce-books/api/web"
	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/core/claims"
	"github.com/irsalhamdi/e-commerce-books/rate"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func serve(t *testing.T, h web.Handler, mw ...web.Middleware) *httptest.ResponseRecorder {
	t.Helper()
	return serveReq(t, httptest.NewRequest(http.MethodGet, "/books", nil), h, mw...)
}

func serveReq(t *testing.T, r *http.Request, h web.Handler, mw ...web.Middleware) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	web.WrapMiddleware(mw, h)(r.Context(), w, r)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Error
}

func TestRequestID(t *testing.T) {
	var seen string
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		seen = middleware.ContextRequestID(ctx)
		return nil
	}

	w := serve(t, h, middleware.RequestID())
	if seen == "" || w.Header().Get(middleware.RequestIDHeader) != seen {
		t.Fatalf("generated id %q not echoed, header %q", seen, w.Header().Get(middleware.RequestIDHeader))
	}

	tests := []struct {
		in   string
		want string
	}{
		{"abc-123", "abc-123"},
		{strings.Repeat("x", 200), strings.Repeat("x", 128)},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(middleware.RequestIDHeader, tt.in)
		serveReq(t, r, h, middleware.RequestID())
		if seen != tt.want {
			t.Errorf("id %q: expected %q, got %q", tt.in, tt.want, seen)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(middleware.RequestIDHeader, "bad id\n")
	serveReq(t, r, h, middleware.RequestID())
	if seen == "bad id\n" || seen == "" {
		t.Errorf("unsafe id not replaced, got %q", seen)
	}
}

func TestErrors(t *testing.T) {
	log, hook := test.NewNullLogger()

	tests := []struct {
		err    error
		debug  bool
		status int
		msg    string
	}{
		{apperr.New(apperr.NotFound, "item[3] missing"), false, http.StatusNotFound, "the resource could not be found"},
		{apperr.New(apperr.ExternalAPIFailure, "stripe down"), false, http.StatusBadGateway, "payment provider unavailable"},
		{errors.New("oops"), false, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)},
		{errors.New("oops"), true, http.StatusInternalServerError, "Error: oops"},
		{apperr.New(apperr.PersistenceFailure, "disk full"), true, http.StatusInternalServerError, "Error: persistence failure: disk full"},
	}

	for _, tt := range tests {
		hook.Reset()
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error { return tt.err }

		w := serve(t, h, middleware.Errors(log, tt.debug))
		if w.Code != tt.status {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.status, w.Code)
		}
		if got := errorBody(t, w); got != tt.msg {
			t.Errorf("%v: expected message %q, got %q", tt.err, tt.msg, got)
		}
		if e := hook.LastEntry(); e == nil || e.Level != logrus.ErrorLevel {
			t.Errorf("%v: expected an error log entry", tt.err)
		}
	}
}

func TestErrorsKindField(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return apperr.New(apperr.Unauthenticated, "no session")
	}

	serve(t, h, middleware.Errors(log, false))
	e := hook.LastEntry()
	if e == nil || e.Data["kind"] != "unauthenticated" {
		t.Fatalf("expected kind field, got %+v", e)
	}
}

func TestPanics(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	}

	w := serve(t, h, middleware.Errors(log, false), middleware.Panics())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	e := hook.LastEntry()
	if e == nil || e.Data["trace"] == nil {
		t.Fatalf("expected a trace field, got %+v", e)
	}
}

func TestLimit(t *testing.T) {
	l := rate.NewLimiter(1, time.Minute, rate.Every(time.Hour))
	t.Cleanup(l.Stop)

	calls := 0
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		calls++
		return nil
	}
	log, _ := test.NewNullLogger()

	serve(t, h, middleware.Errors(log, false), middleware.Limit(l))
	w := serve(t, h, middleware.Errors(log, false), middleware.Limit(l))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if calls != 1 {
		t.Fatalf("expected the handler to run once, ran %d times", calls)
	}

	other := httptest.NewRequest(http.MethodGet, "/books", nil)
	other.RemoteAddr = "10.0.0.9:4242"
	serveReq(t, other, h, middleware.Errors(log, false), middleware.Limit(l))
	if calls != 2 {
		t.Fatal("a different client must have its own budget")
	}
}

func TestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Redirect(ctx, w, r, "/cart")
	}

	r := httptest.NewRequest(http.MethodPost, "/add-cart/1", nil)
	r = r.WithContext(claims.Set(r.Context(), claims.Claims{Username: "alice", Role: claims.RoleUser}))
	serveReq(t, r, h, middleware.RequestID(), middleware.Logger(log))

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}

	done := entries[1]
	if done.Message != "completed" {
		t.Fatalf("unexpected message %q", done.Message)
	}
	for k, want := range map[string]any{
		"user":       "alice",
		"method":     http.MethodPost,
		"path":       "/add-cart/1",
		"statuscode": http.StatusSeeOther,
		"location":   "/cart",
	} {
		if done.Data[k] != want {
			t.Errorf("field %s: expected %v, got %v", k, want, done.Data[k])
		}
	}
	if done.Data["req_id"] == nil {
		t.Error("expected req_id field")
	}
}
