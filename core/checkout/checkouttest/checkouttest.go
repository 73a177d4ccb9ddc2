// Package checkouttest provides in-process fakes of the hosted checkout
// providers.
package checkouttest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/e-commerce-books/api/web"
	"github.com/irsalhamdi/e-commerce-books/core/checkout"
	"github.com/plutov/paypal/v4"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
	mock "github.com/stripe/stripe-mock/param"
)

// Line is what a fake provider received for the single checkout line.
type Line struct {
	Currency    string
	Name        string
	Description string
	UnitAmount  string
	Quantity    string
	SuccessURL  string
	CancelURL   string
}

type recorder struct {
	mu    sync.Mutex
	lines []Line
	fail  bool
}

func (rec *recorder) record(l Line) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.lines = append(rec.lines, l)
}

// Lines returns every line received so far.
func (rec *recorder) Lines() []Line {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]Line(nil), rec.lines...)
}

// Fail makes every following session request fail.
func (rec *recorder) Fail() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.fail = true
}

func (rec *recorder) failing() bool {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.fail
}

type Stripe struct {
	recorder
	*httptest.Server
}

// StripeURL is the hosted page the fake hands out for session id.
func StripeURL(id string) string {
	return "https://checkout.stripe.test/pay/" + id
}

func NewStripe(t *testing.T) *Stripe {
	t.Helper()

	s := &Stripe{}
	n := 0
	checkout := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.failing() {
			e := map[string]any{"error": map[string]any{"type": "api_error", "message": "provider unavailable"}}
			web.Respond(context.Background(), w, e, http.StatusInternalServerError)
			return
		}

		params, err := mock.ParseParams(r)
		if err != nil {
			web.Respond(context.Background(), w, nil, http.StatusBadRequest)
			return
		}

		lines := lineItems(params["line_items"])
		if len(lines) != 1 {
			web.Respond(context.Background(), w, nil, http.StatusBadRequest)
			return
		}

		pd, _ := lines[0]["price_data"].(map[string]any)
		prod, _ := pd["product_data"].(map[string]any)
		s.record(Line{
			Currency:    str(pd["currency"]),
			Name:        str(prod["name"]),
			Description: str(prod["description"]),
			UnitAmount:  str(pd["unit_amount"]),
			Quantity:    str(lines[0]["quantity"]),
			SuccessURL:  str(params["success_url"]),
			CancelURL:   str(params["cancel_url"]),
		})

		s.mu.Lock()
		n++
		id := fmt.Sprintf("cs_test_%d", n)
		s.mu.Unlock()

		sess := map[string]any{"id": id, "object": "checkout.session", "url": StripeURL(id)}
		web.Respond(context.Background(), w, sess, http.StatusOK)
	})

	r := mux.NewRouter()
	r.Handle("/v1/checkout/sessions", checkout).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)
	return s
}

// API returns a stripe client that talks to the fake without retries.
func (s *Stripe) API() *stripecl.API {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(s.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})

	api := &stripecl.API{}
	api.Init("sk_test_fake", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return api
}

func (s *Stripe) Provider() *checkout.Stripe {
	return checkout.NewStripe(s.API())
}

type Paypal struct {
	recorder
	*httptest.Server
}

// PaypalURL is the approval page the fake hands out for order id.
func PaypalURL(id string) string {
	return "https://www.paypal.test/checkoutnow?token=" + id
}

func NewPaypal(t *testing.T) *Paypal {
	t.Helper()

	p := &Paypal{}
	n := 0
	token := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := map[string]any{"access_token": "A21-fake", "token_type": "Bearer", "expires_in": 32400}
		web.Respond(context.Background(), w, tok, http.StatusOK)
	})

	order := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.failing() {
			e := map[string]any{"name": "INTERNAL_SERVER_ERROR", "message": "provider unavailable"}
			web.Respond(context.Background(), w, e, http.StatusInternalServerError)
			return
		}

		var req struct {
			Intent string                       `json:"intent"`
			Units  []paypal.PurchaseUnitRequest `json:"purchase_units"`
			App    *paypal.ApplicationContext   `json:"application_context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.Respond(context.Background(), w, nil, http.StatusBadRequest)
			return
		}
		if len(req.Units) != 1 || len(req.Units[0].Items) != 1 || req.App == nil {
			web.Respond(context.Background(), w, nil, http.StatusBadRequest)
			return
		}

		it := req.Units[0].Items[0]
		l := Line{
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			SuccessURL:  req.App.ReturnURL,
			CancelURL:   req.App.CancelURL,
		}
		if it.UnitAmount != nil {
			l.Currency = it.UnitAmount.Currency
			l.UnitAmount = it.UnitAmount.Value
		}
		p.record(l)

		p.mu.Lock()
		n++
		id := fmt.Sprintf("ORDER-%d", n)
		p.mu.Unlock()

		ord := map[string]any{
			"id":     id,
			"status": "CREATED",
			"links": []map[string]any{
				{"href": "https://api.paypal.test/v2/checkout/orders/" + id, "rel": "self", "method": "GET"},
				{"href": PaypalURL(id), "rel": "approve", "method": "GET"},
			},
		}
		web.Respond(context.Background(), w, ord, http.StatusCreated)
	})

	r := mux.NewRouter()
	r.Handle("/v1/oauth2/token", token).Methods(http.MethodPost)
	r.Handle("/v2/checkout/orders", order).Methods(http.MethodPost)

	p.Server = httptest.NewServer(r)
	t.Cleanup(p.Server.Close)
	return p
}

func (p *Paypal) Provider(t *testing.T) *checkout.Paypal {
	t.Helper()

	c, err := paypal.NewClient("client-id", "secret", p.URL)
	if err != nil {
		t.Fatalf("creating paypal client: %v", err)
	}
	return checkout.NewPaypal(c)
}

// lineItems accepts both shapes the form decoder yields for indexed params.
func lineItems(v any) []map[string]any {
	var out []map[string]any
	switch li := v.(type) {
	case []any:
		for _, e := range li {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
	case map[string]any:
		for _, e := range li {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
