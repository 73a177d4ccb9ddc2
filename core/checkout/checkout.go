// Package checkout turns the purchase of one catalog item into a hosted
// payment page of an external provider. It does not verify the outcome of the
// payment; the provider sends the buyer back to the storefront on its own.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/core/item"
)

// Request is a single-line payment request in provider-neutral form.
type Request struct {
	Currency    string
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
	SuccessURL  string
	CancelURL   string
}

// Provider creates a hosted payment session and returns the URL to send the
// buyer to.
type Provider interface {
	CreateSession(ctx context.Context, req Request) (string, error)
}

type Bridge struct {
	provider Provider
	baseURL  string
	currency string
}

func NewBridge(p Provider, baseURL string, currency string) *Bridge {
	return &Bridge{
		provider: p,
		baseURL:  strings.TrimRight(baseURL, "/"),
		currency: strings.ToLower(currency),
	}
}

func (b *Bridge) Request(it item.Item) Request {
	return Request{
		Currency:    b.currency,
		Name:        it.Title,
		Description: it.Description,
		UnitAmount:  it.Price.MinorUnits(),
		Quantity:    1,
		SuccessURL:  b.baseURL + "/",
		CancelURL:   fmt.Sprintf("%s/book-page/%d", b.baseURL, it.ID),
	}
}

// CreateSession returns the provider's redirect URL for buying it.
func (b *Bridge) CreateSession(ctx context.Context, it item.Item) (string, error) {
	url, err := b.provider.CreateSession(ctx, b.Request(it))
	if err != nil {
		return "", apperr.E(apperr.ExternalAPIFailure, fmt.Errorf("creating checkout for item[%d]: %w", it.ID, err))
	}
	return url, nil
}
