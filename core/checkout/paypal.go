package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/plutov/paypal/v4"
)

type Paypal struct {
	client *paypal.Client
}

func NewPaypal(client *paypal.Client) *Paypal {
	return &Paypal{client: client}
}

func (p *Paypal) CreateSession(ctx context.Context, req Request) (string, error) {
	currency := strings.ToUpper(req.Currency)
	unit := fmt.Sprintf("%d.%02d", req.UnitAmount/100, req.UnitAmount%100)
	total := req.UnitAmount * req.Quantity
	tot := fmt.Sprintf("%d.%02d", total/100, total%100)

	units := []paypal.PurchaseUnitRequest{{
		Items: []paypal.Item{{
			Quantity:    fmt.Sprint(req.Quantity),
			Name:        req.Name,
			Description: req.Description,

			UnitAmount: &paypal.Money{
				Currency: currency,
				Value:    unit,
			},
		}},

		Amount: &paypal.PurchaseUnitAmount{
			Currency: currency,
			Value:    tot,

			Breakdown: &paypal.PurchaseUnitAmountBreakdown{ItemTotal: &paypal.Money{
				Currency: currency,
				Value:    tot,
			}},
		},
	}}

	app := &paypal.ApplicationContext{
		ReturnURL: req.SuccessURL,
		CancelURL: req.CancelURL,
	}

	ord, err := p.client.CreateOrder(ctx, "CAPTURE", units, nil, app)
	if err != nil {
		return "", fmt.Errorf("creating paypal order: %w", err)
	}

	for _, l := range ord.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href, nil
		}
	}

	return "", errors.New("paypal order has no approval link")
}
