package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var (
	newPaymentIntent = func(api *client.API, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		return api.PaymentIntents.New(params)
	}
	getPaymentIntent = func(api *client.API, id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		return api.PaymentIntents.Get(id, params)
	}
)

// StripeGateway talks to Stripe through stripe-go.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := newPaymentIntent(g.api, params)
	if err != nil {
		return nil, fmt.Errorf("%w: create intent: %v", common.ErrPaymentProvider, err)
	}
	return fromStripe(pi), nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := getPaymentIntent(g.api, id, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && (se.Code == stripe.ErrorCodeResourceMissing || se.HTTPStatusCode == 404) {
			return nil, fmt.Errorf("%w: %s", common.ErrPaymentNotFound, id)
		}
		return nil, fmt.Errorf("%w: get intent: %v", common.ErrPaymentProvider, err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	meta := make(map[string]string, len(pi.Metadata))
	for k, v := range pi.Metadata {
		meta[k] = v
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     meta,
	}
}
