package providers

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/careercompass/backend/internal/pkg/errors"
	"github.com/careercompass/backend/internal/services"
)

// StripeProvider implements services.PaymentProvider on the Stripe API.
type StripeProvider struct {
	sc *client.API
}

// NewStripeProvider creates a payment provider with the given secret key
func NewStripeProvider(secretKey string) *StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeProvider{sc: sc}
}

// CheckoutSession retrieves a checkout session with its line-item price ids
func (p *StripeProvider) CheckoutSession(ctx context.Context, sessionID string) (*services.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := p.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		if isMissing(err) {
			return nil, errors.InvalidSession(sessionID)
		}
		return nil, errors.PaymentAPIError(err)
	}

	out := &services.CheckoutSession{ID: session.ID}
	if session.Customer != nil {
		out.CustomerID = session.Customer.ID
	}
	if session.Subscription != nil {
		out.SubscriptionID = session.Subscription.ID
	}

	itemParams := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	itemParams.Context = ctx
	iter := p.sc.CheckoutSessions.ListLineItems(itemParams)
	for iter.Next() {
		item := iter.LineItem()
		if item.Price != nil {
			out.PriceIDs = append(out.PriceIDs, item.Price.ID)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.PaymentAPIError(err)
	}

	return out, nil
}

// PortalURL creates a billing self-service portal session
func (p *StripeProvider) PortalURL(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	session, err := p.sc.BillingPortalSessions.New(params)
	if err != nil {
		return "", errors.PaymentAPIError(err)
	}
	return session.URL, nil
}

func isMissing(err error) bool {
	var stripeErr *stripe.Error
	if stderrors.As(err, &stripeErr) {
		return stripeErr.Code == stripe.ErrorCodeResourceMissing ||
			stripeErr.HTTPStatusCode == http.StatusNotFound
	}
	return false
}
