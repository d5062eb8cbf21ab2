package stripe

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
)

type Event = stripe.Event

// Metadata keys round-tripped through Stripe and returned verbatim in
// webhook events. They are the only link between a checkout session and
// local state.
const (
	MetadataOrderID = "orderId"
	MetadataUserID  = "userId"
)

type LineItem struct {
	Name       string
	UnitAmount int64 // minor units (cents)
	Quantity   int64
}

type CheckoutSessionRequest struct {
	Currency   string
	LineItems  []LineItem
	OrderID    string
	UserID     string
	SuccessURL string
	CancelURL  string
}

// defines the methods any payment client must implement.
type Client interface {
	CreateCheckoutSession(req *CheckoutSessionRequest) (*stripe.CheckoutSession, error)
	VerifyWebhookSignature(payload []byte, signature string) (Event, error)
}

// stripeClient is the implementation of the Client interface.
type stripeClient struct {
	webhookSecret string
}

func NewStripeClient(apiKey string, webhookSecret string) Client {
	stripe.Key = apiKey

	return &stripeClient{webhookSecret: webhookSecret}
}

// CreateCheckoutSession implements Client.
func (s *stripeClient) CreateCheckoutSession(req *CheckoutSessionRequest) (*stripe.CheckoutSession, error) {

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))

	for _, item := range req.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	params.AddMetadata(MetadataOrderID, req.OrderID)
	params.AddMetadata(MetadataUserID, req.UserID)

	return session.New(params)
}

// VerifyWebhookSignature implements Client. The payload must be the exact
// raw request bytes; verification is byte-exact.
func (s *stripeClient) VerifyWebhookSignature(payload []byte, signature string) (Event, error) {
	if s.webhookSecret == "" {
		return Event{}, errors.New("webhook secret not configured")
	}

	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}

// CheckoutSessionFromEvent decodes the session object carried by a
// checkout.session.* event.
func CheckoutSessionFromEvent(event Event) (*stripe.CheckoutSession, error) {
	var checkoutSession stripe.CheckoutSession

	if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session from event: %w", err)
	}

	return &checkoutSession, nil
}
