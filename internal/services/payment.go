package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefrontlabs/storefront-api/internal/config"
	"github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
	"github.com/storefrontlabs/storefront-api/pkg/sendgrid"
	"github.com/storefrontlabs/storefront-api/pkg/stripe"
	stripelib "github.com/stripe/stripe-go/v81"
)

type PaymentService interface {
	// InitiateCheckout resolves an order for the checkout (reusing the
	// user's existing PENDING order, creating one from the cart only when
	// none exists) and opens a processor checkout session for it.
	InitiateCheckout(ctx context.Context, userID uuid.UUID) (*models.CheckoutResponse, error)
	// ProcessWebhook verifies the signed event against the raw payload
	// bytes and reconciles local order state from it.
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error)
}

type paymentService struct {
	orders       OrderService
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	stripeClient stripe.Client
	email        sendgrid.EmailService
	cfg          *config.Config
}

func NewPaymentService(
	orders OrderService,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	stripeClient stripe.Client,
	email sendgrid.EmailService,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		orders:       orders,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		stripeClient: stripeClient,
		email:        email,
		cfg:          cfg,
	}
}

var minorUnitFactor = decimal.NewFromInt(100)

// minorUnits converts a decimal price to the processor's integer
// representation, rounding half up on price * 100.
func minorUnits(price decimal.Decimal) int64 {
	return price.Mul(minorUnitFactor).Round(0).IntPart()
}

// InitiateCheckout implements PaymentService.
func (s *paymentService) InitiateCheckout(ctx context.Context, userID uuid.UUID) (*models.CheckoutResponse, error) {

	// Create-or-reuse: a second checkout attempt before payment completes
	// must not mint a duplicate order.
	order, err := s.orderRepo.GetPendingOrderByUser(ctx, userID)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, errors.DatabaseError("Failed to look up pending order").WithError(err)
		}

		order, err = s.orders.BuildOrderFromCart(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	lineItems := make([]stripe.LineItem, 0, len(order.Items))

	for _, item := range order.Items {

		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, errors.NotFoundError("Product not found: " + item.ProductID.String())
			}

			return nil, errors.DatabaseError("Failed to read product").WithError(err)
		}

		lineItems = append(lineItems, stripe.LineItem{
			Name:       product.Name,
			UnitAmount: minorUnits(item.Price),
			Quantity:   item.Quantity,
		})
	}

	session, err := s.stripeClient.CreateCheckoutSession(&stripe.CheckoutSessionRequest{
		Currency:   s.cfg.Stripe.Currency,
		LineItems:  lineItems,
		OrderID:    order.ID.String(),
		UserID:     userID.String(),
		SuccessURL: s.cfg.Frontend.SuccessURL(),
		CancelURL:  s.cfg.Frontend.CancelURL(),
	})
	if err != nil {
		// The order stays PENDING and is reused on the next attempt.
		return nil, errors.ThirdPartyError("Failed to create checkout session").WithError(err)
	}

	return &models.CheckoutResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// ProcessWebhook implements PaymentService.
func (s *paymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {

	// Fails closed: nothing is mutated unless the signature checks out
	// against the exact raw bytes.
	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return stripe.Event{}, errors.BadRequestError("Webhook signature verification failed").WithError(err)
	}

	switch event.Type {
	case stripelib.EventTypeCheckoutSessionCompleted:
		return event, s.reconcileCompletedSession(ctx, event)
	default:
		// Unrecognized event types are acknowledged so the processor stops
		// redelivering them.
		slog.Info("Ignoring unhandled webhook event", slog.String("type", string(event.Type)))
		return event, nil
	}
}

func (s *paymentService) reconcileCompletedSession(ctx context.Context, event stripe.Event) error {

	session, err := stripe.CheckoutSessionFromEvent(event)
	if err != nil {
		return errors.BadRequestError("Malformed checkout session payload").WithError(err)
	}

	orderIDValue := session.Metadata[stripe.MetadataOrderID]
	userIDValue := session.Metadata[stripe.MetadataUserID]

	// A session without correlation metadata was created outside the
	// checkout flow; acknowledging it would hide a real problem.
	if orderIDValue == "" || userIDValue == "" {
		return errors.BadRequestError("Missing correlation metadata in checkout session")
	}

	orderID, err := uuid.Parse(orderIDValue)
	if err != nil {
		return errors.BadRequestError("Invalid order ID in checkout session metadata").WithError(err)
	}

	userID, err := uuid.Parse(userIDValue)
	if err != nil {
		return errors.BadRequestError("Invalid user ID in checkout session metadata").WithError(err)
	}

	if err := s.orderRepo.MarkOrderPaidAndClearCart(ctx, orderID, userID); err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Order not found: " + orderID.String())
		}

		// 5xx so the processor redelivers; reconciliation is idempotent.
		return errors.DatabaseError("Failed to reconcile order").WithError(err)
	}

	s.sendConfirmationEmail(ctx, orderID, userID)

	return nil
}

// sendConfirmationEmail is best-effort; a mail failure never fails the
// webhook, which has already committed the state transition.
func (s *paymentService) sendConfirmationEmail(ctx context.Context, orderID, userID uuid.UUID) {

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		slog.Warn("Skipping confirmation email, user lookup failed",
			slog.String("userId", userID.String()),
			slog.String("error", err.Error()))
		return
	}

	subject := "Your order is confirmed"
	body := fmt.Sprintf("Hi %s, your payment for order %s was received. Thank you for shopping with us!", user.Name, orderID)

	if err := s.email.SendEmail(user.Email, user.Name, subject, body, ""); err != nil {
		slog.Warn("Failed to send confirmation email",
			slog.String("orderId", orderID.String()),
			slog.String("error", err.Error()))
	}
}
