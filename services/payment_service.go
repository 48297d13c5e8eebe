package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentGateway abstracts the external payment processor down to the single
// call the checkout flow needs before an order exists. Failure here aborts
// quote creation; stock is never touched at quote time, so there is nothing
// to compensate.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*models.PaymentIntent, error)
}

// StripeGateway implements PaymentGateway against Stripe payment intents.
type StripeGateway struct{}

// NewStripeGateway configures the Stripe client with the account secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &models.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

// toMinorUnits converts a major-unit amount to the processor's integer minor
// units (e.g. dollars to cents).
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// PaymentService serves payment transaction records after the checkout
// commit has written them. The only mutation is a status update driven by
// processor callbacks.
type PaymentService interface {
	GetTransaction(ctx context.Context, transactionID string) (*models.PaymentTransaction, *ServiceError)
	UpdateTransaction(ctx context.Context, transactionID string, status models.PaymentStatus, failureReason *string) (*models.PaymentTransaction, *ServiceError)
}

type paymentServiceImpl struct {
	repo   repository.PaymentRepository
	logger *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(repo repository.PaymentRepository, logger *zap.Logger) PaymentService {
	return &paymentServiceImpl{repo: repo, logger: logger}
}

func (s *paymentServiceImpl) GetTransaction(ctx context.Context, transactionID string) (*models.PaymentTransaction, *ServiceError) {
	txn, err := s.repo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Kind: KindNotFound, Message: "Payment transaction not found"}
		}
		s.logger.Error("Failed to fetch payment transaction",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to fetch payment transaction"}
	}
	return txn, nil
}

func (s *paymentServiceImpl) UpdateTransaction(ctx context.Context, transactionID string, status models.PaymentStatus, failureReason *string) (*models.PaymentTransaction, *ServiceError) {
	txn, err := s.repo.UpdateStatus(ctx, transactionID, status, failureReason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Kind: KindNotFound, Message: "Payment transaction not found"}
		}
		s.logger.Error("Failed to update payment transaction",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to update payment transaction"}
	}

	s.logger.Info("Payment transaction updated",
		zap.String("transaction_id", transactionID),
		zap.String("status", string(status)))
	return txn, nil
}
