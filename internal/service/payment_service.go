package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService processes simulated payments. No real provider is called;
// a configurable success rate stands in for provider outcomes.
type PaymentService struct {
	store       *store.Store
	publisher   *broker.EventPublisher
	logger      *zap.Logger
	successRate float64
}

// NewPaymentService creates a new payment service. publisher may be nil.
func NewPaymentService(store *store.Store, publisher *broker.EventPublisher, successRate float64) *PaymentService {
	return &PaymentService{
		store:       store,
		publisher:   publisher,
		logger:      util.GetLogger(),
		successRate: successRate,
	}
}

// ProcessPaymentRequest is the payment confirmation payload sent after order
// creation.
type ProcessPaymentRequest struct {
	OrderID        int64          `json:"orderId"`
	PaymentMethod  string         `json:"paymentMethod"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
	TotalAmount    float64        `json:"totalAmount"`
}

// PaymentDetails carries the simulated card form fields.
type PaymentDetails struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
	CardName   string `json:"cardName"`
}

// ProcessPaymentResponse reports the simulated provider outcome.
type ProcessPaymentResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	Message       string `json:"message,omitempty"`
}

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

// validateCard enforces the card form rules for credit-card payments.
func validateCard(d PaymentDetails) error {
	if d.CardNumber == "" || d.ExpiryDate == "" || d.CVV == "" || d.CardName == "" {
		return fmt.Errorf("%w: all card fields are required", ErrBadPayment)
	}

	digits := strings.ReplaceAll(d.CardNumber, " ", "")
	if len(digits) < 13 {
		return fmt.Errorf("%w: card number too short", ErrBadPayment)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: card number must be numeric", ErrBadPayment)
		}
	}

	if !expiryPattern.MatchString(d.ExpiryDate) {
		return fmt.Errorf("%w: expiry must be MM/YY", ErrBadPayment)
	}
	if len(d.CVV) < 3 {
		return fmt.Errorf("%w: CVV too short", ErrBadPayment)
	}
	return nil
}

// ProcessPayment validates the request, records a payment for the caller's
// order and simulates the provider outcome.
func (s *PaymentService) ProcessPayment(ctx context.Context, userID int64, req *ProcessPaymentRequest) (*ProcessPaymentResponse, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.ProcessPayment")
	defer span.End()

	util.PaymentAttemptsTotal.Inc()
	start := time.Now()
	defer func() {
		util.PaymentProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	if req.OrderID <= 0 {
		return nil, fmt.Errorf("%w: order id required", ErrBadPayment)
	}
	if req.PaymentMethod == "credit-card" {
		if err := validateCard(req.PaymentDetails); err != nil {
			return nil, err
		}
	}

	order, err := s.store.GetOrderForUser(ctx, req.OrderID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}

	payment := &models.Payment{
		OrderID: order.ID,
		Status:  models.PaymentStatusPending,
		Amount:  order.TotalAmount,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	success := rand.Float64() < s.successRate

	if !success {
		s.logger.Warn("Payment declined", zap.Int64("order_id", order.ID))

		if err := s.store.UpdatePaymentStatus(ctx, payment.ID, models.PaymentStatusFailed, ""); err != nil {
			return nil, fmt.Errorf("failed to update payment status: %w", err)
		}
		util.PaymentFailedTotal.Inc()

		if s.publisher != nil {
			event := &models.PaymentFailedEvent{
				BaseEvent: models.BaseEvent{
					EventID:   uuid.New().String(),
					EventType: models.EventTypePaymentFailed,
					Timestamp: time.Now(),
				},
				OrderID:   order.ID,
				PaymentID: payment.ID,
				Reason:    "simulated_decline",
			}
			if err := s.publisher.PublishPaymentFailed(ctx, event); err != nil {
				s.logger.Error("Failed to publish PaymentFailed event", zap.Error(err))
			}
		}

		return &ProcessPaymentResponse{
			Success: false,
			Message: "Payment failed. Please try again.",
		}, nil
	}

	providerTxID := fmt.Sprintf("TXN-%s", uuid.New().String()[:8])

	if err := s.store.UpdatePaymentStatus(ctx, payment.ID, models.PaymentStatusSuccess, providerTxID); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	util.PaymentSuccessTotal.Inc()

	s.logger.Info("Payment succeeded",
		zap.Int64("order_id", order.ID),
		zap.String("tx_id", providerTxID))

	if s.publisher != nil {
		event := &models.PaymentSucceededEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentSucceeded,
				Timestamp: time.Now(),
			},
			OrderID:   order.ID,
			PaymentID: payment.ID,
			Amount:    payment.Amount,
			TxID:      providerTxID,
		}
		if err := s.publisher.PublishPaymentSucceeded(ctx, event); err != nil {
			s.logger.Error("Failed to publish PaymentSucceeded event", zap.Error(err))
		}
	}

	return &ProcessPaymentResponse{Success: true, TransactionID: providerTxID}, nil
}
