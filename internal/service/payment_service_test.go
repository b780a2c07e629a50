package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validCard = PaymentDetails{
	CardNumber: "4242 4242 4242 4242",
	ExpiryDate: "12/30",
	CVV:        "123",
	CardName:   "Alice Example",
}

func TestValidateCard(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(d *PaymentDetails)
		wantErr bool
	}{
		{"valid", func(d *PaymentDetails) {}, false},
		{"spaces stripped", func(d *PaymentDetails) { d.CardNumber = "4242 4242 4242 42" }, false},
		{"missing name", func(d *PaymentDetails) { d.CardName = "" }, true},
		{"missing cvv", func(d *PaymentDetails) { d.CVV = "" }, true},
		{"short number", func(d *PaymentDetails) { d.CardNumber = "424242424242" }, true},
		{"letters in number", func(d *PaymentDetails) { d.CardNumber = "4242abcd42424242" }, true},
		{"bad expiry format", func(d *PaymentDetails) { d.ExpiryDate = "2030-12" }, true},
		{"short cvv", func(d *PaymentDetails) { d.CVV = "12" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validCard
			tc.mutate(&d)
			err := validateCard(d)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadPayment)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessPaymentRejectsBadCard(t *testing.T) {
	s, _ := newMockStore(t)
	svc := NewPaymentService(s, nil, 1.0)

	_, err := svc.ProcessPayment(context.Background(), 7, &ProcessPaymentRequest{
		OrderID:        42,
		PaymentMethod:  "credit-card",
		PaymentDetails: PaymentDetails{CardNumber: "123"},
	})
	assert.ErrorIs(t, err, ErrBadPayment)
}

func TestProcessPaymentRejectsMissingOrderID(t *testing.T) {
	s, _ := newMockStore(t)
	svc := NewPaymentService(s, nil, 1.0)

	_, err := svc.ProcessPayment(context.Background(), 7, &ProcessPaymentRequest{
		PaymentMethod:  "credit-card",
		PaymentDetails: validCard,
	})
	assert.ErrorIs(t, err, ErrBadPayment)
}

func TestProcessPaymentUnknownOrder(t *testing.T) {
	s, mock := newMockStore(t)
	svc := NewPaymentService(s, nil, 1.0)

	mock.ExpectQuery(`SELECT \* FROM orders WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at"}))

	_, err := svc.ProcessPayment(context.Background(), 7, &ProcessPaymentRequest{
		OrderID:        42,
		PaymentMethod:  "credit-card",
		PaymentDetails: validCard,
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestProcessPaymentSuccess(t *testing.T) {
	s, mock := newMockStore(t)
	svc := NewPaymentService(s, nil, 1.0)

	mock.ExpectQuery(`SELECT \* FROM orders WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at"}).
			AddRow(42, 7, 220.0, models.OrderStatusPending, time.Now()))

	mock.ExpectQuery(`INSERT INTO payments`).
		WithArgs(int64(42), models.PaymentStatusPending, "", 220.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))

	mock.ExpectExec(`UPDATE payments SET status = \$1, provider_tx_id = \$2 WHERE id = \$3`).
		WithArgs(models.PaymentStatusSuccess, sqlmock.AnyArg(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.ProcessPayment(context.Background(), 7, &ProcessPaymentRequest{
		OrderID:        42,
		PaymentMethod:  "credit-card",
		PaymentDetails: validCard,
		TotalAmount:    220.0,
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Contains(t, resp.TransactionID, "TXN-")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A declined payment is a business outcome, not an error.
func TestProcessPaymentDeclined(t *testing.T) {
	s, mock := newMockStore(t)
	svc := NewPaymentService(s, nil, 0.0)

	mock.ExpectQuery(`SELECT \* FROM orders WHERE id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at"}).
			AddRow(42, 7, 220.0, models.OrderStatusPending, time.Now()))

	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))

	mock.ExpectExec(`UPDATE payments SET status = \$1, provider_tx_id = \$2 WHERE id = \$3`).
		WithArgs(models.PaymentStatusFailed, "", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.ProcessPayment(context.Background(), 7, &ProcessPaymentRequest{
		OrderID:        42,
		PaymentMethod:  "credit-card",
		PaymentDetails: validCard,
	})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, "Payment failed. Please try again.", resp.Message)
}

// Non-card methods skip the card form checks.
func TestProcessPaymentNonCardMethodSkipsCardValidation(t *testing.T) {
	s, mock := newMockStore(t)
	svc := NewPaymentService(s, nil, 1.0)

	mock.ExpectQuery(`SELECT \* FROM orders WHERE id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at"}).
			AddRow(42, 7, 220.0, models.OrderStatusPending, time.Now()))

	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))

	mock.ExpectExec(`UPDATE payments SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.ProcessPayment(context.Background(), 7, &ProcessPaymentRequest{
		OrderID:       42,
		PaymentMethod: "paypal",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}
