package worker

import (
	"context"
	"log"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// ConfirmationWorker consumes payment events and moves orders out of the
// pending state once their payment clears. Orders whose payment fails stay
// pending; the customer may retry.
type ConfirmationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	logger       *zap.Logger
}

// NewConfirmationWorker creates a new confirmation worker
func NewConfirmationWorker(consumer *broker.Consumer, st *store.Store) *ConfirmationWorker {
	w := &ConfirmationWorker{
		consumer: consumer,
		store:    st,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnPaymentSucceeded(w.handlePaymentSucceeded)
	eventHandler.OnPaymentFailed(w.handlePaymentFailed)
	w.eventHandler = eventHandler

	return w
}

func (w *ConfirmationWorker) handlePaymentSucceeded(ctx context.Context, event *models.PaymentSucceededEvent) error {
	w.logger.Info("Confirming paid order",
		zap.Int64("order_id", event.OrderID),
		zap.String("tx_id", event.TxID))

	if err := w.store.UpdateOrderStatus(ctx, event.OrderID, models.OrderStatusPaid); err != nil {
		return err
	}

	util.OrdersConfirmedTotal.Inc()
	return nil
}

func (w *ConfirmationWorker) handlePaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	w.logger.Warn("Payment failed for order",
		zap.Int64("order_id", event.OrderID),
		zap.String("reason", event.Reason))
	return nil
}

// Start starts the worker
func (w *ConfirmationWorker) Start(ctx context.Context) error {
	log.Println("Starting confirmation worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ConfirmationWorker) Stop() error {
	log.Println("Stopping confirmation worker...")
	return w.consumer.Close()
}
