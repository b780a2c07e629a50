package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order creation and history.
type OrderService struct {
	store     *store.Store
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service. publisher may be nil.
func NewOrderService(store *store.Store, publisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateOrderRequest represents a checkout payload.
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required"`
	TotalAmount   float64            `json:"totalAmount"`
	PaymentMethod string             `json:"paymentMethod"`
}

// OrderItemRequest represents one cart line in a checkout payload. Price is
// the client's snapshot and is accepted for shape compatibility only; unit
// prices are re-read from the catalog at creation time.
type OrderItemRequest struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateOrderResponse is returned after a successful order creation.
type CreateOrderResponse struct {
	OrderID int64  `json:"orderId"`
	Message string `json:"message"`
}

// CreateOrder validates the items, re-derives unit prices and the total from
// the catalog, and stores the order with its line items in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if len(req.Items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_items").Inc()
		return nil, ErrEmptyOrder
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 || item.Quantity < 1 {
			util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
			return nil, ErrBadItem
		}
	}

	products, err := s.lookupProducts(ctx, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	var total float64
	for _, item := range req.Items {
		product := products[item.ProductID]
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	if math.Abs(total-req.TotalAmount) > 0.005 {
		s.logger.Warn("Client total disagrees with catalog total",
			zap.Int64("user_id", userID),
			zap.Float64("client_total", req.TotalAmount),
			zap.Float64("catalog_total", total))
	}

	order := &models.Order{
		UserID:      userID,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
	}

	if err := s.store.CreateOrder(ctx, order, items); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Float64("total", total))

	if s.publisher != nil {
		eventItems := make([]models.OrderItemData, 0, len(items))
		for _, item := range items {
			eventItems = append(eventItems, models.OrderItemData{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Price,
			})
		}

		event := &models.OrderCreatedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderCreated,
				Timestamp: time.Now(),
			},
			OrderID:     order.ID,
			UserID:      userID,
			TotalAmount: total,
			Items:       eventItems,
		}
		if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
		}
	}

	return &CreateOrderResponse{OrderID: order.ID, Message: "Order created successfully"}, nil
}

// lookupProducts fetches every referenced product and fails when any is
// unknown.
func (s *OrderService) lookupProducts(ctx context.Context, items []OrderItemRequest) (map[int64]*models.Product, error) {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up products: %w", err)
	}
	if len(products) != len(ids) {
		return nil, ErrBadItem
	}

	productMap := make(map[int64]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}
	return productMap, nil
}

// ListOrders returns the user's order history as flat joined rows, newest
// first. A user with no orders gets an empty slice.
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]models.OrderRow, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	rows, err := s.store.ListUserOrderRows(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if rows == nil {
		rows = []models.OrderRow{}
	}
	return rows, nil
}
