package client

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/service"
)

var (
	ErrNotLoggedIn   = errors.New("please login to checkout")
	ErrEmptyCart     = errors.New("your cart is empty")
	ErrPaymentFailed = errors.New("payment failed")
)

// Session holds the client's authenticated identity and cart, both backed
// by durable storage. Identity and cart persist independently; logout
// discards the credential but leaves the cart alone.
type Session struct {
	api     *Client
	storage *Storage
	cart    *Cart
	user    *models.PublicUser
	token   string
}

// NewSession restores any persisted identity and cart.
func NewSession(api *Client, storage *Storage) (*Session, error) {
	cart, err := NewCart(storage)
	if err != nil {
		return nil, err
	}

	s := &Session{api: api, storage: storage, cart: cart}

	var token string
	if err := storage.Get(KeyToken, &token); err == nil && token != "" {
		var user models.PublicUser
		if err := storage.Get(KeyUser, &user); err == nil {
			s.token = token
			s.user = &user
			api.SetToken(token)
		}
	}

	return s, nil
}

// Cart returns the session's cart.
func (s *Session) Cart() *Cart {
	return s.cart
}

// CurrentUser returns the cached identity, or nil when logged out.
func (s *Session) CurrentUser() *models.PublicUser {
	return s.user
}

// LoggedIn reports whether an identity is cached.
func (s *Session) LoggedIn() bool {
	return s.user != nil
}

func (s *Session) storeCredential(resp *AuthResponse) error {
	if err := s.storage.Set(KeyToken, resp.Token); err != nil {
		return err
	}
	if err := s.storage.Set(KeyUser, resp.User); err != nil {
		return err
	}
	s.token = resp.Token
	s.user = &resp.User
	s.api.SetToken(resp.Token)
	return nil
}

// Register creates an account and caches the returned credential.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	resp, err := s.api.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	return s.storeCredential(resp)
}

// Login authenticates and caches the returned credential.
func (s *Session) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.storeCredential(resp)
}

// Logout discards the cached credential. Tokens are stateless, so this is a
// purely client-side operation; the cart is untouched.
func (s *Session) Logout() error {
	if err := s.storage.Delete(KeyToken); err != nil {
		return err
	}
	if err := s.storage.Delete(KeyUser); err != nil {
		return err
	}
	s.token = ""
	s.user = nil
	s.api.SetToken("")
	return nil
}

// CheckoutResult reports a completed checkout.
type CheckoutResult struct {
	OrderID       int64
	TransactionID string
}

// Checkout serializes the cart into an order, runs the payment confirmation
// step, and clears the cart only when both succeed. On any failure the cart
// is left untouched.
func (s *Session) Checkout(ctx context.Context, paymentMethod string, details service.PaymentDetails) (*CheckoutResult, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	lines := s.cart.Lines()
	items := make([]service.OrderItemRequest, 0, len(lines))
	for _, line := range lines {
		items = append(items, service.OrderItemRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	orderResp, err := s.api.CreateOrder(ctx, &service.CreateOrderRequest{
		Items:         items,
		TotalAmount:   s.cart.Subtotal(),
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		return nil, err
	}

	payResp, err := s.api.ProcessPayment(ctx, &service.ProcessPaymentRequest{
		OrderID:        orderResp.OrderID,
		PaymentMethod:  paymentMethod,
		PaymentDetails: details,
		TotalAmount:    s.cart.Subtotal(),
	})
	if err != nil {
		return nil, err
	}
	if !payResp.Success {
		if payResp.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, payResp.Message)
		}
		return nil, ErrPaymentFailed
	}

	if err := s.cart.Clear(); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		OrderID:       orderResp.OrderID,
		TransactionID: payResp.TransactionID,
	}, nil
}
