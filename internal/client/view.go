package client

import (
	"context"
	"errors"
	"time"

	"storefront/internal/models"
	"storefront/internal/service"
)

// View identifies which screen is visible. Views are mutually exclusive;
// the controller holds exactly one at a time and entering a view leaves the
// previous one. There is no back stack.
type View string

const (
	ViewHome          View = "home"
	ViewProducts      View = "products"
	ViewProductDetail View = "productDetail"
	ViewLogin         View = "login"
	ViewRegister      View = "register"
	ViewOrders        View = "orders"
)

// OrderSummary is one logical order regrouped from flat history rows.
type OrderSummary struct {
	ID          int64
	TotalAmount float64
	Status      string
	CreatedAt   time.Time
	Items       []OrderLine
}

// OrderLine is one item of a regrouped order.
type OrderLine struct {
	ProductName string
	Quantity    int
	Price       float64
}

// GroupOrderRows regroups flat order-history rows (several rows per order)
// into one summary per order, preserving row order.
func GroupOrderRows(rows []models.OrderRow) []OrderSummary {
	var out []OrderSummary
	index := make(map[int64]int)

	for _, row := range rows {
		i, ok := index[row.ID]
		if !ok {
			out = append(out, OrderSummary{
				ID:          row.ID,
				TotalAmount: row.TotalAmount,
				Status:      row.Status,
				CreatedAt:   row.CreatedAt,
			})
			i = len(out) - 1
			index[row.ID] = i
		}
		out[i].Items = append(out[i].Items, OrderLine{
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Price:       row.Price,
		})
	}
	return out
}

// Controller drives the view state machine and orchestrates fetches into
// view data. Rendering is left to the caller: after a transition the caller
// reads Current plus the matching data accessor.
type Controller struct {
	session *Session
	api     *Client

	view     View
	products []models.Product
	product  *models.Product
	orders   []OrderSummary
}

// NewController starts at the home view.
func NewController(session *Session, api *Client) *Controller {
	return &Controller{session: session, api: api, view: ViewHome}
}

// Current returns the visible view.
func (vc *Controller) Current() View {
	return vc.view
}

// Products returns the catalog loaded by ShowProducts.
func (vc *Controller) Products() []models.Product {
	return vc.products
}

// Product returns the product loaded by ShowProductDetail.
func (vc *Controller) Product() *models.Product {
	return vc.product
}

// Orders returns the regrouped history loaded by ShowOrders.
func (vc *Controller) Orders() []OrderSummary {
	return vc.orders
}

// ShowHome transitions to the home view.
func (vc *Controller) ShowHome() {
	vc.view = ViewHome
}

// ShowLogin transitions to the login view.
func (vc *Controller) ShowLogin() {
	vc.view = ViewLogin
}

// ShowRegister transitions to the register view.
func (vc *Controller) ShowRegister() {
	vc.view = ViewRegister
}

// ShowProducts transitions to the catalog view, loading the catalog on
// first entry. A load failure leaves the current view in place.
func (vc *Controller) ShowProducts(ctx context.Context) error {
	if vc.products == nil {
		products, err := vc.api.ListProducts(ctx)
		if err != nil {
			return err
		}
		vc.products = products
	}
	vc.view = ViewProducts
	return nil
}

// ShowProductDetail transitions to a product's detail view.
func (vc *Controller) ShowProductDetail(ctx context.Context, id int64) error {
	product, err := vc.api.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	vc.product = product
	vc.view = ViewProductDetail
	return nil
}

// ShowOrders transitions to the order history view. Without a cached
// identity the controller redirects to login instead.
func (vc *Controller) ShowOrders(ctx context.Context) error {
	if !vc.session.LoggedIn() {
		vc.view = ViewLogin
		return ErrNotLoggedIn
	}

	rows, err := vc.api.ListOrders(ctx)
	if err != nil {
		return err
	}
	vc.orders = GroupOrderRows(rows)
	vc.view = ViewOrders
	return nil
}

// Checkout runs the session checkout. Success lands on the order history
// view; a missing login redirects to the login view; any other failure
// keeps the current view and the cart.
func (vc *Controller) Checkout(ctx context.Context, paymentMethod string, details service.PaymentDetails) (*CheckoutResult, error) {
	result, err := vc.session.Checkout(ctx, paymentMethod, details)
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			vc.view = ViewLogin
		}
		return nil, err
	}

	if err := vc.ShowOrders(ctx); err != nil {
		return result, err
	}
	return result, nil
}
