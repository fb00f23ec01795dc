package commerce

import (
	"context"
	"fmt"
	"net/http"

	"shopfront/internal/domain"
)

type LoginResult struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
}

// AddToCart returns the affected line item so notices can name the product.
func (c *Client) AddToCart(ctx context.Context, sess *domain.Session, productID int64, quantity int) (domain.CartItem, error) {
	var out domain.CartItem
	err := c.doAuthed(ctx, sess, http.MethodPost, "/cart/add", map[string]any{
		"productId": productID,
		"quantity":  quantity,
	}, &out)
	return out, err
}

func (c *Client) UpdateCartItem(ctx context.Context, sess *domain.Session, productID int64, quantity int) (domain.CartItem, error) {
	var out domain.CartItem
	err := c.doAuthed(ctx, sess, http.MethodPut, "/cart/update", map[string]any{
		"productId": productID,
		"quantity":  quantity,
	}, &out)
	return out, err
}

func (c *Client) RemoveFromCart(ctx context.Context, sess *domain.Session, productID int64) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.doAuthed(ctx, sess, http.MethodDelete, fmt.Sprintf("/cart/remove/%d", productID), nil, &out)
	return out.Message, err
}

func (c *Client) AddAddress(ctx context.Context, sess *domain.Session, a domain.Address) error {
	return c.doAuthed(ctx, sess, http.MethodPost, "/addresses", a, nil)
}

// CreatePaymentIntent is step one of checkout; ConfirmOrder is step two.
// There is no client-side compensation between them: a created intent whose
// confirmation fails surfaces as an error and nothing more.
func (c *Client) CreatePaymentIntent(ctx context.Context, sess *domain.Session, addressID int64) (string, error) {
	var out struct {
		PaymentIntentID string `json:"paymentIntentId"`
	}
	err := c.doAuthed(ctx, sess, http.MethodPost, "/checkout/create-payment-intent", map[string]any{
		"addressId": addressID,
	}, &out)
	return out.PaymentIntentID, err
}

func (c *Client) ConfirmOrder(ctx context.Context, sess *domain.Session, paymentIntentID string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.doAuthed(ctx, sess, http.MethodPost, "/checkout/confirm-order", map[string]any{
		"paymentIntentId": paymentIntentID,
	}, &out)
	return out.Message, err
}

type ProfileUpdate struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, sess *domain.Session, upd ProfileUpdate) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.doAuthed(ctx, sess, http.MethodPut, "/users/profile", upd, &out)
	return out.Message, err
}

type ProductInput struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"imageUrl"`
	StockQuantity int     `json:"stockQuantity"`
	CategoryID    int64   `json:"categoryId"`
}

func (c *Client) AdminCreateProduct(ctx context.Context, sess *domain.Session, in ProductInput) error {
	return c.doAuthed(ctx, sess, http.MethodPost, "/admin/products", in, nil)
}

func (c *Client) AdminUpdateProduct(ctx context.Context, sess *domain.Session, id int64, in ProductInput) error {
	return c.doAuthed(ctx, sess, http.MethodPut, fmt.Sprintf("/admin/products/%d", id), in, nil)
}

func (c *Client) AdminDeleteProduct(ctx context.Context, sess *domain.Session, id int64) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.doAuthed(ctx, sess, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), nil, &out)
	return out.Message, err
}

func (c *Client) AdminUpdateOrderStatus(ctx context.Context, sess *domain.Session, orderID int64, status string) error {
	return c.doAuthed(ctx, sess, http.MethodPut, fmt.Sprintf("/admin/orders/%d/status", orderID), map[string]string{
		"status": status,
	}, nil)
}
