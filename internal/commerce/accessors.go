package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"shopfront/internal/domain"
)

// ProductFilters map straight onto the list endpoint's query parameters.
type ProductFilters struct {
	SearchKeyword string
	CategoryName  string
	MinPrice      string
	MaxPrice      string
	MinRating     string
	Page          int
	Size          int
	SortBy        string
	SortDir       string
}

func (f ProductFilters) query() string {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("searchKeyword", f.SearchKeyword)
	set("categoryName", f.CategoryName)
	set("minPrice", f.MinPrice)
	set("maxPrice", f.MaxPrice)
	set("minRating", f.MinRating)
	q.Set("page", strconv.Itoa(f.Page))
	size := f.Size
	if size <= 0 {
		size = 10
	}
	q.Set("size", strconv.Itoa(size))
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	q.Set("sortBy", sortBy)
	sortDir := f.SortDir
	if sortDir == "" {
		sortDir = "asc"
	}
	q.Set("sortDir", sortDir)
	return q.Encode()
}

// Products lists the catalog. The endpoint answers either a page object or a
// bare array; both shapes normalize to a ProductPage.
func (c *Client) Products(ctx context.Context, f ProductFilters) (domain.ProductPage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/products?"+f.query(), nil, &raw); err != nil {
		return domain.ProductPage{}, err
	}
	return normalizeProducts(raw)
}

func normalizeProducts(raw json.RawMessage) (domain.ProductPage, error) {
	if len(raw) > 0 && raw[0] == '[' {
		var list []domain.Product
		if err := json.Unmarshal(raw, &list); err != nil {
			return domain.ProductPage{}, fmt.Errorf("decode products: %w", err)
		}
		return domain.ProductPage{Content: list, Number: 0, TotalPages: 1, First: true, Last: true}, nil
	}
	var page domain.ProductPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return domain.ProductPage{}, fmt.Errorf("decode product page: %w", err)
	}
	if page.TotalPages == 0 {
		page.TotalPages = 1
	}
	return page, nil
}

func (c *Client) Product(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &p)
	return p, err
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	err := c.do(ctx, http.MethodGet, "/categories", nil, &cats)
	return cats, err
}

// Cart fetches the current cart. Tolerates both {cartItems: [...]} and a bare
// item array.
func (c *Client) Cart(ctx context.Context, sess *domain.Session) ([]domain.CartItem, error) {
	var raw json.RawMessage
	if err := c.doAuthed(ctx, sess, http.MethodGet, "/cart", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) > 0 && raw[0] == '[' {
		var items []domain.CartItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode cart: %w", err)
		}
		return items, nil
	}
	var wrapped struct {
		CartItems []domain.CartItem `json:"cartItems"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return wrapped.CartItems, nil
}

func (c *Client) Orders(ctx context.Context, sess *domain.Session) ([]domain.Order, error) {
	var orders []domain.Order
	err := c.doAuthed(ctx, sess, http.MethodGet, "/orders", nil, &orders)
	return orders, err
}

func (c *Client) Order(ctx context.Context, sess *domain.Session, id int64) (domain.Order, error) {
	var o domain.Order
	err := c.doAuthed(ctx, sess, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &o)
	return o, err
}

func (c *Client) Addresses(ctx context.Context, sess *domain.Session) ([]domain.Address, error) {
	var addrs []domain.Address
	err := c.doAuthed(ctx, sess, http.MethodGet, "/addresses", nil, &addrs)
	return addrs, err
}

func (c *Client) Profile(ctx context.Context, sess *domain.Session) (domain.UserProfile, error) {
	var p domain.UserProfile
	err := c.doAuthed(ctx, sess, http.MethodGet, "/users/profile", nil, &p)
	return p, err
}
