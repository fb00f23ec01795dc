// Package route maps navigation tokens to pages. Parsing is a pure function
// from token string to a tagged route value; resolution is closed-world — a
// token nobody knows falls back to the home page, never an error.
package route

import (
	"strconv"
	"strings"
)

type Name string

const (
	Home           Name = "home"
	Products       Name = "products"
	ProductDetails Name = "product-details"
	Cart           Name = "cart"
	Login          Name = "login"
	Register       Name = "register"
	Checkout       Name = "checkout"
	OrderHistory   Name = "order-history"
	OrderDetails   Name = "order-details"
	UserDashboard  Name = "user-dashboard"
	AdminDashboard Name = "admin-dashboard"
	AdminProducts  Name = "admin-products"
	AdminOrders    Name = "admin-orders"
)

// Route is the parsed navigation target. ID is set only for the two detail
// variants, split off composite tokens like "order-details-42".
type Route struct {
	Name Name
	ID   int64
}

// Config describes how a page is served: which view renders it, whether a
// session or the admin role is required, and which host view a modal-backed
// route overlays.
type Config struct {
	View  string
	Auth  bool
	Admin bool
	// Modal routes render over a host page instead of owning a section.
	ModalHost Name
}

var Table = map[Name]Config{
	Home:           {View: "home"},
	Products:       {View: "products"},
	ProductDetails: {View: "products", ModalHost: Products},
	Cart:           {View: "cart", Auth: true},
	Login:          {View: "login"},
	Register:       {View: "register"},
	Checkout:       {View: "checkout", Auth: true},
	OrderHistory:   {View: "order_history", Auth: true},
	OrderDetails:   {View: "order_details", Auth: true},
	UserDashboard:  {View: "dashboard", Auth: true},
	AdminDashboard: {View: "admin_dashboard", Admin: true},
	AdminProducts:  {View: "admin_products", Admin: true},
	AdminOrders:    {View: "admin_orders", Admin: true},
}

// detail route bases that carry a trailing numeric entity id
var detailBases = []Name{ProductDetails, OrderDetails}

// Parse resolves a raw token. Composite "<base>-<id>" forms of the detail
// routes split off the trailing integer; anything unknown resolves to Home.
func Parse(token string) Route {
	token = strings.TrimSpace(token)
	if token == "" {
		return Route{Name: Home}
	}
	for _, base := range detailBases {
		prefix := string(base) + "-"
		if strings.HasPrefix(token, prefix) {
			id, err := strconv.ParseInt(token[len(prefix):], 10, 64)
			if err == nil && id > 0 {
				return Route{Name: base, ID: id}
			}
			return Route{Name: Home}
		}
	}
	name := Name(token)
	if _, ok := Table[name]; !ok {
		return Route{Name: Home}
	}
	// Bare detail tokens without an id have nothing to show; treat them as
	// unknown.
	if name == ProductDetails || name == OrderDetails {
		return Route{Name: Home}
	}
	return Route{Name: name}
}

// Lookup returns the page config, substituting Home for anything absent.
func Lookup(n Name) Config {
	if cfg, ok := Table[n]; ok {
		return cfg
	}
	return Table[Home]
}
