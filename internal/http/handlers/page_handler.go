package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/route"
	"shopfront/internal/state"
)

// PageHandler is the page loader: it resolves a navigation token to a page,
// performs that page's fetches, commits them to the session snapshot and
// renders the view. Loads race freely; the snapshot sequence guard makes the
// most recent navigation the only one whose data sticks.
type PageHandler struct {
	API   *commerce.Client
	State *state.Store
}

// Load serves GET / and GET /:token.
func (h *PageHandler) Load(c *fiber.Ctx) error {
	token := c.Params("token")
	r := route.Parse(token)
	cfg := route.Lookup(r.Name)
	c.Locals("route", string(r.Name))

	sid := ensureSID(c)
	sess := currentSession(c)

	if cfg.Admin && !sess.IsAdmin() {
		applog.Security(c, "access.denied.admin", map[string]any{"token": token})
		return redirectWith(c, "/", "danger", "Access Denied: You do not have administrator privileges.")
	}

	// The order detail page fetches its order before anything renders; a
	// failed fetch never shows the detail view.
	if r.Name == route.OrderDetails {
		return h.loadOrderDetails(c, sid, sess, r.ID)
	}

	seq := h.State.Begin(sid)

	switch r.Name {
	case route.Products:
		return h.loadProducts(c, sid, seq)
	case route.ProductDetails:
		return h.loadProductDetails(c, sid, seq, r.ID)
	case route.Cart:
		return h.loadCart(c, sid, sess, seq)
	case route.Checkout:
		return h.loadCheckout(c, sid, sess, seq)
	case route.OrderHistory:
		return h.loadOrderHistory(c, sid, sess, seq)
	case route.UserDashboard:
		return h.loadDashboard(c, sess)
	case route.AdminProducts:
		return h.loadAdminProducts(c, sid, seq)
	case route.AdminOrders:
		return h.loadAdminOrders(c, sid, sess, seq)
	default:
		// home, login, register, admin-dashboard: static views
		return render(c, cfg.View, nil)
	}
}

func filtersFromQuery(c *fiber.Ctx) commerce.ProductFilters {
	return commerce.ProductFilters{
		SearchKeyword: c.Query("searchKeyword"),
		CategoryName:  c.Query("categoryName"),
		MinPrice:      c.Query("minPrice"),
		MaxPrice:      c.Query("maxPrice"),
		MinRating:     c.Query("minRating"),
		Page:          c.QueryInt("page", 0),
		Size:          c.QueryInt("size", 10),
		SortBy:        c.Query("sortBy"),
		SortDir:       c.Query("sortDir"),
	}
}

func (h *PageHandler) loadProducts(c *fiber.Ctx, sid string, seq uint64) error {
	filters := filtersFromQuery(c)
	page, err := h.API.Products(c.Context(), filters)
	if err != nil {
		applog.Error(c, "products.load.fail", err, nil)
		return render(c, "products", fiber.Map{
			"Error": "Failed to load products. Please try again later.",
		})
	}
	cats, err := h.API.Categories(c.Context())
	if err != nil {
		applog.Error(c, "categories.load.fail", err, nil)
	}
	h.State.Commit(sid, seq, func(s *state.Snapshot) {
		s.Products = page.Content
		s.Categories = cats
	})
	return render(c, "products", fiber.Map{
		"Products":   page.Content,
		"Categories": cats,
		"Filters":    filters,
		"PageNum":    page.Number + 1,
		"TotalPages": page.TotalPages,
		"HasPrev":    !page.First,
		"HasNext":    !page.Last,
		"PrevPage":   page.Number - 1,
		"NextPage":   page.Number + 1,
	})
}

// loadProductDetails renders the products page with the detail modal open.
// The last fetched product list is consulted first, like the storefront
// always did; a direct link falls back to a by-id fetch.
func (h *PageHandler) loadProductDetails(c *fiber.Ctx, sid string, seq uint64, id int64) error {
	var product *domain.Product
	known := h.State.Peek(sid).Products
	for i := range known {
		if known[i].ID == id {
			product = &known[i]
			break
		}
	}
	if product == nil {
		p, err := h.API.Product(c.Context(), id)
		if err != nil {
			applog.Error(c, "product.load.fail", err, map[string]any{"product_id": id})
			return redirectWith(c, "/products", "danger",
				commerce.UserMessage(err, "Failed to load product details."))
		}
		product = &p
	}
	h.State.Commit(sid, seq, func(s *state.Snapshot) { s.SelectedProduct = product })

	snap := h.State.Peek(sid)
	return render(c, "products", fiber.Map{
		"Products":   snap.Products,
		"Categories": snap.Categories,
		"ModalHost":  "/products",
		"Modal": fiber.Map{
			"Title":   "Product Details: " + product.Name,
			"Kind":    "product",
			"Product": product,
		},
	})
}

type cartLine struct {
	Item      domain.CartItem
	LineTotal float64
}

func cartView(items []domain.CartItem) ([]cartLine, float64) {
	lines := make([]cartLine, 0, len(items))
	total := 0.0
	for _, it := range items {
		lt := float64(it.Quantity) * it.PriceAtAddition
		total += lt
		lines = append(lines, cartLine{Item: it, LineTotal: lt})
	}
	return lines, total
}

func (h *PageHandler) loadCart(c *fiber.Ctx, sid string, sess *domain.Session, seq uint64) error {
	items, err := h.API.Cart(c.Context(), sess)
	if err != nil {
		applog.Error(c, "cart.load.fail", err, nil)
		return failAuth(c, err, "/", "Failed to load cart.")
	}
	h.State.Commit(sid, seq, func(s *state.Snapshot) { s.CartItems = items })
	lines, total := cartView(items)
	return render(c, "cart", fiber.Map{"Lines": lines, "Total": total})
}

func (h *PageHandler) loadCheckout(c *fiber.Ctx, sid string, sess *domain.Session, seq uint64) error {
	items, err := h.API.Cart(c.Context(), sess)
	if err != nil {
		applog.Error(c, "checkout.cart.fail", err, nil)
		return failAuth(c, err, "/cart", "Failed to load checkout.")
	}
	if len(items) == 0 {
		return redirectWith(c, "/products", "warning",
			"Your cart is empty. Please add products before checking out.")
	}
	addrs, err := h.API.Addresses(c.Context(), sess)
	if err != nil {
		applog.Error(c, "checkout.addresses.fail", err, nil)
		return failAuth(c, err, "/cart", "Failed to load checkout.")
	}
	h.State.Commit(sid, seq, func(s *state.Snapshot) {
		s.CartItems = items
		s.Addresses = addrs
	})
	lines, total := cartView(items)
	return render(c, "checkout", fiber.Map{
		"Lines":     lines,
		"Total":     total,
		"Addresses": addrs,
	})
}

func (h *PageHandler) loadOrderHistory(c *fiber.Ctx, sid string, sess *domain.Session, seq uint64) error {
	orders, err := h.API.Orders(c.Context(), sess)
	if err != nil {
		applog.Error(c, "orders.load.fail", err, nil)
		return failAuth(c, err, "/", "Failed to load order history.")
	}
	h.State.Commit(sid, seq, func(s *state.Snapshot) { s.Orders = orders })
	return render(c, "order_history", fiber.Map{"Orders": orders})
}

func (h *PageHandler) loadOrderDetails(c *fiber.Ctx, sid string, sess *domain.Session, id int64) error {
	order, err := h.API.Order(c.Context(), sess, id)
	if err != nil {
		applog.Error(c, "order.load.fail", err, map[string]any{"order_id": id})
		if err == commerce.ErrNoToken || err == commerce.ErrUnauthorized {
			return failAuth(c, err, "/order-history", "")
		}
		return redirectWith(c, "/order-history", "danger",
			commerce.UserMessage(err, fmt.Sprintf("Failed to load order #%d.", id)))
	}
	seq := h.State.Begin(sid)
	h.State.Commit(sid, seq, func(s *state.Snapshot) { s.SelectedOrder = &order })
	return render(c, "order_details", fiber.Map{"Order": order})
}

func (h *PageHandler) loadDashboard(c *fiber.Ctx, sess *domain.Session) error {
	if sess == nil || sess.Username == "" {
		return redirectWith(c, "/login", "danger", "Please login to view your dashboard.")
	}
	profile, err := h.API.Profile(c.Context(), sess)
	if err != nil {
		applog.Error(c, "profile.load.fail", err, nil)
		return failAuth(c, err, "/", "Failed to load dashboard.")
	}
	return render(c, "dashboard", fiber.Map{"Profile": profile})
}

func (h *PageHandler) loadAdminProducts(c *fiber.Ctx, sid string, seq uint64) error {
	page, err := h.API.Products(c.Context(), commerce.ProductFilters{Size: 100})
	if err != nil {
		applog.Error(c, "admin.products.load.fail", err, nil)
		return redirectWith(c, "/admin-dashboard", "danger",
			commerce.UserMessage(err, "Failed to load product management."))
	}
	cats, err := h.API.Categories(c.Context())
	if err != nil {
		applog.Error(c, "admin.categories.load.fail", err, nil)
	}
	h.State.Commit(sid, seq, func(s *state.Snapshot) {
		s.Products = page.Content
		s.Categories = cats
	})
	return render(c, "admin_products", fiber.Map{
		"Products":   page.Content,
		"Categories": cats,
	})
}

func (h *PageHandler) loadAdminOrders(c *fiber.Ctx, sid string, sess *domain.Session, seq uint64) error {
	orders, err := h.API.Orders(c.Context(), sess)
	if err != nil {
		applog.Error(c, "admin.orders.load.fail", err, nil)
		return failAuth(c, err, "/admin-dashboard", "Failed to load order management.")
	}
	h.State.Commit(sid, seq, func(s *state.Snapshot) { s.Orders = orders })
	return render(c, "admin_orders", fiber.Map{
		"Orders":   orders,
		"Statuses": domain.OrderStatuses,
	})
}
