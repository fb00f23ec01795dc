package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/commerce"
	"shopfront/internal/describe"
	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/state"
	"shopfront/internal/validate"
)

type AdminHandler struct {
	API   *commerce.Client
	State *state.Store
	Gen   *describe.Client
}

// RequireAdmin gates the admin surface on the stored role list. This is a
// browser-side gate only; the commerce API enforces for real.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := currentSession(c)
		if !sess.IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return redirectWith(c, "/", "danger", "Access Denied: You do not have administrator privileges.")
		}
		return c.Next()
	}
}

func productInputFromForm(c *fiber.Ctx) (commerce.ProductInput, bool) {
	price, okP := validate.Price(c.FormValue("price"))
	stock, okS := validate.Stock(c.FormValue("stockQuantity"))
	catID, okC := validate.ID(c.FormValue("categoryId"))
	name := c.FormValue("name")
	if !okP || !okS || !okC || name == "" {
		return commerce.ProductInput{}, false
	}
	return commerce.ProductInput{
		Name:          name,
		Description:   c.FormValue("description"),
		Price:         price,
		ImageURL:      c.FormValue("imageUrl"),
		StockQuantity: stock,
		CategoryID:    catID,
	}, true
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	in, ok := productInputFromForm(c)
	if !ok {
		return redirectWith(c, "/admin-products", "danger", "Please fill the product form completely.")
	}
	if err := h.API.AdminCreateProduct(c.Context(), currentSession(c), in); err != nil {
		applog.Error(c, "admin.product.create.fail", err, nil)
		return failAuth(c, err, "/admin-products", "Failed to add product.")
	}
	applog.Audit(c, "admin.product.create", map[string]any{"name": in.Name})
	return redirectWith(c, "/admin-products", "success", "Product added successfully!")
}

// POST /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return redirectWith(c, "/admin-products", "danger", "Invalid product.")
	}
	in, ok := productInputFromForm(c)
	if !ok {
		return redirectWith(c, "/admin-products", "danger", "Please fill the product form completely.")
	}
	if err := h.API.AdminUpdateProduct(c.Context(), currentSession(c), id, in); err != nil {
		applog.Error(c, "admin.product.update.fail", err, map[string]any{"product_id": id})
		return failAuth(c, err, "/admin-products", "Failed to update product.")
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": id})
	return redirectWith(c, "/admin-products", "success", "Product updated successfully!")
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return redirectWith(c, "/admin-products", "danger", "Invalid product.")
	}
	msg, err := h.API.AdminDeleteProduct(c.Context(), currentSession(c), id)
	if err != nil {
		applog.Error(c, "admin.product.delete.fail", err, map[string]any{"product_id": id})
		return failAuth(c, err, "/admin-products", "Failed to delete product.")
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	if msg == "" {
		msg = "Product deleted successfully!"
	}
	return redirectWith(c, "/admin-products", "success", msg)
}

// GET /admin/products/:id/edit — fetches the product fresh and reopens the
// management page with the edit modal populated.
func (h *AdminHandler) EditProductForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return redirectWith(c, "/admin-products", "danger", "Invalid product.")
	}
	product, err := h.API.Product(c.Context(), id)
	if err != nil {
		applog.Error(c, "admin.product.edit.load.fail", err, map[string]any{"product_id": id})
		return redirectWith(c, "/admin-products", "danger",
			commerce.UserMessage(err, "Failed to load product for editing."))
	}
	sid := ensureSID(c)
	snap := h.State.Peek(sid)
	return render(c, "admin_products", fiber.Map{
		"Products":   snap.Products,
		"Categories": snap.Categories,
		"ModalHost":  "/admin-products",
		"Modal": fiber.Map{
			"Title":   "Edit Product: " + product.Name,
			"Kind":    "edit-product",
			"Product": product,
		},
	})
}

// GET /admin/orders/:id — order detail modal over the order management page.
func (h *AdminHandler) OrderDetail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return redirectWith(c, "/admin-orders", "danger", "Invalid order.")
	}
	order, err := h.API.Order(c.Context(), currentSession(c), id)
	if err != nil {
		applog.Error(c, "admin.order.detail.fail", err, map[string]any{"order_id": id})
		return failAuth(c, err, "/admin-orders", "Failed to load order details for admin.")
	}
	sid := ensureSID(c)
	snap := h.State.Peek(sid)
	return render(c, "admin_orders", fiber.Map{
		"Orders":    snap.Orders,
		"Statuses":  domain.OrderStatuses,
		"ModalHost": "/admin-orders",
		"Modal": fiber.Map{
			"Title": fmt.Sprintf("Order Details: #%d", order.ID),
			"Kind":  "order",
			"Order": order,
		},
	})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	status := c.FormValue("status")
	if !ok || !validStatus(status) {
		return redirectWith(c, "/admin-orders", "danger", "Invalid order or status.")
	}
	if err := h.API.AdminUpdateOrderStatus(c.Context(), currentSession(c), id, status); err != nil {
		applog.Error(c, "admin.order.status.fail", err, map[string]any{"order_id": id})
		return failAuth(c, err, "/admin-orders", "Failed to update order status.")
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order_id": id, "status": status})
	return redirectWith(c, "/admin-orders", "success",
		fmt.Sprintf("Order #%d status updated to %s.", id, status))
}

func validStatus(s string) bool {
	for _, st := range domain.OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// POST /admin/products/describe — drafts a description via the generative
// service and re-renders the product form with it filled in.
func (h *AdminHandler) Describe(c *fiber.Ctx) error {
	name := c.FormValue("name")
	if name == "" {
		return redirectWith(c, "/admin-products", "danger", "Enter a product name before generating a description.")
	}
	text, err := h.Gen.Generate(c.Context(), name, c.FormValue("description"))
	if err != nil {
		applog.Error(c, "admin.describe.fail", err, map[string]any{"name": name})
		return redirectWith(c, "/admin-products", "danger",
			"Failed to generate description: "+err.Error())
	}

	sid := ensureSID(c)
	snap := h.State.Peek(sid)
	return render(c, "admin_products", fiber.Map{
		"Products":   snap.Products,
		"Categories": snap.Categories,
		"NoticeKind": "success",
		"Notice":     "Description generated successfully!",
		"Draft": fiber.Map{
			"Name":          name,
			"Description":   text,
			"Price":         c.FormValue("price"),
			"ImageURL":      c.FormValue("imageUrl"),
			"StockQuantity": c.FormValue("stockQuantity"),
		},
	})
}
