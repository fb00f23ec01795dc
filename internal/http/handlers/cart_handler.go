package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/commerce"
	applog "shopfront/internal/log"
	"shopfront/internal/state"
	"shopfront/internal/validate"
)

type CartHandler struct {
	API   *commerce.Client
	State *state.Store
}

// refresh re-fetches the cart into the snapshot after a mutation, the
// dependent re-fetch every cart action triggers.
func (h *CartHandler) refresh(c *fiber.Ctx, sid string) {
	sess := currentSession(c)
	items, err := h.API.Cart(c.Context(), sess)
	if err != nil {
		applog.Error(c, "cart.refresh.fail", err, nil)
		return
	}
	seq := h.State.Begin(sid)
	h.State.Commit(sid, seq, func(s *state.Snapshot) { s.CartItems = items })
}

// POST /cart/add
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return redirectWith(c, back(c, "/products"), "danger", "Please enter a valid quantity.")
	}
	qty, ok := validate.Qty(c.FormValue("quantity", "1"))
	if !ok {
		return redirectWith(c, back(c, "/products"), "danger", "Please enter a valid quantity.")
	}

	item, err := h.API.AddToCart(c.Context(), currentSession(c), productID, qty)
	if err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product_id": productID})
		return failAuth(c, err, back(c, "/products"), "Failed to add to cart.")
	}
	h.refresh(c, sid)
	applog.Info(c, "cart.add", map[string]any{"product_id": productID, "qty": qty})
	return redirectWith(c, back(c, "/cart"), "success", fmt.Sprintf("%q added to cart!", item.Product.Name))
}

// POST /cart/update
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return redirectWith(c, "/cart", "danger", "Please enter a valid quantity.")
	}
	qty, ok := validate.Qty(c.FormValue("quantity"))
	if !ok {
		return redirectWith(c, "/cart", "danger", "Please enter a valid quantity.")
	}

	item, err := h.API.UpdateCartItem(c.Context(), currentSession(c), productID, qty)
	if err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"product_id": productID})
		return failAuth(c, err, "/cart", "Failed to update cart.")
	}
	h.refresh(c, sid)
	return redirectWith(c, "/cart", "success", fmt.Sprintf("Cart updated for %q.", item.Product.Name))
}

// POST /cart/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return redirectWith(c, "/cart", "danger", "Invalid product.")
	}

	msg, err := h.API.RemoveFromCart(c.Context(), currentSession(c), productID)
	if err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product_id": productID})
		return failAuth(c, err, "/cart", "Failed to remove from cart.")
	}
	h.refresh(c, sid)
	if msg == "" {
		msg = "Item removed from cart."
	}
	return redirectWith(c, "/cart", "success", msg)
}

// back returns the referring page so cart actions land where they started.
func back(c *fiber.Ctx, fallback string) string {
	ref := c.Get("Referer")
	if ref == "" {
		return fallback
	}
	return ref
}
