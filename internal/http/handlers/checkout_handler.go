package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/state"
	"shopfront/internal/validate"
)

type CheckoutHandler struct {
	API   *commerce.Client
	State *state.Store
}

// POST /addresses
func (h *CheckoutHandler) AddAddress(c *fiber.Ctx) error {
	addr := domain.Address{
		Street:     c.FormValue("street"),
		City:       c.FormValue("city"),
		State:      c.FormValue("state"),
		PostalCode: c.FormValue("postalCode"),
		Country:    c.FormValue("country"),
	}
	if !validate.Address(addr.Street, addr.City, addr.PostalCode, addr.Country) {
		return redirectWith(c, "/checkout", "danger", "Please fill all required address fields.")
	}

	if err := h.API.AddAddress(c.Context(), currentSession(c), addr); err != nil {
		applog.Error(c, "address.add.fail", err, nil)
		return failAuth(c, err, "/checkout", "Failed to add address.")
	}
	applog.Audit(c, "address.add", map[string]any{"city": addr.City, "country": addr.Country})
	return redirectWith(c, "/checkout", "success", "Address added successfully!")
}

// POST /checkout
//
// Two steps against the commerce API: create the payment intent, then
// confirm the order with the returned id. A created intent whose
// confirmation fails is surfaced as an error with no compensation.
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	sess := currentSession(c)

	// An empty cart never reaches the checkout endpoints.
	if len(h.State.Peek(sid).CartItems) == 0 {
		return redirectWith(c, "/products", "warning",
			"Your cart is empty. Please add products before checking out.")
	}

	addressID, ok := validate.ID(c.FormValue("addressId"))
	if !ok {
		return redirectWith(c, "/checkout", "danger", "Please select or add a shipping address.")
	}

	intentID, err := h.API.CreatePaymentIntent(c.Context(), sess, addressID)
	if err != nil {
		applog.Error(c, "checkout.intent.fail", err, map[string]any{"address_id": addressID})
		return failAuth(c, err, "/checkout", "Failed to create payment intent.")
	}

	msg, err := h.API.ConfirmOrder(c.Context(), sess, intentID)
	if err != nil {
		applog.Error(c, "checkout.confirm.fail", err, map[string]any{"intent_id": intentID})
		return failAuth(c, err, "/checkout", "Order placement failed.")
	}

	// Dependent re-fetch so the snapshot reflects the emptied cart.
	if items, err := h.API.Cart(c.Context(), sess); err == nil {
		seq := h.State.Begin(sid)
		h.State.Commit(sid, seq, func(s *state.Snapshot) { s.CartItems = items })
	}

	applog.Audit(c, "checkout.place", map[string]any{"intent_id": intentID})
	if msg == "" {
		msg = "Order placed successfully!"
	}
	return redirectWith(c, "/order-history", "success", msg)
}
