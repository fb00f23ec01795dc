package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/commerce"
	applog "shopfront/internal/log"
	"shopfront/internal/services"
	"shopfront/internal/validate"
)

type ProfileHandler struct {
	API      *commerce.Client
	Sessions *services.SessionService
}

// POST /profile
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username, okU := validate.Username(c.FormValue("username"))
	email, okE := validate.Email(c.FormValue("email"))
	if !okU || !okE {
		return redirectWith(c, "/user-dashboard", "danger", "Please provide a valid username and email.")
	}

	upd := commerce.ProfileUpdate{Username: username, Email: email}
	if cur, next := c.FormValue("currentPassword"), c.FormValue("newPassword"); cur != "" || next != "" {
		upd.CurrentPassword = cur
		upd.NewPassword = next
	}

	msg, err := h.API.UpdateProfile(c.Context(), currentSession(c), upd)
	if err != nil {
		applog.Error(c, "profile.update.fail", err, nil)
		return failAuth(c, err, "/user-dashboard", "Failed to update profile.")
	}

	// Keep the stored username slot in step with the rename.
	if err := h.Sessions.Rename(sid, username); err != nil {
		applog.Error(c, "profile.session.rename.fail", err, nil)
	}

	applog.Audit(c, "profile.update", map[string]any{"username": username})
	if msg == "" {
		msg = "Profile updated successfully!"
	}
	return redirectWith(c, "/user-dashboard", "success", msg)
}
