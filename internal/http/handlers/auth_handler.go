package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/commerce"
	applog "shopfront/internal/log"
	"shopfront/internal/services"
	"shopfront/internal/state"
)

type AuthHandler struct {
	API      *commerce.Client
	Sessions *services.SessionService
	State    *state.Store
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		c.Status(fiber.StatusBadRequest)
		return render(c, "login", fiber.Map{
			"Err": "Username and password are required.",
		})
	}

	res, err := h.API.Login(c.Context(), username, password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{
			"Err": commerce.UserMessage(err, "Login failed! Check credentials."),
		})
	}

	if err := h.Sessions.SaveLogin(sid, res.Token, res.Username, res.Roles); err != nil {
		applog.Error(c, "auth.session.save.fail", err, nil)
		c.Status(fiber.StatusInternalServerError)
		return render(c, "login", fiber.Map{
			"Err": "Could not start your session. Please try again.",
		})
	}

	applog.Audit(c, "auth.login.success", map[string]any{"username": res.Username})
	return redirectWith(c, "/products", "success", "Login successful!")
}

// POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	username := c.FormValue("username")
	email := c.FormValue("email")
	password := c.FormValue("password")
	if username == "" || email == "" || password == "" {
		c.Status(fiber.StatusBadRequest)
		return render(c, "register", fiber.Map{
			"Err": "All fields are required.",
		})
	}

	if err := h.API.Register(c.Context(), username, email, password); err != nil {
		applog.Security(c, "auth.register.fail", map[string]any{"username": username})
		c.Status(fiber.StatusBadRequest)
		return render(c, "register", fiber.Map{
			"Err": commerce.UserMessage(err, "Registration failed! Username/email might be in use."),
		})
	}

	applog.Audit(c, "auth.register.success", map[string]any{"username": username})
	return redirectWith(c, "/login", "success", "Registration successful! You can now login.")
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Sessions.Clear(sid)
	h.State.Drop(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return redirectWith(c, "/", "success", "You have been logged out.")
}
