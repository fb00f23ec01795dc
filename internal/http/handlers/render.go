package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	html "github.com/gofiber/template/html/v2"

	"shopfront/internal/commerce"
	"shopfront/internal/domain"
	"shopfront/internal/services"
)

// Engine builds the view engine with the template helpers every page uses.
func Engine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("money", func(v float64) string { return fmt.Sprintf("$%.2f", v) })
	engine.AddFunc("mul", func(q int, p float64) float64 { return float64(q) * p })
	engine.AddFunc("lower", strings.ToLower)
	engine.AddFunc("rating", func(r *float64) string {
		if r == nil {
			return "N/A"
		}
		return fmt.Sprintf("%.1f", *r)
	})
	engine.AddFunc("date", func(s string) string {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("Jan 2, 2006 15:04")
			}
		}
		return s
	})
	return engine
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

// AttachSession loads the stored session for the sid cookie into Locals so
// handlers and templates share one view of login state.
func AttachSession(svc *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if sess, err := svc.Current(sid); err == nil && sess != nil {
				c.Locals("sess", sess)
			}
		}
		return c.Next()
	}
}

func currentSession(c *fiber.Ctx) *domain.Session {
	sess, _ := c.Locals("sess").(*domain.Session)
	return sess
}

// flash carries one transient notice across a redirect, the storefront's
// toast equivalent.
func flash(c *fiber.Ctx, kind, msg string) {
	c.Cookie(&fiber.Cookie{
		Name:     "flash",
		Value:    url.QueryEscape(kind + "|" + msg),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func redirectWith(c *fiber.Ctx, path, kind, msg string) error {
	flash(c, kind, msg)
	return c.Redirect(path)
}

func takeFlash(c *fiber.Ctx) (kind, msg string) {
	raw := c.Cookies("flash")
	if raw == "" {
		return "", ""
	}
	c.Cookie(&fiber.Cookie{
		Name:    "flash",
		Value:   "",
		Path:    "/",
		Expires: time.Now().Add(-time.Hour),
	})
	dec, err := url.QueryUnescape(raw)
	if err != nil {
		return "", ""
	}
	kind, msg, ok := strings.Cut(dec, "|")
	if !ok {
		return "info", dec
	}
	return kind, msg
}

// render injects the nav-visibility state, any pending notice and the CSRF
// token into every view.
func render(c *fiber.Ctx, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	sess := currentSession(c)
	data["Authed"] = sess != nil && sess.Token != ""
	data["IsAdmin"] = sess.IsAdmin()
	if sess != nil {
		data["Username"] = sess.Username
	}
	if kind, msg := takeFlash(c); msg != "" {
		data["NoticeKind"] = kind
		data["Notice"] = msg
	}
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	data["CSRFToken"] = tok
	return c.Render(view, data)
}

// failAuth maps the wrapper's terminal auth failures to the login redirect;
// any other error goes to fallbackPath with a notice.
func failAuth(c *fiber.Ctx, err error, fallbackPath, fallbackMsg string) error {
	switch {
	case errors.Is(err, commerce.ErrNoToken):
		return redirectWith(c, "/login", "danger", "You need to be logged in for this action.")
	case errors.Is(err, commerce.ErrUnauthorized):
		return redirectWith(c, "/login", "danger", "Session expired or unauthorized. Please log in again.")
	default:
		return redirectWith(c, fallbackPath, "danger", commerce.UserMessage(err, fallbackMsg))
	}
}
