package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/config"
	"shopfront/internal/http/handlers"
	"shopfront/internal/repos"
)

// apiRecorder is the fake commerce API: canned JSON per "METHOD path",
// remembering every request it served.
type apiRecorder struct {
	mu        sync.Mutex
	responses map[string]string // "GET /api/orders/42" -> body
	statuses  map[string]int
	requests  []string
}

func newAPIRecorder() *apiRecorder {
	return &apiRecorder{
		responses: make(map[string]string),
		statuses:  make(map[string]int),
	}
}

func (a *apiRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	a.mu.Lock()
	a.requests = append(a.requests, key)
	body, ok := a.responses[key]
	status := a.statuses[key]
	a.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
	}
	if !ok && status == 0 {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"not found"}`))
		return
	}
	w.Write([]byte(body))
}

func (a *apiRecorder) served(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, k := range a.requests {
		if k == key {
			n++
		}
	}
	return n
}

func (a *apiRecorder) servedPrefix(prefix string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, k := range a.requests {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

func newTestApp(t *testing.T, api *apiRecorder) (*fiber.App, *handlers.Deps) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{APIBaseURL: srv.URL + "/api", GenAPIURL: srv.URL + "/gen"}
	deps := handlers.NewDeps(db, cfg)

	engine := handlers.Engine("../../../web/templates")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(handlers.AttachSession(deps.Sessions))

	app.Post("/login", deps.AuthHandler.Login)
	app.Post("/register", deps.AuthHandler.Register)
	app.Post("/logout", deps.AuthHandler.Logout)
	app.Post("/cart/add", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/addresses", deps.CheckoutHandler.AddAddress)
	app.Post("/checkout", deps.CheckoutHandler.Place)
	app.Post("/profile", deps.ProfileHandler.Update)

	admin := app.Group("/admin", handlers.RequireAdmin())
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)

	app.Get("/", deps.PageHandler.Load)
	app.Get("/:token", deps.PageHandler.Load)
	return app, deps
}

func loginAs(t *testing.T, deps *handlers.Deps, sid, username string, roles ...string) {
	t.Helper()
	if err := deps.Sessions.SaveLogin(sid, "tok-"+username, username, roles); err != nil {
		t.Fatal(err)
	}
}

func get(t *testing.T, app *fiber.App, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func postForm(t *testing.T, app *fiber.App, path, sid, form string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestUnknownTokenRendersHome(t *testing.T) {
	app, _ := newTestApp(t, newAPIRecorder())

	for _, path := range []string{"/", "/no-such-page", "/product-details"} {
		resp := get(t, app, path, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s = %d", path, resp.StatusCode)
		}
		if !strings.Contains(body(t, resp), "Welcome to Shopfront") {
			t.Fatalf("GET %s did not land on home", path)
		}
	}
}

func TestLoginStoresSessionAndRedirects(t *testing.T) {
	api := newAPIRecorder()
	api.responses["POST /api/auth/login"] = `{"token":"abc","username":"alice","roles":["ROLE_ADMIN"]}`
	app, deps := newTestApp(t, api)

	resp := postForm(t, app, "/login", "sid-1", "username=alice&password=pw")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/products" {
		t.Fatalf("Location = %q", loc)
	}

	sess, err := deps.Sessions.Current("sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if sess == nil || sess.Token != "abc" || sess.Username != "alice" || !sess.IsAdmin() {
		t.Fatalf("stored session = %+v", sess)
	}
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	api := newAPIRecorder()
	api.statuses["POST /api/auth/login"] = http.StatusBadRequest
	api.responses["POST /api/auth/login"] = `{"message":"Bad credentials"}`
	app, deps := newTestApp(t, api)

	resp := postForm(t, app, "/login", "sid-1", "username=alice&password=nope")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "Bad credentials") {
		t.Fatal("server message not shown")
	}
	if sess, _ := deps.Sessions.Current("sid-1"); sess != nil {
		t.Fatal("failed login stored a session")
	}
}

func TestOrderDetailsFetchesExactlyThatOrder(t *testing.T) {
	api := newAPIRecorder()
	api.responses["GET /api/orders/42"] = `{
		"id":42,"orderDate":"2025-11-02T10:30:00","totalAmount":59.98,"status":"SHIPPED",
		"shippingAddress":{"street":"1 Main St","city":"College Park","postalCode":"20742","country":"USA"},
		"orderItems":[{"id":1,"quantity":2,"priceAtOrder":29.99,"product":{"id":7,"name":"Game Boy"}}]}`
	app, deps := newTestApp(t, api)
	loginAs(t, deps, "sid-1", "alice")

	resp := get(t, app, "/order-details-42", "sid-1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := body(t, resp)
	if !strings.Contains(got, "Order #42") || !strings.Contains(got, "Game Boy") {
		t.Fatal("order detail page missing order data")
	}
	if !strings.Contains(got, "$59.98") {
		t.Fatal("order total not formatted")
	}
	if api.served("GET /api/orders/42") != 1 {
		t.Fatalf("orders/42 hit %d times", api.served("GET /api/orders/42"))
	}
	if api.served("GET /api/orders") != 0 {
		t.Fatal("order list fetched for a detail page")
	}
}

func TestOrderDetailsFailureRedirectsToHistory(t *testing.T) {
	api := newAPIRecorder()
	api.statuses["GET /api/orders/42"] = http.StatusInternalServerError
	api.responses["GET /api/orders/42"] = `{"message":"boom"}`
	app, deps := newTestApp(t, api)
	loginAs(t, deps, "sid-1", "alice")

	resp := get(t, app, "/order-details-42", "sid-1")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/order-history" {
		t.Fatalf("Location = %q", loc)
	}
}

func TestOrderDetailsWithoutLoginRedirectsToLogin(t *testing.T) {
	api := newAPIRecorder()
	app, _ := newTestApp(t, api)

	resp := get(t, app, "/order-details-42", "sid-anon")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("Location = %q", loc)
	}
	if api.servedPrefix("GET /api/orders") != 0 {
		t.Fatal("unauthenticated detail load hit the API")
	}
}

func TestCheckoutWithEmptyCartNeverHitsCheckoutEndpoints(t *testing.T) {
	api := newAPIRecorder()
	app, deps := newTestApp(t, api)
	loginAs(t, deps, "sid-1", "alice")

	resp := postForm(t, app, "/checkout", "sid-1", "addressId=1")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/products" {
		t.Fatalf("Location = %q", loc)
	}
	if api.servedPrefix("POST /api/checkout") != 0 {
		t.Fatal("empty cart reached the checkout endpoints")
	}
}

func TestCartPageShowsLinesAndTotal(t *testing.T) {
	api := newAPIRecorder()
	api.responses["GET /api/cart"] = `{"cartItems":[
		{"quantity":2,"priceAtAddition":9.99,"product":{"id":1,"name":"Tetris"}},
		{"quantity":1,"priceAtAddition":30.00,"product":{"id":2,"name":"Pong"}}]}`
	app, deps := newTestApp(t, api)
	loginAs(t, deps, "sid-1", "alice")

	resp := get(t, app, "/cart", "sid-1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := body(t, resp)
	if !strings.Contains(got, "Tetris") || !strings.Contains(got, "Pong") {
		t.Fatal("cart items missing")
	}
	if !strings.Contains(got, "$19.98") {
		t.Fatal("line total missing or misformatted")
	}
	if !strings.Contains(got, "$49.98") {
		t.Fatal("cart total missing or misformatted")
	}
}

func TestAdminPagesRequireAdminRole(t *testing.T) {
	api := newAPIRecorder()
	api.responses["GET /api/products"] = `{"content":[],"number":0,"totalPages":0,"first":true,"last":true}`
	api.responses["GET /api/categories"] = `[]`
	app, deps := newTestApp(t, api)
	loginAs(t, deps, "sid-user", "bob", "ROLE_USER")
	loginAs(t, deps, "sid-admin", "alice", "ROLE_ADMIN")

	// Plain user bounced home.
	resp := get(t, app, "/admin-products", "sid-user")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("user: status=%d loc=%q", resp.StatusCode, resp.Header.Get("Location"))
	}

	// Anonymous bounced home too.
	resp = get(t, app, "/admin-dashboard", "")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("anon: status=%d loc=%q", resp.StatusCode, resp.Header.Get("Location"))
	}

	// Admin gets the page.
	resp = get(t, app, "/admin-products", "sid-admin")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin: status = %d", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "Product Management") {
		t.Fatal("admin page did not render")
	}
}

func TestAdminActionsRequireAdminRole(t *testing.T) {
	api := newAPIRecorder()
	app, deps := newTestApp(t, api)
	loginAs(t, deps, "sid-user", "bob", "ROLE_USER")

	resp := postForm(t, app, "/admin/orders/5/status", "sid-user", "status=SHIPPED")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("status=%d loc=%q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if api.servedPrefix("PUT /api/admin") != 0 {
		t.Fatal("non-admin reached the admin API")
	}
}

func TestProductsPageRendersListAndFilters(t *testing.T) {
	api := newAPIRecorder()
	api.responses["GET /api/products"] = `{"content":[
		{"id":1,"name":"Game Boy","price":89.99,"stockQuantity":3},
		{"id":2,"name":"Game Gear","price":99.99,"stockQuantity":0}],
		"number":0,"totalPages":2,"first":true,"last":false}`
	api.responses["GET /api/categories"] = `[{"id":1,"name":"Consoles"}]`
	app, _ := newTestApp(t, api)

	resp := get(t, app, "/products", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := body(t, resp)
	if !strings.Contains(got, "Game Boy") || !strings.Contains(got, "Consoles") {
		t.Fatal("catalog data missing")
	}
	if !strings.Contains(got, "Page 1 of 2") {
		t.Fatal("pagination missing")
	}
}

func TestLogoutClearsSessionAndSnapshot(t *testing.T) {
	api := newAPIRecorder()
	app, deps := newTestApp(t, api)
	loginAs(t, deps, "sid-1", "alice")

	resp := postForm(t, app, "/logout", "sid-1", "")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("status=%d loc=%q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if sess, _ := deps.Sessions.Current("sid-1"); sess != nil {
		t.Fatal("session survived logout")
	}
}

func TestCartMutationRejectsBadQuantityBeforeNetwork(t *testing.T) {
	api := newAPIRecorder()
	app, deps := newTestApp(t, api)
	loginAs(t, deps, "sid-1", "alice")

	resp := postForm(t, app, "/cart/add", "sid-1", "productId=1&quantity=abc")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if api.servedPrefix("POST /api/cart") != 0 {
		t.Fatal("invalid quantity reached the API")
	}
}
