package domain

// Transport DTOs for the remote commerce API. The client holds transient,
// disposable copies; the backend owns every entity.

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	ImageURL      string    `json:"imageUrl"`
	Category      *Category `json:"category,omitempty"`
	AverageRating *float64  `json:"averageRating,omitempty"`
}

// ProductPage carries the backend's page metadata. A plain-array product
// response is normalized into a single page by the accessor.
type ProductPage struct {
	Content    []Product `json:"content"`
	Number     int       `json:"number"`
	TotalPages int       `json:"totalPages"`
	First      bool      `json:"first"`
	Last       bool      `json:"last"`
}

type CartItem struct {
	Product         Product `json:"product"`
	Quantity        int     `json:"quantity"`
	PriceAtAddition float64 `json:"priceAtAddition"`
}

type Address struct {
	ID         int64  `json:"id,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type OrderItem struct {
	ID           int64   `json:"id"`
	Product      Product `json:"product"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"priceAtOrder"`
}

type Order struct {
	ID              int64        `json:"id"`
	OrderDate       string       `json:"orderDate"`
	TotalAmount     float64      `json:"totalAmount"`
	Status          string       `json:"status"`
	ShippingAddress Address      `json:"shippingAddress"`
	OrderItems      []OrderItem  `json:"orderItems"`
	User            *UserProfile `json:"user,omitempty"`
}

// OrderStatuses is the backend's status enumeration, in the order the admin
// screen offers it.
var OrderStatuses = []string{"PENDING", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED", "FAILED"}

type UserProfile struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
