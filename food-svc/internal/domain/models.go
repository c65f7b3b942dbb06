package domain

import "time"

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleOwner    Role = "Owner"
)

const (
	DeliveryEstimate = "30 minutes"
	PaymentMode      = "Cash on Delivery"
	UnknownItemName  = "Unknown Item"
)

// Identity is the signed-in principal resolved by the identity provider.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type Session struct {
	Token     string    `json:"token"`
	Identity  Identity  `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}

type User struct {
	UID          string        `json:"uid"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Role         Role          `json:"role"`
	CreatedAt    time.Time     `json:"createdAt"`
	Favorites    []string      `json:"favorites"`
	OrderHistory []OrderRecord `json:"orderHistory"`
}

type Restaurant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	Image       string    `json:"image"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MenuItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	RestaurantID string    `json:"restaurantId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OrderRecord is frozen at placement time. Both stored copies share OrderID.
type OrderRecord struct {
	OrderID         string    `json:"orderId"`
	RestaurantID    string    `json:"restaurantId"`
	UserID          string    `json:"userId"`
	UserName        string    `json:"userName"`
	Phone           string    `json:"phone"`
	DeliveryAddress string    `json:"deliveryAddress"`
	ItemID          string    `json:"itemId"`
	ItemName        string    `json:"itemName"`
	ItemPrice       float64   `json:"itemPrice"`
	ItemImage       string    `json:"itemImage"`
	PlacedAt        time.Time `json:"placedAt"`
}

type OrderRequest struct {
	Item           MenuItem
	Name           string
	Address        string
	Phone          string
	IdempotencyKey string
}

type Confirmation struct {
	Order            OrderRecord `json:"order"`
	DeliveryEstimate string      `json:"delivery_estimate"`
	PaymentMode      string      `json:"payment_mode"`
	Replayed         bool        `json:"replayed,omitempty"`
}

// RestaurantFields carries owner-supplied restaurant data.
type RestaurantFields struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Image       string `json:"image"`
}

// MenuItemFields carries raw form input; Price is parsed by the catalog writer.
type MenuItemFields struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      string    `json:"order_id"`
	RestaurantID string    `json:"restaurant_id"`
	ItemID       string    `json:"item_id"`
	UserID       string    `json:"user_id"`
	Price        float64   `json:"price"`
	Timestamp    time.Time `json:"timestamp"`
}

type ItemStat struct {
	ItemID string  `json:"item_id"`
	Orders float64 `json:"orders"`
}

type RestaurantStats struct {
	RestaurantID string     `json:"restaurant_id"`
	OrdersToday  int64      `json:"orders_today"`
	Revenue      float64    `json:"revenue"`
	TopItems     []ItemStat `json:"top_items"`
}
