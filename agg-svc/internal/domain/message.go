package domain

import "time"

const EventOrderPlaced = "order_placed"

// OrderEvent is the message food-svc publishes after an order commits.
type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      string    `json:"order_id"`
	RestaurantID string    `json:"restaurant_id"`
	ItemID       string    `json:"item_id"`
	UserID       string    `json:"user_id"`
	Price        float64   `json:"price"`
	Timestamp    time.Time `json:"timestamp"`
}
