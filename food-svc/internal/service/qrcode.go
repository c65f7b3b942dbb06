package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(restaurantID, orderID string) ([]byte, error)
}

// DefaultQRGenerator encodes a link to the restaurant's order list anchored at
// the order.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Link(restaurantID, orderID string) string {
	return fmt.Sprintf("%s/ordersPlaced/%s#%s", g.BaseURL, restaurantID, orderID)
}

func (g DefaultQRGenerator) Generate(restaurantID, orderID string) ([]byte, error) {
	return qrcode.Encode(g.Link(restaurantID, orderID), qrcode.Medium, 256)
}
