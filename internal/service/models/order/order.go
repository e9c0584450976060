package order

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/aurastore/backend/order/internal/service/models/orderitem"
)

// Contact is the customer contact and shipping snapshot captured at
// checkout time. It is denormalized onto the order and never updated
// afterwards.
type Contact struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	PaymentMethod string `json:"paymentMethod"`
}

// Order represents an order in the system. The id doubles as the
// externally shown tracking number.
type Order struct {
	ID               string                `json:"id"`
	CustomerID       string                `json:"customerId"`
	Status           Status                `json:"status"`
	TotalCents       int64                 `json:"totalCents"`
	ShippingFeeCents int64                 `json:"shippingFeeCents"`
	DiscountCents    int64                 `json:"discountCents"`
	TrackingNumber   *string               `json:"trackingNumber,omitempty"`
	Notes            *string               `json:"notes,omitempty"`
	Contact          Contact               `json:"contact"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
	OrderItems       []orderitem.OrderItem `json:"orderItems"`
}

const (
	idPrefix   = "AURA-"
	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength   = 6
)

// NewID generates a displayable order id of the form AURA-XXXXXX.
func NewID() string {
	buf := make([]byte, idLength)
	alphabetSize := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			panic(err)
		}
		buf[i] = idAlphabet[n.Int64()]
	}

	return idPrefix + string(buf)
}
