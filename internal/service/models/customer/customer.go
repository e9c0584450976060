package customer

import "time"

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
	RoleGuest    = "GUEST"
)

// Well-known guest placeholder identity. At most one such row ever
// exists; it is created lazily on the first anonymous checkout.
const (
	GuestID       = "00000000-0000-0000-0000-000000000001"
	GuestEmail    = "guest@aurastore.local"
	GuestFullName = "Guest Checkout"
)

// Customer represents a storefront account. Password hashing and
// registration live outside this core; the record shape is owned here
// because orders reference it.
type Customer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Guest returns the placeholder record used to attribute anonymous
// checkouts.
func Guest() Customer {
	return Customer{
		ID:       GuestID,
		Email:    GuestEmail,
		FullName: GuestFullName,
		Role:     RoleGuest,
	}
}
