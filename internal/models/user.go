package models

import "time"

type Role string

const (
	RoleFarmer     Role = "farmer"
	RoleWholesaler Role = "wholesaler"
	RoleRetailer   Role = "retailer"
	RoleConsumer   Role = "consumer"
)

// Capability describes what a role may do in the catalog and purchase flows.
type Capability struct {
	CanCreateProduct bool
	CanPurchase      bool
	IsSeller         bool
}

var capabilities = map[Role]Capability{
	RoleFarmer:     {CanCreateProduct: true, CanPurchase: false, IsSeller: true},
	RoleWholesaler: {CanCreateProduct: true, CanPurchase: true, IsSeller: false},
	RoleRetailer:   {CanCreateProduct: true, CanPurchase: true, IsSeller: false},
	RoleConsumer:   {CanCreateProduct: false, CanPurchase: true, IsSeller: false},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// CapabilityFor returns the capability table entry for a role. Unknown roles
// get the zero capability (nothing permitted).
func CapabilityFor(r Role) Capability {
	return capabilities[r]
}

// UserProfile is the domain user record, owned by the profile store. The
// identity provider owns credentials only.
type UserProfile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	UserType      Role      `json:"userType"`
	Location      string    `json:"location"`
	AadhaarNumber string    `json:"aadhaarNumber"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Credentials is the auth record stored separately from the profile.
// The password hash never appears in API responses.
type Credentials struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
