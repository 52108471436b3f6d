package models

// Role ids assigned by the CMS at registration. Owners list properties
// and receive payouts; renters book stays.
const (
	RoleOwner  = 3
	RoleRenter = 4
)

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// User is the flat shape returned by the CMS users and auth endpoints.
type User struct {
	ID              int    `json:"id,omitempty"`
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	CountryCode     string `json:"countryCode,omitempty"`
	Phone           string `json:"phone,omitempty"`
	StripeAccountID string `json:"stripeAccountId,omitempty"`
	Role            *Role  `json:"role,omitempty"`
}

// IsOwner reports whether the user holds the property-owner role.
func (u *User) IsOwner() bool {
	return u.Role != nil && u.Role.ID == RoleOwner
}

// UserEntry is the envelope shape users take when populated through a
// relation (unlike the flat /api/users responses).
type UserEntry struct {
	ID         int  `json:"id"`
	Attributes User `json:"attributes"`
}

type UserRelation struct {
	Data *UserEntry `json:"data,omitempty"`
}

// UserUpdate is the partial-update payload for a user profile. The role
// is set once at registration and never changed afterwards.
type UserUpdate struct {
	CountryCode     string `json:"countryCode,omitempty"`
	Phone           string `json:"phone,omitempty"`
	StripeAccountID string `json:"stripeAccountId,omitempty"`
	Role            int    `json:"role,omitempty"`
}
