package model

const RoleAdmin = "admin"

// User carries the identity and privilege tag consulted by the role gate.
// Any Role value other than "admin", including absence, is non-privileged.
type User struct {
	ID    string `json:"_id,omitempty" bson:"_id,omitempty"`
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Role  string `json:"role,omitempty" bson:"role,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AdminStatus is the body of GET /users/admin/:email.
type AdminStatus struct {
	IsAdmin bool `json:"isAdmin"`
}
