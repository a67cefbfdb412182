package models

// Role is the single authorization flag carried in access tokens
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleInstructor
}

// Identity is the authenticated caller extracted from an access token
type Identity struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Role     Role   `json:"role"`
}
