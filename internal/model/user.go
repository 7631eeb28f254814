package model

type Role string

const (
	RoleAdmin   Role = "admin"
	RolePartner Role = "partner"
)

type User struct {
	Username     string `json:"username" yaml:"username"`
	PasswordHash string `json:"password_hash,omitempty" yaml:"password_hash,omitempty"`
	Role         Role   `json:"role" yaml:"role"`
	Organization string `json:"organization" yaml:"organization"`
	Name         string `json:"name" yaml:"name"`
	Email        string `json:"email" yaml:"email"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Profile is the user as shown to clients, without credentials.
type Profile struct {
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	RoleLabel    string `json:"role_label"`
	Organization string `json:"organization"`
	Name         string `json:"name"`
	Email        string `json:"email"`
}
