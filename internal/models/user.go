package models

import "time"

type User struct {
	Base         `bson:",inline"`
	Email        string     `bson:"email"                 json:"email"`
	Name         string     `bson:"name"                  json:"name"`
	PasswordHash string     `bson:"password"              json:"-"`
	Role         string     `bson:"role"                  json:"role"`
	IsActive     bool       `bson:"isActive"              json:"isActive"`
	LastLoginAt  *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanEdit reports whether the user may manage content.
func (u *User) CanEdit() bool {
	return u.Role == RoleAdmin || u.Role == RoleEditor
}
