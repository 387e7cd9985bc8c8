package model

import "time"

// PermissionSecretary lets a user add and remove empty sessions on a
// host's behalf.
const PermissionSecretary = "secretary"

type Admin struct {
	Username     string    `json:"username" bson:"_id" validate:"required,min=2,max=80"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

type Host struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	FirstName    string    `json:"first_name" bson:"first_name" validate:"required,min=1,max=80"`
	LastName     string    `json:"last_name" bson:"last_name" validate:"required,min=1,max=80"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Permissions  []string  `json:"permissions" bson:"permissions"`
	Favorites    []string  `json:"favorites,omitempty" bson:"favorites,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// HasPermission reports whether the user carries the named permission.
func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
