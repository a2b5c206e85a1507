package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is what a user may do: residents submit and view their own complaints,
// admins manage everything
type Role string

// Roles known to the api
const (
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

// User holds the structure for the user collection in mongo
type User struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"`
	Role        Role               `json:"role" bson:"role"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address     string             `json:"address,omitempty" bson:"address,omitempty"`
	DocumentURL string             `json:"documentUrl,omitempty" bson:"documentUrl,omitempty"`
	DocumentID  string             `json:"-" bson:"documentId,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserForm holds the text fields of the multipart create/update user form.
// The optional document attachment travels as a separate "document" file part.
type UserForm struct {
	Name     string `validate:"required,min=1,max=120"`
	Email    string `validate:"required,email"`
	Password string `validate:"omitempty,min=8"`
	Role     string `validate:"omitempty,oneof=resident admin"`
	Phone    string `validate:"omitempty,max=32"`
	Address  string `validate:"omitempty,max=256"`
}

// UserFormFrom reads the user form fields from a parsed multipart request
func UserFormFrom(r interface{ FormValue(string) string }) UserForm {
	return UserForm{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.ToLower(strings.TrimSpace(r.FormValue("email"))),
		Password: r.FormValue("password"),
		Role:     strings.TrimSpace(r.FormValue("role")),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
		Address:  strings.TrimSpace(r.FormValue("address")),
	}
}
