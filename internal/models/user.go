package models

import (
	"net/mail"
	"time"

	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/schema"
	"github.com/google/uuid"
)

// Role is the access level of a user.
type Role string

// User roles. The labels match the user_roles database enum.
const (
	RoleNormal Role = "Normal"
	RoleAdmin  Role = "Admin"
)

// Roles is the label set of the user_roles enum.
var Roles = schema.NewEnumSet("user_roles", string(RoleNormal), string(RoleAdmin))

// User is an account. Password is only set on input; stored users carry
// PasswordHash instead.
type User struct {
	ID           uuid.UUID `mapstructure:"id"`
	Username     string    `mapstructure:"username"`
	Email        string    `mapstructure:"email"`
	Password     string    `mapstructure:"password"`
	PasswordHash string    `mapstructure:"password_hash"`
	Role         Role      `mapstructure:"role"`
	Confirmed    bool      `mapstructure:"confirmed"`
	CreatedAt    time.Time `mapstructure:"created_at"`
	UpdatedAt    time.Time `mapstructure:"updated_at"`
}

// NewUser creates an unconfirmed user with a clear-text password.
func NewUser(username, password, email string, role Role) *User {
	return &User{
		Username: username,
		Password: password,
		Email:    email,
		Role:     role,
	}
}

// Document returns the insert document of u.
func (u *User) Document() *core.Document {
	return core.NewDocument(
		core.F("username", u.Username),
		core.F("email", u.Email),
		core.F("password", u.Password),
		core.F("role", string(u.Role)),
		core.F("confirmed", u.Confirmed),
	)
}

// UserFromDocument converts a stored user document, as returned by the user
// store, into a User.
func UserFromDocument(doc *core.Document) (*User, error) {
	var u User
	if err := decode("user", normalizeUser(doc), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserInput converts an insert or update document into a validated User.
// Store-maintained fields are ignored. Either a clear-text password or an
// existing password_hash must be present; requirePassword demands the former.
func UserInput(doc *core.Document, requirePassword bool) (*User, error) {
	var u User
	if err := decode("user", normalizeUser(withoutServerFields(doc)), &u); err != nil {
		return nil, err
	}
	if u.Role == "" {
		u.Role = RoleNormal
	}
	if err := u.Validate(requirePassword); err != nil {
		return nil, err
	}
	return &u, nil
}

// Validate checks the fields a stored user must have.
func (u *User) Validate(requirePassword bool) error {
	if err := requireString("user", "username", u.Username); err != nil {
		return err
	}
	if err := requireString("user", "email", u.Email); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return &core.ValidationError{Entity: "user", Field: "email", Reason: "is not a valid address"}
	}
	if requirePassword || u.PasswordHash == "" {
		if err := requireString("user", "password", u.Password); err != nil {
			return err
		}
	}
	if !Roles.Contains(string(u.Role)) {
		return &core.ValidationError{Entity: "user", Field: "role", Reason: "unknown role " + string(u.Role)}
	}
	return nil
}

// normalizeUser maps the stored column name user_role onto role.
func normalizeUser(doc *core.Document) *core.Document {
	role, ok := doc.Get("user_role")
	if !ok {
		return doc
	}
	out := doc.Clone()
	out.Delete("user_role")
	if !out.Has("role") {
		out.Set("role", role)
	}
	return out
}
