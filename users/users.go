package users

import (
	"fmt"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// RoleType is the staff role shown in the dashboard's user table.
type RoleType string

const (
	RoleCustomer        RoleType = "Customer"
	RoleCustomerService RoleType = "Customer Service"
	RoleDelivery        RoleType = "Delivery"
	RoleAdmin           RoleType = "Admin"
)

// Roles lists every assignable role in display order.
var Roles = []RoleType{RoleCustomer, RoleCustomerService, RoleDelivery, RoleAdmin}

// ParseRole validates a role name as typed by an operator.
func ParseRole(s string) (RoleType, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is the identity record carried by a session. The JSON shape matches the
// REST API, which identifies users by "_id".
type User struct {
	ID           string    `json:"_id"`                 // Unique identifier for the user
	Email        string    `json:"email,omitempty"`     // User's email address
	Name         string    `json:"name,omitempty"`      // Display name
	Role         RoleType  `json:"role,omitempty"`      // Staff role
	PasswordHash string    `json:"-"`                   // Hashed version of the user's password - never serialize
	CreatedAt    time.Time `json:"createdAt,omitempty"` // Date and time when the user registered
	LastLogin    time.Time `json:"lastLogin,omitempty"` // Last time the user logged in
}

// Clone returns a copy that does not share memory with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
