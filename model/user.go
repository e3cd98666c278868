package model

import (
	"fmt"
	"strings"
	"time"

	"kraft/internal/errs"
)

// Role is the authorization level attached to a user.
type Role string

const (
	RoleGuest Role = "GUEST"
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var roleRank = map[Role]int{
	RoleGuest: 0,
	RoleUser:  1,
	RoleAdmin: 2,
}

// AtLeast reports whether r grants the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// User 用户模型
type User struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	Name    string `gorm:"not null;size:100" json:"name"`
	Email   string `gorm:"unique;not null;size:255" json:"email"`
	Picture string `gorm:"size:255" json:"picture"`
	Role    Role   `gorm:"type:varchar(20);not null;default:GUEST" json:"role"`
	// PasswordHash is set only for form-login accounts (admin seeding).
	// Users created through an OAuth2 provider never carry one.
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser validates and builds a user. An empty role defaults to GUEST.
func NewUser(name, email, picture string, role Role) (*User, error) {
	if err := validateUserName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleGuest
	}
	return &User{
		Name:    name,
		Email:   email,
		Picture: picture,
		Role:    role,
	}, nil
}

// Update refreshes name and picture on a repeat provider login.
func (u *User) Update(name, picture string) error {
	if err := validateUserName(name); err != nil {
		return err
	}
	u.Name = name
	u.Picture = picture
	return nil
}

func validateUserName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("user name must not be blank: %w", errs.ErrValidation)
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email must not be blank: %w", errs.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email %q is not a valid address: %w", email, errs.ErrValidation)
	}
	return nil
}
