package models

import (
	"fmt"
	"time"
)

// Gender is the closed set of gender values accepted on a profile.
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderNonBinary      Gender = "non_binary"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// ParseGender validates a raw gender string. Unrecognized values are
// rejected rather than silently accepted.
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderNonBinary, GenderPreferNotToSay:
		return Gender(s), nil
	}
	return "", fmt.Errorf("unrecognized gender %q", s)
}

// Role is the closed set of profile roles. Only RoleAdmin may reach
// admin-scoped routes.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleUser    Role = "user"
	RoleGuest   Role = "guest"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleStaff, RoleUser, RoleGuest:
		return Role(s), nil
	}
	return "", fmt.Errorf("unrecognized role %q", s)
}

// Status is the closed set of profile lifecycle states.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusPending   Status = "pending"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusPending, StatusSuspended, StatusDeleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("unrecognized status %q", s)
}

// Profile is an end-user account row. The dashboard reads profiles and
// never writes role or status back through the listing path.
type Profile struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Nickname     string     `json:"nickname"`
	Gender       Gender     `json:"gender"`
	ProfileImage *string    `json:"profile_image,omitempty"`
	Role         Role       `json:"role"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the profile may reach admin-scoped routes.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// CanSignIn reports whether the account state allows a new session.
func (p *Profile) CanSignIn() bool {
	switch p.Status {
	case StatusSuspended, StatusDeleted, StatusInactive:
		return false
	}
	return true
}
