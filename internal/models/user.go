package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role identifies a privilege level. The set is closed; anything else is
// normalised away on load.
type Role string

const (
	RoleAdmin        Role = "admin"
	RolePhotographer Role = "photographer"
	RoleClient       Role = "client"
)

// privilege orders roles for primary-role derivation. Higher wins.
var privilege = map[Role]int{
	RoleClient:       1,
	RolePhotographer: 2,
	RoleAdmin:        3,
}

// ParseRole normalises a raw role string into the closed enum.
// Unknown values map to the empty role.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RolePhotographer:
		return RolePhotographer
	case RoleClient:
		return RoleClient
	default:
		return ""
	}
}

// Label returns the display form used in audit descriptions.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RolePhotographer:
		return "Photographer"
	default:
		return "User"
	}
}

// RoleSet is the set of roles held by a user.
type RoleSet []Role

// ParseRoleSet builds a RoleSet from raw strings, dropping unknown values.
func ParseRoleSet(raw []string) RoleSet {
	set := make(RoleSet, 0, len(raw))
	for _, item := range raw {
		role := ParseRole(item)
		if role == "" {
			continue
		}
		if !set.Has(role) {
			set = append(set, role)
		}
	}
	return set
}

// Has reports whether the set contains the given role.
func (s RoleSet) Has(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// Primary returns the highest-privilege role in the set. Empty sets derive the
// plain client role.
func (s RoleSet) Primary() Role {
	best := RoleClient
	for _, r := range s {
		if privilege[r] > privilege[best] {
			best = r
		}
	}
	return best
}

// Strings renders the set for persistence and token claims.
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// User is an account identity. A user may be a plain client, a photographer
// owning albums, an admin, or any combination.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:180;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:180;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RolesRaw     string    `gorm:"column:roles;size:255;not null" json:"-"`
	IsActive     bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Roles        RoleSet   `gorm:"-" json:"roles"`
}

// BeforeSave flattens the role set into its storage form.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.RolesRaw = encodeRoles(u.Roles)
	return nil
}

// AfterFind hydrates the role set after retrieval.
func (u *User) AfterFind(tx *gorm.DB) error {
	u.Roles = decodeRoles(u.RolesRaw)
	return nil
}

// DisplayName prefers the username, falling back to email.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.Username) != "" {
		return u.Username
	}
	return u.Email
}

func encodeRoles(roles RoleSet) string {
	if len(roles) == 0 {
		return string(RoleClient)
	}
	return strings.Join(roles.Strings(), ",")
}

func decodeRoles(raw string) RoleSet {
	parts := strings.Split(raw, ",")
	return ParseRoleSet(parts)
}
