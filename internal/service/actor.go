package service

import "github.com/shutterdesk/shutterdesk-api/internal/models"

// Actor is the authenticated identity performing an operation. It is threaded
// explicitly through every service call; there is no ambient security context.
type Actor struct {
	ID       uint
	Username string
	Email    string
	Roles    models.RoleSet
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Roles.Has(models.RoleAdmin)
}

// IsPhotographer reports whether the actor holds the photographer role.
func (a Actor) IsPhotographer() bool {
	return a.Roles.Has(models.RolePhotographer)
}

// IsClientOnly reports whether the actor is a plain client: neither a
// photographer nor an admin. Booking creation is restricted to such actors.
func (a Actor) IsClientOnly() bool {
	return !a.IsAdmin() && !a.IsPhotographer()
}

// DisplayName prefers the username, falling back to email.
func (a Actor) DisplayName() string {
	if a.Username != "" {
		return a.Username
	}
	return a.Email
}

// RoleLabel is the display form of the actor's primary role, used in audit
// descriptions ("Admin", "Photographer", "User").
func (a Actor) RoleLabel() string {
	return a.Roles.Primary().Label()
}
