package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eduplatform/teacher-store/internal/domain"
)

const identityKey = "auth_identity"

// Identity is the caller resolved for a request: either Anonymous or Authenticated.
type Identity interface {
	isIdentity()
}

// Anonymous is a caller without a valid session.
type Anonymous struct{}

// Authenticated is a caller whose token verified and whose account is active.
type Authenticated struct {
	User    *domain.User
	Session domain.Session
}

func (Anonymous) isIdentity()     {}
func (Authenticated) isIdentity() {}

// UserID returns the caller's user id.
func (a Authenticated) UserID() string {
	return a.User.ID
}

// Role returns the caller's current role as stored, not as claimed by the token.
func (a Authenticated) Role() domain.Role {
	return a.User.Role
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (a Authenticated) IsAdmin() bool {
	return a.User.IsAdmin()
}

// IdentityFrom returns the identity attached by Identify, defaulting to Anonymous.
func IdentityFrom(c *fiber.Ctx) Identity {
	if id, ok := c.Locals(identityKey).(Identity); ok {
		return id
	}
	return Anonymous{}
}

// Caller returns the authenticated identity, if any.
func Caller(c *fiber.Ctx) (Authenticated, bool) {
	auth, ok := IdentityFrom(c).(Authenticated)
	return auth, ok
}

func setIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(identityKey, id)
}
