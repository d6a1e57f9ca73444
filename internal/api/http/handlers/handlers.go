package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eduplatform/teacher-store/internal/auth"
	"github.com/eduplatform/teacher-store/internal/service"
)

// actorFrom converts the request identity into the service-level caller.
// Anonymous requests yield the zero Actor, which services reject.
func actorFrom(c *fiber.Ctx) service.Actor {
	caller, ok := auth.Caller(c)
	if !ok {
		return service.Actor{}
	}
	return service.Actor{UserID: caller.UserID(), Role: caller.Role()}
}
