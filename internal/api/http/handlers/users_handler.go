package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/eduplatform/teacher-store/internal/api/dto"
	"github.com/eduplatform/teacher-store/internal/api/validation"
	"github.com/eduplatform/teacher-store/internal/auth"
	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/service"
)

// CookieSettings controls the session cookie written on login.
type CookieSettings struct {
	Name   string
	Secure bool
}

// UsersHandler exposes registration, session and profile endpoints.
type UsersHandler struct {
	auth   *service.AuthService
	cookie CookieSettings
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, cookie CookieSettings) *UsersHandler {
	return &UsersHandler{auth: authService, cookie: cookie}
}

// Register handles POST /api/auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		EducationLevel:    domain.EducationLevel(req.EducationLevel),
		Subject:           req.Subject,
		Phone:             req.Phone,
		City:              req.City,
		Institution:       req.Institution,
		PreferredLanguage: domain.Language(req.PreferredLanguage),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user":    dto.NewUserResponse(user),
	})
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if h.cookie.Name != "" {
		c.Cookie(&fiber.Cookie{
			Name:     h.cookie.Name,
			Value:    res.Token,
			Path:     "/",
			Expires:  res.Session.ExpiresAt,
			HTTPOnly: true,
			Secure:   h.cookie.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.JSON(dto.AuthResponse{
		Message:   "Login successful",
		User:      dto.NewUserResponse(res.User),
		Token:     res.Token,
		ExpiresAt: res.Session.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout. Anonymous callers just get the cookie cleared.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if caller, ok := auth.Caller(c); ok {
		if err := h.auth.Logout(c.UserContext(), caller.Session); err != nil {
			return err
		}
	}
	if h.cookie.Name != "" {
		c.Cookie(&fiber.Cookie{
			Name:     h.cookie.Name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Secure:   h.cookie.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Profile handles GET /api/user/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	user, err := h.auth.GetProfile(c.UserContext(), actorFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}

// UpdateProfile handles PUT /api/user/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	upd := service.ProfileUpdate{
		Name:        req.Name,
		Subject:     req.Subject,
		Phone:       req.Phone,
		City:        req.City,
		Institution: req.Institution,
	}
	if req.EducationLevel != nil {
		level := domain.EducationLevel(*req.EducationLevel)
		upd.EducationLevel = &level
	}
	if req.PreferredLanguage != nil {
		lang := domain.Language(*req.PreferredLanguage)
		upd.PreferredLanguage = &lang
	}

	user, err := h.auth.UpdateProfile(c.UserContext(), actorFrom(c).UserID, upd)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"user":    dto.NewUserResponse(user),
	})
}

// ChangePassword handles PUT /api/user/password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), actorFrom(c).UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}
