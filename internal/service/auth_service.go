package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/auth"
	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/repository"
	apperrors "github.com/eduplatform/teacher-store/pkg/util"
)

// AuthService coordinates registration, login and profile flows.
type AuthService struct {
	users      repository.UserRepository
	tx         repository.Transactor
	tokenMgr   *auth.TokenManager
	sessions   auth.SessionStore
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	Transactor   repository.Transactor
	TokenManager *auth.TokenManager
	Sessions     auth.SessionStore
	BcryptCost   int
	Logger       *zap.Logger
}

// RegisterInput is the self-registration payload of a teacher.
type RegisterInput struct {
	Name              string
	Email             string
	Password          string
	EducationLevel    domain.EducationLevel
	Subject           string
	Phone             string
	City              string
	Institution       string
	PreferredLanguage domain.Language
}

// ProfileUpdate carries the optional profile fields a user may change.
type ProfileUpdate struct {
	Name              *string
	EducationLevel    *domain.EducationLevel
	Subject           *string
	Phone             *string
	City              *string
	Institution       *string
	PreferredLanguage *domain.Language
}

// AdminInput provisions an administrator account.
type AdminInput struct {
	Email    string
	Name     string
	Password string
}

// LoginResult is an issued session.
type LoginResult struct {
	User    *domain.User
	Token   string
	Session domain.Session
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tx:         deps.Transactor,
		tokenMgr:   deps.TokenManager,
		sessions:   deps.Sessions,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
	}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a teacher account. New accounts are always role USER and active.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := NormalizeEmail(in.Email)
	if len(in.Password) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", map[string]any{"password": "min 8 characters"})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	lang := in.PreferredLanguage
	if lang == "" {
		lang = domain.DefaultLanguage
	}
	user := &domain.User{
		Name:              strings.TrimSpace(in.Name),
		Email:             email,
		PasswordHash:      hash,
		Role:              domain.RoleUser,
		EducationLevel:    in.EducationLevel,
		Subject:           strings.TrimSpace(in.Subject),
		Phone:             strings.TrimSpace(in.Phone),
		City:              strings.TrimSpace(in.City),
		Institution:       strings.TrimSpace(in.Institution),
		PreferredLanguage: lang,
		IsActive:          true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid email or password")
	}
	if !user.IsActive {
		return nil, apperrors.NewForbidden("account suspended")
	}

	token, session, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{User: user, Token: token, Session: session}, nil
}

// Logout revokes the presented session.
func (s *AuthService) Logout(ctx context.Context, session domain.Session) error {
	if err := s.sessions.Revoke(ctx, session); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// GetProfile returns the caller's account.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of upd.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.EducationLevel != nil {
		user.EducationLevel = *upd.EducationLevel
	}
	if upd.Subject != nil {
		user.Subject = strings.TrimSpace(*upd.Subject)
	}
	if upd.Phone != nil {
		user.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.City != nil {
		user.City = strings.TrimSpace(*upd.City)
	}
	if upd.Institution != nil {
		user.Institution = strings.TrimSpace(*upd.Institution)
	}
	if upd.PreferredLanguage != nil {
		user.PreferredLanguage = *upd.PreferredLanguage
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("current password is incorrect", map[string]any{"currentPassword": "incorrect"})
	}
	if len(newPassword) < auth.MinPasswordLength {
		return apperrors.NewValidationError("password must be at least 8 characters", map[string]any{"newPassword": "min 8 characters"})
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// ProvisionAdmin creates an administrator. With overwrite set, an existing
// account with the same email is promoted, reactivated and given the new
// password; otherwise an existing email is a conflict.
func (s *AuthService) ProvisionAdmin(ctx context.Context, in AdminInput, overwrite bool) (*domain.User, bool, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, false, apperrors.NewValidationError("a valid email is required", nil)
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, false, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}

	var (
		result  *domain.User
		created bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			if !overwrite {
				return apperrors.NewConflict("email already registered", nil)
			}
			existing.Role = domain.RoleAdmin
			existing.PasswordHash = hash
			if in.Name != "" {
				existing.Name = in.Name
			}
			if err := s.users.Update(ctx, existing); err != nil {
				return err
			}
			result, err = s.users.SetActive(ctx, existing.ID, true)
			return err
		case errors.Is(err, repository.ErrNotFound):
			user := &domain.User{
				Name:              in.Name,
				Email:             email,
				PasswordHash:      hash,
				Role:              domain.RoleAdmin,
				EducationLevel:    domain.EducationSecondary,
				Subject:           "Administration",
				PreferredLanguage: domain.DefaultLanguage,
				IsActive:          true,
			}
			if err := s.users.Create(ctx, user); err != nil {
				return err
			}
			result, created = user, true
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
