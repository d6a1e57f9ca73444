package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/auth"
	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/events"
	"github.com/eduplatform/teacher-store/internal/repository"
	apperrors "github.com/eduplatform/teacher-store/pkg/util"
)

const recentOrdersLimit = 10

// AdminService backs the administrator dashboard and account management.
type AdminService struct {
	users     repository.UserRepository
	orders    repository.OrderRepository
	adminLogs repository.AdminLogRepository
	tx        repository.Transactor
	sessions  auth.SessionStore
	events    eventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// AdminDependencies bundles requirements for the admin service.
type AdminDependencies struct {
	UserRepo     repository.UserRepository
	OrderRepo    repository.OrderRepository
	AdminLogRepo repository.AdminLogRepository
	Transactor   repository.Transactor
	Sessions     auth.SessionStore
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// AdminLogQuery narrows the audit trail listing.
type AdminLogQuery struct {
	TargetType string
	TargetID   string
	Limit      int
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		users:     deps.UserRepo,
		orders:    deps.OrderRepo,
		adminLogs: deps.AdminLogRepo,
		tx:        deps.Transactor,
		sessions:  deps.Sessions,
		events:    eventPublisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Stats aggregates the dashboard counters.
func (s *AdminService) Stats(ctx context.Context, actor Actor) (*domain.OrderStats, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	totals, err := s.orders.Totals(ctx)
	if err != nil {
		return nil, err
	}
	teachers, err := s.users.CountByRole(ctx, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.List(ctx, repository.OrderFilter{Limit: recentOrdersLimit})
	if err != nil {
		return nil, err
	}

	return &domain.OrderStats{
		TotalOrders:   totals.TotalOrders,
		PendingOrders: totals.PendingOrders,
		PaidOrders:    totals.PaidOrders,
		TotalTeachers: teachers,
		TotalRevenue:  totals.Revenue,
		RecentOrders:  recent,
	}, nil
}

// ListTeachers returns USER accounts with their order counts, newest first.
func (s *AdminService) ListTeachers(ctx context.Context, actor Actor) ([]domain.TeacherSummary, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.ListTeachers(ctx)
}

// SetTeacherStatus activates or suspends a teacher. Every call writes one
// audit entry, even when the flag already has the requested value. Suspension
// revokes the teacher's existing sessions.
func (s *AdminService) SetTeacherStatus(ctx context.Context, actor Actor, userID string, active bool) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	action, verb := domain.ActionActivateUser, "Activated"
	if !active {
		action, verb = domain.ActionSuspendUser, "Suspended"
	}

	var updated *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		target, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if target.Role != domain.RoleUser {
			return repository.ErrNotFound
		}
		updated, err = s.users.SetActive(ctx, userID, active)
		if err != nil {
			return err
		}
		return s.adminLogs.Create(ctx, &domain.AdminLog{
			AdminID:    actor.UserID,
			Action:     action,
			TargetID:   userID,
			TargetType: domain.TargetUser,
			Details:    fmt.Sprintf("%s user %s", verb, updated.Email),
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("teacher")
		}
		return nil, err
	}

	if !active && s.sessions != nil {
		if err := s.sessions.RevokeUser(ctx, userID, s.now()); err != nil {
			s.logger.Warn("revoke sessions of suspended user failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	s.logger.Info("teacher status changed",
		zap.String("user_id", userID),
		zap.Bool("is_active", active),
		zap.String("admin_id", actor.UserID))
	s.events.publish(ctx, events.Event{
		Type:        events.EventUserStatusChanged,
		AggregateID: userID,
		ActorID:     actor.UserID,
		Payload:     events.UserStatusChangedPayload{IsActive: active},
	})
	return updated, nil
}

// ListLogs returns the audit trail, newest first.
func (s *AdminService) ListLogs(ctx context.Context, actor Actor, q AdminLogQuery) ([]domain.AdminLog, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	filter := repository.AdminLogFilter{Limit: q.Limit}
	if q.TargetType != "" {
		target := domain.AdminLogTarget(q.TargetType)
		switch target {
		case domain.TargetOrder, domain.TargetUser, domain.TargetTicket:
		default:
			return nil, apperrors.NewValidationError("invalid target type", map[string]any{"targetType": q.TargetType})
		}
		filter.TargetType = &target
	}
	if q.TargetID != "" {
		filter.TargetID = &q.TargetID
	}
	return s.adminLogs.List(ctx, filter)
}
