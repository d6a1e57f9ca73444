package domain

import "time"

// AdminAction tags a privileged mutation in the audit trail.
type AdminAction string

const (
	ActionConfirmPayment     AdminAction = "CONFIRM_PAYMENT"
	ActionActivateUser       AdminAction = "ACTIVATE_USER"
	ActionSuspendUser        AdminAction = "SUSPEND_USER"
	ActionUpdateTicketStatus AdminAction = "UPDATE_TICKET_STATUS"
)

// AdminLogTarget names the kind of record an entry points at.
type AdminLogTarget string

const (
	TargetOrder  AdminLogTarget = "Order"
	TargetUser   AdminLogTarget = "User"
	TargetTicket AdminLogTarget = "Ticket"
)

// AdminLog is an immutable audit trail entry.
type AdminLog struct {
	ID         string
	AdminID    string
	Action     AdminAction
	TargetID   string
	TargetType AdminLogTarget
	Details    string
	CreatedAt  time.Time
}
