package domain

import "time"

// MessageSender indicates which side of the conversation wrote a message.
type MessageSender string

const (
	SenderUser  MessageSender = "USER"
	SenderAdmin MessageSender = "ADMIN"
)

// SenderForRole maps the author's role onto the conversation side.
func SenderForRole(role Role) MessageSender {
	if role == RoleAdmin {
		return SenderAdmin
	}
	return SenderUser
}

// TicketMessage is one entry in a linear ticket conversation.
type TicketMessage struct {
	ID        string
	TicketID  string
	Sender    MessageSender
	Content   string
	CreatedAt time.Time
}
