package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/repository"
)

func TestCreateTicketFirstMessageFromUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, teacher := env.registerTeacher(t, "fatima@x.ma")
	_, admin := env.provisionAdmin(t)

	ticket, err := env.tickets.CreateTicket(ctx, teacher, TicketCreateInput{Subject: "Download link", Message: "The PDF link is broken"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityNormal, ticket.Priority)
	require.Len(t, ticket.Messages, 1)
	assert.Equal(t, domain.SenderUser, ticket.Messages[0].Sender)

	adminTicket, err := env.tickets.CreateTicket(ctx, admin, TicketCreateInput{Subject: "Internal", Message: "note", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, adminTicket.Priority)
	assert.Equal(t, domain.SenderUser, adminTicket.Messages[0].Sender)

	_, err = env.tickets.CreateTicket(ctx, teacher, TicketCreateInput{Subject: " ", Message: "x"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = env.tickets.CreateTicket(ctx, teacher, TicketCreateInput{Subject: "x", Message: "y", Priority: "URGENT"})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestAdminReplyPromotesOpenTicketOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, teacher := env.registerTeacher(t, "fatima@x.ma")
	_, admin := env.provisionAdmin(t)

	ticket, err := env.tickets.CreateTicket(ctx, teacher, TicketCreateInput{Subject: "Access", Message: "Cannot open bundle"})
	require.NoError(t, err)

	_, err = env.tickets.AddMessage(ctx, teacher, ticket.ID, "Any news?")
	require.NoError(t, err)
	got, err := env.tickets.GetTicket(ctx, teacher, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, got.Status)

	reply, err := env.tickets.AddMessage(ctx, admin, ticket.ID, "Looking into it")
	require.NoError(t, err)
	assert.Equal(t, domain.SenderAdmin, reply.Sender)

	got, err = env.tickets.GetTicket(ctx, admin, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, got.Status)

	_, err = env.tickets.UpdateStatus(ctx, admin, ticket.ID, "OPEN")
	require.NoError(t, err)
	_, err = env.tickets.AddMessage(ctx, admin, ticket.ID, "Reopened for follow-up")
	require.NoError(t, err)
	got, err = env.tickets.GetTicket(ctx, teacher, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, got.Status)

	_, err = env.tickets.UpdateStatus(ctx, admin, ticket.ID, "CLOSED")
	require.NoError(t, err)
	_, err = env.tickets.AddMessage(ctx, admin, ticket.ID, "Closing note")
	require.NoError(t, err)
	got, err = env.tickets.GetTicket(ctx, teacher, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, got.Status)

	require.Len(t, got.Messages, 5)
	for i := 1; i < len(got.Messages); i++ {
		assert.False(t, got.Messages[i].CreatedAt.Before(got.Messages[i-1].CreatedAt))
	}
	assert.Equal(t, "Cannot open bundle", got.Messages[0].Content)
	assert.Equal(t, "Closing note", got.Messages[4].Content)
}

func TestUserCannotReplyToClosedTicket(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, teacher := env.registerTeacher(t, "fatima@x.ma")
	_, admin := env.provisionAdmin(t)

	ticket, err := env.tickets.CreateTicket(ctx, teacher, TicketCreateInput{Subject: "Refund", Message: "Wrong bundle"})
	require.NoError(t, err)

	for _, status := range []string{"CLOSED", "ARCHIVED"} {
		_, err = env.tickets.UpdateStatus(ctx, admin, ticket.ID, status)
		require.NoError(t, err)
		_, err = env.tickets.AddMessage(ctx, teacher, ticket.ID, "Hello?")
		assertStatus(t, err, http.StatusConflict)
	}
}

// closeAfterRead closes the ticket right after it is read outside a
// transaction, the way a concurrent admin request would.
type closeAfterRead struct {
	repository.TicketRepository
}

func (r closeAfterRead) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := r.TicketRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.TicketRepository.UpdateStatus(ctx, id, domain.TicketStatusClosed); err != nil {
		return nil, err
	}
	return ticket, nil
}

func TestUserReplyRechecksStatusInsideTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, teacher := env.registerTeacher(t, "fatima@x.ma")

	ticket, err := env.tickets.CreateTicket(ctx, teacher, TicketCreateInput{Subject: "Refund", Message: "Wrong bundle"})
	require.NoError(t, err)

	racing := NewTicketService(TicketDependencies{
		TicketRepo:   closeAfterRead{env.store.Tickets},
		MessageRepo:  env.store.Messages,
		AdminLogRepo: env.store.AdminLogs,
		Transactor:   env.store.Tx,
	})
	_, err = racing.AddMessage(ctx, teacher, ticket.ID, "Hello?")
	assertStatus(t, err, http.StatusConflict)

	msgs, err := env.store.Messages.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestTicketAccessControl(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, owner := env.registerTeacher(t, "fatima@x.ma")
	_, other := env.registerTeacher(t, "youssef@x.ma")

	ticket, err := env.tickets.CreateTicket(ctx, owner, TicketCreateInput{Subject: "Invoice", Message: "Need an invoice"})
	require.NoError(t, err)

	_, err = env.tickets.GetTicket(ctx, other, ticket.ID)
	assertStatus(t, err, http.StatusForbidden)

	_, err = env.tickets.AddMessage(ctx, other, ticket.ID, "me too")
	assertStatus(t, err, http.StatusForbidden)

	_, err = env.tickets.AddMessage(ctx, owner, "missing", "hello")
	assertStatus(t, err, http.StatusNotFound)

	_, err = env.tickets.AddMessage(ctx, owner, ticket.ID, "   ")
	assertStatus(t, err, http.StatusBadRequest)

	_, err = env.tickets.UpdateStatus(ctx, owner, ticket.ID, "CLOSED")
	assertStatus(t, err, http.StatusForbidden)

	_, err = env.tickets.ListAllTickets(ctx, owner, "")
	assertStatus(t, err, http.StatusForbidden)

	mine, err := env.tickets.ListMyTickets(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestUpdateStatusIsAudited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, teacher := env.registerTeacher(t, "fatima@x.ma")
	_, admin := env.provisionAdmin(t)

	ticket, err := env.tickets.CreateTicket(ctx, teacher, TicketCreateInput{Subject: "Login", Message: "Forgot password"})
	require.NoError(t, err)

	updated, err := env.tickets.UpdateStatus(ctx, admin, ticket.ID, "closed")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)

	logs := env.adminLogs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ActionUpdateTicketStatus, logs[0].Action)
	assert.Equal(t, domain.TargetTicket, logs[0].TargetType)
	assert.Equal(t, "Changed ticket status from OPEN to CLOSED", logs[0].Details)

	_, err = env.tickets.UpdateStatus(ctx, admin, ticket.ID, "SOLVED")
	assertStatus(t, err, http.StatusBadRequest)

	_, err = env.tickets.UpdateStatus(ctx, admin, "missing", "OPEN")
	assertStatus(t, err, http.StatusNotFound)

	closed, err := env.tickets.ListAllTickets(ctx, admin, "CLOSED")
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, "fatima@x.ma", closed[0].RequesterEmail)
	assert.Len(t, closed[0].Messages, 1)
}
