package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Store bundles the repositories that share one backing database.
type Store struct {
	Users     UserRepository
	Orders    OrderRepository
	Tickets   TicketRepository
	Messages  TicketMessageRepository
	AdminLogs AdminLogRepository
	Tx        Transactor
}

// NewPostgresStore wires every repository to the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:     NewUserRepository(pool),
		Orders:    NewOrderRepository(pool),
		Tickets:   NewTicketRepository(pool),
		Messages:  NewTicketMessageRepository(pool),
		AdminLogs: NewAdminLogRepository(pool),
		Tx:        NewTransactor(pool),
	}
}
