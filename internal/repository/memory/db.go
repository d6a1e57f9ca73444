// Package memory is a map-backed implementation of the repository interfaces,
// used by tests and when no Postgres DSN is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/repository"
)

// DB holds all tables behind one lock.
type DB struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	last time.Time

	users     map[string]domain.User
	userOrder []string
	orders    map[string]domain.Order
	ordOrder  []string
	tickets   map[string]domain.Ticket
	messages  map[string][]domain.TicketMessage
	logs      []domain.AdminLog
}

// New returns an empty database.
func New() *DB {
	return &DB{
		users:    make(map[string]domain.User),
		orders:   make(map[string]domain.Order),
		tickets:  make(map[string]domain.Ticket),
		messages: make(map[string][]domain.TicketMessage),
	}
}

// NewStore returns repositories backed by a fresh in-memory database.
func NewStore() *repository.Store {
	return New().Store()
}

// Store exposes the database through the repository interfaces.
func (db *DB) Store() *repository.Store {
	return &repository.Store{
		Users:     &userRepository{db: db},
		Orders:    &orderRepository{db: db},
		Tickets:   &ticketRepository{db: db},
		Messages:  &ticketMessageRepository{db: db},
		AdminLogs: &adminLogRepository{db: db},
		Tx:        &transactor{db: db},
	}
}

// now returns a strictly increasing timestamp so ordering by time is stable.
// Callers must hold db.mu for writing.
func (db *DB) now() time.Time {
	t := time.Now().UTC()
	if !t.After(db.last) {
		t = db.last.Add(time.Microsecond)
	}
	db.last = t
	return t
}

// journal collects the inverse of every write made inside one transaction.
// Undo functions run in reverse order under db.mu.
type journal struct {
	undo []func()
}

type txKey struct{}

// record registers fn to revert a write when ctx belongs to a transaction
// that later fails. Callers must hold db.mu for writing.
func record(ctx context.Context, fn func()) {
	if j, ok := ctx.Value(txKey{}).(*journal); ok {
		j.undo = append(j.undo, fn)
	}
}

func (db *DB) rollback(j *journal) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
}

func without(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

type transactor struct {
	db *DB
}

// WithinTx serializes units of work and reverts their own writes when fn fails.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*journal); ok {
		return fn(ctx)
	}

	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()

	j := &journal{}
	if err := fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		t.db.rollback(j)
		return err
	}
	return nil
}
