// Package memory keeps ledger state in process memory. It backs the
// "memory" storage driver and the engine tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
)

type txKey struct{}

// Store holds every table behind one mutex. A transaction holds the mutex
// for its whole body, so transactions are serializable.
type Store struct {
	mu        sync.Mutex
	workers   map[string]worker.Worker
	entries   map[string]overtime.WorkEntry
	summaries map[overtime.SummaryKey]overtime.MonthlySummary
	users     map[string]user.User

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		workers:   make(map[string]worker.Worker),
		entries:   make(map[string]overtime.WorkEntry),
		summaries: make(map[overtime.SummaryKey]overtime.MonthlySummary),
		users:     make(map[string]user.User),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithinTransaction implements overtime.Transactor. State is restored to the
// snapshot taken at the start when fn returns an error or panics.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	workers := maps.Clone(s.workers)
	entries := maps.Clone(s.entries)
	summaries := maps.Clone(s.summaries)
	users := maps.Clone(s.users)
	restore := func() {
		s.workers = workers
		s.entries = entries
		s.summaries = summaries
		s.users = users
	}

	defer func() {
		if p := recover(); p != nil {
			restore()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		restore()
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the store mutex unless ctx already runs inside one of this
// store's transactions.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) joinEntry(e overtime.WorkEntry) overtime.WorkEntry {
	if w, ok := s.workers[e.WorkerID]; ok {
		name, dept := w.Name, w.Department
		e.WorkerName = &name
		e.WorkerDepartment = &dept
	}
	return e
}

func (s *Store) joinSummary(sum overtime.MonthlySummary) overtime.MonthlySummary {
	if w, ok := s.workers[sum.WorkerID]; ok {
		name, dept := w.Name, w.Department
		sum.WorkerName = &name
		sum.WorkerDepartment = &dept
		sum.WorkerEmployeeCode = w.EmployeeCode
	}
	return sum
}
