package memengine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/store"
)

// ErrNilIDGenerator is returned when WithIDGenerator receives nil.
var ErrNilIDGenerator = errors.New("id generator must not be nil")

// Engine is a mutex-guarded in-memory store.Engine.
type Engine struct {
	mu     sync.RWMutex
	tables *tables
	newID  func() uuid.UUID
}

// Option defines a functional option for configuring an Engine.
type Option func(*Engine) error

// WithIDGenerator replaces uuid.New, e.g. for deterministic ids in tests.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(e *Engine) error {
		if fn == nil {
			return ErrNilIDGenerator
		}

		e.newID = fn

		return nil
	}
}

// NewEngine creates an empty Engine.
func NewEngine(options ...Option) (*Engine, error) {
	e := &Engine{
		tables: newTables(),
		newID:  uuid.New,
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Catalog returns the Catalog Store; each call runs on its own.
func (e *Engine) Catalog() store.CatalogStore {
	return catalog{s: session{engine: e}}
}

// Ledger returns the Ledger Store; each call runs on its own.
func (e *Engine) Ledger() store.LedgerStore {
	return ledger{s: session{engine: e}}
}

// Fines returns the Fine Store; each call runs on its own.
func (e *Engine) Fines() store.FineStore {
	return fines{s: session{engine: e}}
}

// Atomically runs fn against a private copy of all tables and publishes the copy
// only when fn returns nil.
func (e *Engine) Atomically(ctx context.Context, fn store.UnitOfWorkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	work := e.tables.clone()

	if err := fn(ctx, unitOfWork{s: session{engine: e, tables: work}}); err != nil {
		return err
	}

	e.tables = work

	return nil
}

// unitOfWork exposes the stores bound to the tables of one Atomically call.
type unitOfWork struct {
	s session
}

func (u unitOfWork) Catalog() store.CatalogStore { return catalog(u) }
func (u unitOfWork) Ledger() store.LedgerStore   { return ledger(u) }
func (u unitOfWork) Fines() store.FineStore      { return fines(u) }

// session routes a store call either to the live tables under the engine lock,
// or to the private tables of a running unit of work (which already holds the lock).
type session struct {
	engine *Engine
	tables *tables
}

func (s session) read(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.tables != nil {
		return fn(s.tables)
	}

	s.engine.mu.RLock()
	defer s.engine.mu.RUnlock()

	return fn(s.engine.tables)
}

func (s session) write(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.tables != nil {
		return fn(s.tables)
	}

	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()

	return fn(s.engine.tables)
}

func (s session) nextID() uuid.UUID {
	return s.engine.newID()
}

// Compile-time check to ensure Engine implements store.Engine.
var _ store.Engine = (*Engine)(nil)
