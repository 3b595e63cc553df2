// Package memory keeps every repository in process. It backs the service in
// local development (DB_DRIVER=memory, REDIS_DRIVER=memory) and the use case
// tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
)

type expiring struct {
	data      []byte
	expiresAt time.Time
}

type codeEntry struct {
	code      domain.VerificationCode
	expiresAt time.Time
}

type state struct {
	identities      map[string]domain.AuthIdentity
	identityByPhone map[string]string
	sessions        map[string]domain.Session
	users           map[int]domain.User
	profiles        map[int]domain.UserProfile
	dating          map[int]domain.UserDatingPreferences
	app             map[int]domain.UserAppPreferences
	photos          map[int][]domain.UserPhoto
	interests       map[int][]string
	prompts         map[int][]domain.UserPrompt

	areas           []domain.Area
	interestCatalog []domain.Interest
	promptCatalog   []domain.Prompt

	nextID int
}

func newState() state {
	return state{
		identities:      make(map[string]domain.AuthIdentity),
		identityByPhone: make(map[string]string),
		sessions:        make(map[string]domain.Session),
		users:           make(map[int]domain.User),
		profiles:        make(map[int]domain.UserProfile),
		dating:          make(map[int]domain.UserDatingPreferences),
		app:             make(map[int]domain.UserAppPreferences),
		photos:          make(map[int][]domain.UserPhoto),
		interests:       make(map[int][]string),
		prompts:         make(map[int][]domain.UserPrompt),
	}
}

// Store is the shared backing for all in-memory repositories.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	db   state

	drafts map[string]expiring
	codes  map[string]codeEntry

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		db:     newState(),
		drafts: make(map[string]expiring),
		codes:  make(map[string]codeEntry),
		now:    time.Now,
	}
}

// SetClock replaces the clock used for timestamps and key expiry.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) id() int {
	s.db.nextID++
	return s.db.nextID
}

// SeedAreas adds districts to the area catalog.
func (s *Store) SeedAreas(areas ...domain.Area) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.areas = append(s.db.areas, areas...)
}

func (s *Store) SeedInterests(interests ...domain.Interest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.interestCatalog = append(s.db.interestCatalog, interests...)
}

func (s *Store) SeedPrompts(prompts ...domain.Prompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.promptCatalog = append(s.db.promptCatalog, prompts...)
}

type txKey struct{}

// txLog holds the undo steps of one transaction, newest last.
type txLog struct {
	undo []func()
}

// journal records how to restore m[key] if the transaction bound to ctx rolls
// back. Callers hold s.mu and call it before writing the key.
func journal[K comparable, V any](ctx context.Context, m map[K]V, key K) {
	log, ok := ctx.Value(txKey{}).(*txLog)
	if !ok {
		return
	}
	old, existed := m[key]
	log.undo = append(log.undo, func() {
		if existed {
			m[key] = old
		} else {
			delete(m, key)
		}
	})
}

// Transactor gives all-or-nothing semantics over the relational maps. Each
// transaction keeps an undo journal of the keys it wrote, so a rollback never
// touches rows written outside it. Transactions are serialized; id allocation
// is not rolled back.
type Transactor struct {
	store *Store
}

func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txLog); ok {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	log := &txLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		t.store.undoTo(log, 0)
		return err
	}
	return nil
}

func (t *Transactor) WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	log, ok := ctx.Value(txKey{}).(*txLog)
	if !ok {
		return fn(ctx)
	}

	mark := len(log.undo)
	if err := fn(ctx); err != nil {
		t.store.undoTo(log, mark)
		return err
	}
	return nil
}

func (s *Store) undoTo(log *txLog, mark int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(log.undo) - 1; i >= mark; i-- {
		log.undo[i]()
	}
	log.undo = log.undo[:mark]
}
