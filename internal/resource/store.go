package resource

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"eduport/internal/backend"
	console "eduport/internal/utils/logger"
)

// Notifier receives the outcome of store mutations. It replaces the global
// event bus the back-office grew historically: the sink is passed in
// explicitly, so nothing observes mutations it was not wired to.
type Notifier interface {
	Notify(resource, event, id string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string, string) {}

// LogNotifier writes notifications to the console logger.
type LogNotifier struct {
	Log *console.Logger
}

func (n LogNotifier) Notify(resource, event, id string) {
	n.Log.Success("%s.%s %s", resource, event, id)
}

// Store maintains the authoritative ordered collection of one resource type
// and mediates every read and write to the data service. Each resource type
// gets its own isolated Store.
type Store struct {
	schema  Schema
	backend backend.Client
	notify  Notifier
	log     *console.Logger

	mu     sync.RWMutex
	items  []backend.Record
	loaded bool
}

// NewStore builds a store for one schema. A nil notifier is replaced with a
// no-op sink.
func NewStore(schema Schema, client backend.Client, notify Notifier) *Store {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Store{
		schema:  schema,
		backend: client,
		notify:  notify,
		log:     console.New("STORE:" + strings.ToUpper(schema.Resource)),
	}
}

// Schema returns the store's resource schema.
func (s *Store) Schema() Schema { return s.schema }

// Load fetches the full collection ordered by the order column, creation
// order breaking ties. On failure the previously loaded items are kept
// untouched; the caller sees the error, never a partial overwrite.
func (s *Store) Load(ctx context.Context) error {
	if s.backend == nil {
		return ErrConfiguration
	}

	records, err := s.backend.Query(ctx, s.schema.Resource, nil, backend.OrderBy{Field: s.schema.OrderField})
	if err != nil {
		if errors.Is(err, backend.ErrUnconfigured) {
			return ErrConfiguration
		}
		return &QueryError{Resource: s.schema.Resource, Err: err}
	}

	s.mu.Lock()
	s.items = records
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the in-memory collection in display order.
func (s *Store) Items() []backend.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]backend.Record, len(s.items))
	for i, rec := range s.items {
		out[i] = rec.Clone()
	}
	return out
}

// Get returns the in-memory record with the given id.
func (s *Store) Get(id string) (backend.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.items {
		if rec.ID() == id {
			return rec.Clone(), true
		}
	}
	return nil, false
}

// Validate checks the schema's required fields against a record without any
// network traffic.
func (s *Store) Validate(record backend.Record) error {
	var missing []string
	for _, name := range s.schema.RequiredFields() {
		if isEmptyValue(record[name]) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Resource: s.schema.Resource, Fields: missing}
	}
	return nil
}

// Upsert persists the record: update when it carries an id, create
// otherwise. Required fields are checked before the network call. On success
// the backend-returned record replaces (or joins) the in-memory collection.
func (s *Store) Upsert(ctx context.Context, record backend.Record) (backend.Record, error) {
	if s.backend == nil {
		return nil, ErrConfiguration
	}
	if err := s.Validate(record); err != nil {
		return nil, err
	}

	var (
		saved backend.Record
		err   error
		event string
	)
	if id := record.ID(); id != "" {
		saved, err = s.backend.Update(ctx, s.schema.Resource, id, record)
		event = "updated"
	} else {
		saved, err = s.backend.Insert(ctx, s.schema.Resource, record)
		event = "created"
	}
	if err != nil {
		if errors.Is(err, backend.ErrUnconfigured) {
			return nil, ErrConfiguration
		}
		return nil, &PersistenceError{Resource: s.schema.Resource, ID: record.ID(), Err: err}
	}

	s.mergeLocked(saved)
	s.notify.Notify(s.schema.Resource, event, saved.ID())
	return saved.Clone(), nil
}

// Remove deletes the record with the given id. Removing an id that is
// already gone is a successful no-op, so double-clicks do not error.
func (s *Store) Remove(ctx context.Context, id string) error {
	if s.backend == nil {
		return ErrConfiguration
	}

	if err := s.backend.Delete(ctx, s.schema.Resource, id); err != nil {
		if errors.Is(err, backend.ErrUnconfigured) {
			return ErrConfiguration
		}
		if !errors.Is(err, backend.ErrNotFound) {
			return &PersistenceError{Resource: s.schema.Resource, ID: id, Err: err}
		}
	}

	s.mu.Lock()
	for i, rec := range s.items {
		if rec.ID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify.Notify(s.schema.Resource, "deleted", id)
	return nil
}

// SetFlag persists a single boolean column change and updates the in-memory
// copy on success.
func (s *Store) SetFlag(ctx context.Context, id, flag string, value bool) error {
	if s.backend == nil {
		return ErrConfiguration
	}
	if !s.schema.HasFlag(flag) {
		return &PersistenceError{Resource: s.schema.Resource, ID: id, Err: errors.New("unknown flag " + flag)}
	}

	saved, err := s.backend.Update(ctx, s.schema.Resource, id, backend.Record{flag: value})
	if err != nil {
		if errors.Is(err, backend.ErrUnconfigured) {
			return ErrConfiguration
		}
		return &PersistenceError{Resource: s.schema.Resource, ID: id, Err: err}
	}

	s.mergeLocked(saved)
	s.notify.Notify(s.schema.Resource, "updated", id)
	return nil
}

// Move shifts the record one position up or down by swapping order values
// with its neighbour. Boundary moves return nil without touching the
// backend.
//
// The data service offers no multi-statement transaction, so the swap is two
// writes with a best-effort compensating write: if the second write fails
// the first is reverted; if compensation itself fails the store reloads from
// the backend and reports the risk. Two overlapping reorders racing each
// other are not protected against.
func (s *Store) Move(ctx context.Context, id string, dir Direction) error {
	if s.backend == nil {
		return ErrConfiguration
	}

	s.mu.RLock()
	plan, ok := planAdjacentSwap(s.items, s.schema.OrderField, id, dir)
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	return s.persistSwap(ctx, plan)
}

// Reorder swaps the order values of two records by id. Both writes must
// land; a half-applied swap is compensated or surfaced as a ReorderError.
func (s *Store) Reorder(ctx context.Context, idA, idB string) error {
	if s.backend == nil {
		return ErrConfiguration
	}

	s.mu.RLock()
	var a, b backend.Record
	for _, rec := range s.items {
		switch rec.ID() {
		case idA:
			a = rec
		case idB:
			b = rec
		}
	}
	s.mu.RUnlock()
	if a == nil || b == nil {
		return &PersistenceError{Resource: s.schema.Resource, Err: errors.New("reorder targets not loaded")}
	}

	return s.persistSwap(ctx, swapPlan{
		FirstID:     idA,
		SecondID:    idB,
		FirstOrder:  b[s.schema.OrderField],
		SecondOrder: a[s.schema.OrderField],
	})
}

func (s *Store) persistSwap(ctx context.Context, plan swapPlan) error {
	field := s.schema.OrderField

	first, err := s.backend.Update(ctx, s.schema.Resource, plan.FirstID, backend.Record{field: plan.FirstOrder})
	if err != nil {
		if errors.Is(err, backend.ErrUnconfigured) {
			return ErrConfiguration
		}
		// Nothing persisted, in-memory order matches the backend still.
		return &ReorderError{
			Resource:    s.schema.Resource,
			FirstID:     plan.FirstID,
			SecondID:    plan.SecondID,
			Compensated: true,
			Err:         err,
		}
	}

	second, err := s.backend.Update(ctx, s.schema.Resource, plan.SecondID, backend.Record{field: plan.SecondOrder})
	if err != nil {
		// Revert the first write so the persisted order stays whole.
		if _, compErr := s.backend.Update(ctx, s.schema.Resource, plan.FirstID, backend.Record{field: plan.SecondOrder}); compErr != nil {
			s.log.Warn("compensating write failed for %s, reloading: %v", plan.FirstID, compErr)
			if loadErr := s.Load(ctx); loadErr != nil {
				s.log.Warn("reload after failed compensation also failed: %v", loadErr)
			}
			return &ReorderError{
				Resource: s.schema.Resource,
				FirstID:  plan.FirstID,
				SecondID: plan.SecondID,
				Err:      err,
			}
		}
		return &ReorderError{
			Resource:    s.schema.Resource,
			FirstID:     plan.FirstID,
			SecondID:    plan.SecondID,
			Compensated: true,
			Err:         err,
		}
	}

	s.mergeLocked(first)
	s.mergeLocked(second)
	s.notify.Notify(s.schema.Resource, "reordered", plan.FirstID)
	return nil
}

// mergeLocked folds a backend-returned record into the collection, replacing
// by id or appending, then restores display order.
func (s *Store) mergeLocked(saved backend.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i, rec := range s.items {
		if rec.ID() == saved.ID() {
			s.items[i] = saved
			replaced = true
			break
		}
	}
	if !replaced {
		s.items = append(s.items, saved)
	}

	field := s.schema.OrderField
	sort.SliceStable(s.items, func(i, j int) bool {
		return orderValue(s.items[i], field) < orderValue(s.items[j], field)
	})
}

func isEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []interface{}:
		return len(val) == 0
	default:
		return false
	}
}
