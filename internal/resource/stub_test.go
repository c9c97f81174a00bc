package resource

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"eduport/internal/backend"
)

// stubBackend is an in-memory backend.Client with per-call failure hooks,
// used to exercise the store/session/bulk semantics without a database.
type stubBackend struct {
	mu  sync.Mutex
	seq int

	rows    map[string]backend.Record
	created map[string]int

	queryErr   error
	insertHook func(rec backend.Record) error
	updateHook func(id string) error
	deleteHook func(id string) error

	queryCalls  int
	insertCalls int
	updateCalls int
	deleteCalls int
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		rows:    make(map[string]backend.Record),
		created: make(map[string]int),
	}
}

// put seeds a row directly, bypassing hooks and counters.
func (s *stubBackend) put(rec backend.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.rows[rec.ID()] = rec.Clone()
	s.created[rec.ID()] = s.seq
}

func (s *stubBackend) row(id string) backend.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.rows[id]; ok {
		return rec.Clone()
	}
	return nil
}

func (s *stubBackend) Query(ctx context.Context, resourceName string, filters []backend.Filter, order backend.OrderBy) ([]backend.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCalls++
	if s.queryErr != nil {
		return nil, s.queryErr
	}

	var out []backend.Record
	for _, rec := range s.rows {
		if matches(rec, filters) {
			out = append(out, rec.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := orderValue(out[i], order.Field), orderValue(out[j], order.Field)
		if a != b {
			if order.Desc {
				return a > b
			}
			return a < b
		}
		return s.created[out[i].ID()] < s.created[out[j].ID()]
	})
	return out, nil
}

func matches(rec backend.Record, filters []backend.Filter) bool {
	for _, f := range filters {
		if f.Op == "=" && rec[f.Field] != f.Value {
			return false
		}
	}
	return true
}

func (s *stubBackend) Insert(ctx context.Context, resourceName string, record backend.Record) (backend.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++
	if s.insertHook != nil {
		if err := s.insertHook(record); err != nil {
			return nil, err
		}
	}

	s.seq++
	rec := record.Clone()
	rec["id"] = fmt.Sprintf("id-%d", s.seq)
	s.rows[rec.ID()] = rec
	s.created[rec.ID()] = s.seq
	return rec.Clone(), nil
}

func (s *stubBackend) Update(ctx context.Context, resourceName string, id string, partial backend.Record) (backend.Record, error) {
	s.mu.Lock()
	hook := s.updateHook
	s.updateCalls++
	s.mu.Unlock()

	// Hooks run unlocked so they may call back into sessions.
	if hook != nil {
		if err := hook(id); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	for k, v := range partial {
		if k == "id" {
			continue
		}
		rec[k] = v
	}
	return rec.Clone(), nil
}

func (s *stubBackend) Delete(ctx context.Context, resourceName string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.deleteHook != nil {
		if err := s.deleteHook(id); err != nil {
			return err
		}
	}
	delete(s.rows, id)
	return nil
}

func (s *stubBackend) DeleteWhereIn(ctx context.Context, resourceName string, field string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		if field == "id" {
			delete(s.rows, v)
		}
	}
	return nil
}

// recordingNotifier captures store notifications for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(resourceName, event, id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, resourceName+"."+event+":"+id)
}

func testSchema() Schema {
	return MustSchema(Schema{
		Resource:   "partners",
		OrderField: "display_order",
		Flags:      []string{"is_active", "is_featured"},
		Fields: []Field{
			{Name: "name", Kind: KindText, Required: true},
			{Name: "website_url", Kind: KindText},
			{Name: "modules", Kind: KindList},
		},
	})
}

func seedThree(stub *stubBackend) {
	stub.put(backend.Record{"id": "A", "name": "Alpha", "display_order": 1, "is_active": true})
	stub.put(backend.Record{"id": "B", "name": "Beta", "display_order": 2, "is_active": true})
	stub.put(backend.Record{"id": "C", "name": "Gamma", "display_order": 3, "is_active": true})
}

func idsOf(items []backend.Record) []string {
	out := make([]string, len(items))
	for i, rec := range items {
		out[i] = rec.ID()
	}
	return out
}
