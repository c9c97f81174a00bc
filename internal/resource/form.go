package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"eduport/internal/backend"
	console "eduport/internal/utils/logger"
)

// FormSession holds the mutable draft of one record, either a blank template
// (create) or a deep copy of an existing record (edit), until it is
// committed or discarded. The committed collection in the Store is never
// touched by draft edits.
type FormSession struct {
	schema Schema
	store  *Store
	log    *console.Logger

	mu        sync.Mutex
	draft     backend.Record
	id        string
	inFlight  bool
	closed    bool
	discarded bool
}

// NewSession begins a draft. Pass nil to create a new record. Array-valued
// fields arrive from the backend as JSON text; they are parsed here, at the
// boundary, and a field that fails to parse degrades to an empty list
// instead of sinking the whole session.
func (s *Store) NewSession(existing backend.Record) *FormSession {
	f := &FormSession{
		schema: s.schema,
		store:  s,
		log:    console.New("FORM:" + strings.ToUpper(s.schema.Resource)),
	}

	if existing == nil {
		f.draft = backend.Record(s.schema.Template())
		return f
	}

	f.draft = existing.Clone()
	f.id = existing.ID()
	for _, name := range s.schema.ListFields() {
		f.draft[name] = f.decodeList(name, f.draft[name])
	}
	return f
}

func (f *FormSession) decodeList(name string, raw interface{}) []interface{} {
	switch v := raw.(type) {
	case nil:
		return []interface{}{}
	case []interface{}:
		return v
	case string:
		return f.unmarshalList(name, []byte(v))
	case []byte:
		return f.unmarshalList(name, v)
	default:
		f.log.Warn("field %s has unexpected type %T, defaulting to empty list", name, raw)
		return []interface{}{}
	}
}

func (f *FormSession) unmarshalList(name string, data []byte) []interface{} {
	if len(data) == 0 {
		return []interface{}{}
	}
	var out []interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		f.log.Warn("field %s holds unparseable JSON, defaulting to empty list: %v", name, err)
		return []interface{}{}
	}
	return out
}

// ID returns the bound record id, or "" for a create-mode session.
func (f *FormSession) ID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

// Draft returns a copy of the current draft state.
func (f *FormSession) Draft() backend.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Clone()
}

// SetField updates one field. Deep paths into nested lists use dotted
// segments with numeric indices, e.g. "modules.0.details.2".
func (f *FormSession) SetField(path string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrSessionClosed
	}

	segments := strings.Split(path, ".")
	if len(segments) == 1 {
		if !f.isKnownField(path) {
			return fmt.Errorf("unknown field %q on %s", path, f.schema.Resource)
		}
		f.draft[path] = value
		return nil
	}

	parent, last, err := f.walk(segments)
	if err != nil {
		return err
	}
	return setIn(parent, last, value)
}

// AddListItem appends a value to the list at path.
func (f *FormSession) AddListItem(path string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrSessionClosed
	}

	list, set, err := f.listAt(path)
	if err != nil {
		return err
	}
	return set(append(list, value))
}

// RemoveListItem removes the element at index from the list at path.
// Indices always refer to the current array positions; the slice is
// compacted so later index-based edits stay valid.
func (f *FormSession) RemoveListItem(path string, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrSessionClosed
	}

	list, set, err := f.listAt(path)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(list) {
		return fmt.Errorf("index %d out of range for %q (len %d)", index, path, len(list))
	}
	return set(append(list[:index:index], list[index+1:]...))
}

// Merge applies a set of top-level field values at once, the shape an HTTP
// edit form submits. Backend-owned columns are skipped, anything else
// unknown is rejected.
func (f *FormSession) Merge(fields map[string]interface{}) error {
	for name, value := range fields {
		switch name {
		case "id", "created_at", "updated_at":
			continue
		}
		if err := f.SetField(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Commit validates the draft, serializes array fields back to the backend's
// JSON-text representation and delegates to the store. On success the
// session ends and the draft is dropped; on failure the draft is preserved
// so no input is lost. A second commit while one is in flight is rejected.
func (f *FormSession) Commit(ctx context.Context) (backend.Record, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if f.inFlight {
		f.mu.Unlock()
		return nil, ErrSessionBusy
	}

	payload := f.draft.Clone()
	if f.id != "" {
		payload["id"] = f.id
	}
	f.mu.Unlock()

	for _, name := range f.schema.ListFields() {
		data, err := json.Marshal(payload[name])
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", name, err)
		}
		payload[name] = string(data)
	}

	// Required fields are checked before anything goes on the wire.
	if err := f.store.Validate(payload); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.inFlight = true
	f.mu.Unlock()

	saved, err := f.store.Upsert(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if f.discarded {
		// The session was abandoned while the write was in flight. The
		// outcome is dropped on the floor; the draft stays gone.
		f.log.Warn("commit result for discarded session ignored")
		return nil, ErrSessionClosed
	}

	if err != nil {
		return nil, err
	}

	f.closed = true
	f.draft = nil
	if f.id == "" {
		f.id = saved.ID()
	}
	return saved, nil
}

// Discard ends the session without persisting. An in-flight commit is not
// cancelled; its late result will be ignored when it lands.
func (f *FormSession) Discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.discarded = true
	f.draft = nil
}

func (f *FormSession) isKnownField(name string) bool {
	if _, ok := f.schema.FieldByName(name); ok {
		return true
	}
	if f.schema.HasFlag(name) {
		return true
	}
	return name == f.schema.OrderField
}

// listAt resolves a dotted path to a list value plus a setter that writes
// the replacement back into the draft.
func (f *FormSession) listAt(path string) ([]interface{}, func([]interface{}) error, error) {
	segments := strings.Split(path, ".")

	if len(segments) == 1 {
		field, ok := f.schema.FieldByName(path)
		if !ok || field.Kind != KindList {
			return nil, nil, fmt.Errorf("%q is not a list field on %s", path, f.schema.Resource)
		}
		list, _ := f.draft[path].([]interface{})
		return list, func(updated []interface{}) error {
			f.draft[path] = updated
			return nil
		}, nil
	}

	parent, last, err := f.walk(segments)
	if err != nil {
		return nil, nil, err
	}
	current, err := getIn(parent, last)
	if err != nil {
		return nil, nil, err
	}
	list, ok := current.([]interface{})
	if !ok {
		if current == nil {
			list = []interface{}{}
		} else {
			return nil, nil, fmt.Errorf("%q does not hold a list", path)
		}
	}
	return list, func(updated []interface{}) error {
		return setIn(parent, last, updated)
	}, nil
}

// walk follows every segment but the last and returns the containing
// map/slice plus the final segment.
func (f *FormSession) walk(segments []string) (interface{}, string, error) {
	head := segments[0]
	if !f.isKnownField(head) {
		return nil, "", fmt.Errorf("unknown field %q on %s", head, f.schema.Resource)
	}

	var node interface{} = map[string]interface{}(f.draft)
	for _, seg := range segments[:len(segments)-1] {
		next, err := getIn(node, seg)
		if err != nil {
			return nil, "", err
		}
		node = next
	}
	return node, segments[len(segments)-1], nil
}

func getIn(node interface{}, key string) (interface{}, error) {
	switch container := node.(type) {
	case map[string]interface{}:
		return container[key], nil
	case backend.Record:
		return container[key], nil
	case []interface{}:
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("expected list index, got %q", key)
		}
		if idx < 0 || idx >= len(container) {
			return nil, fmt.Errorf("index %d out of range (len %d)", idx, len(container))
		}
		return container[idx], nil
	default:
		return nil, fmt.Errorf("cannot descend into %T at %q", node, key)
	}
}

func setIn(node interface{}, key string, value interface{}) error {
	switch container := node.(type) {
	case map[string]interface{}:
		container[key] = value
		return nil
	case backend.Record:
		container[key] = value
		return nil
	case []interface{}:
		idx, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("expected list index, got %q", key)
		}
		if idx < 0 || idx >= len(container) {
			return fmt.Errorf("index %d out of range (len %d)", idx, len(container))
		}
		container[idx] = value
		return nil
	default:
		return fmt.Errorf("cannot write into %T at %q", node, key)
	}
}
