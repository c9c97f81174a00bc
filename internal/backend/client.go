package backend

import (
	"context"
	"errors"
)

// Record is the wire shape of one row as the data service returns it,
// keyed by column name.
type Record map[string]interface{}

// Filter is a simple predicate pushed down to the data service.
// Op is one of "=", "<=", ">=".
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// OrderBy sorts a query result on a single field.
type OrderBy struct {
	Field string
	Desc  bool
}

// Sentinel errors the store layer maps onto its own taxonomy.
var (
	// ErrUnconfigured is returned by every operation when no data service
	// handle is available. The application keeps running in a read-only
	// offline mode in that case.
	ErrUnconfigured = errors.New("data service is not configured")

	// ErrNotFound is returned when an update targets a row that does not
	// exist. Deletes of absent rows are not errors.
	ErrNotFound = errors.New("record not found")
)

// Client is the contract of the hosted data service. Every persistence
// concern of the application goes through it; there is no other write path.
type Client interface {
	// Query returns all records of a resource matching the filters, sorted
	// by the given field with creation order as the tie-break.
	Query(ctx context.Context, resource string, filters []Filter, order OrderBy) ([]Record, error)

	// Insert creates a record and returns it with its assigned id.
	Insert(ctx context.Context, resource string, record Record) (Record, error)

	// Update applies a partial record to the row with the given id and
	// returns the updated row. Returns ErrNotFound when the row is absent.
	Update(ctx context.Context, resource string, id string, partial Record) (Record, error)

	// Delete removes the row with the given id. Deleting an absent row
	// succeeds.
	Delete(ctx context.Context, resource string, id string) error

	// DeleteWhereIn removes every row whose field value is in values.
	DeleteWhereIn(ctx context.Context, resource string, field string, values []string) error
}

// Clone returns a deep copy of the record. Nested maps and slices produced
// by JSON decoding are copied recursively.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// ID returns the record's id column as a string, or "" when unset.
func (r Record) ID() string {
	if v, ok := r["id"].(string); ok {
		return v
	}
	return ""
}
