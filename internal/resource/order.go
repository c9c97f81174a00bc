package resource

import (
	"eduport/internal/backend"
)

// Direction of a user-invoked move within the ordered list.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// swapPlan names the two records whose order values are exchanged verbatim.
// No other record is renumbered.
type swapPlan struct {
	FirstID     string
	SecondID    string
	FirstOrder  interface{}
	SecondOrder interface{}
}

// planAdjacentSwap computes the swap for moving the record with the given id
// one position up or down within items (which must already be in display
// order). The second return is false for boundary moves (first item up, last
// item down) and for unknown ids; those must not reach the backend.
func planAdjacentSwap(items []backend.Record, orderField, id string, dir Direction) (swapPlan, bool) {
	pos := -1
	for i, rec := range items {
		if rec.ID() == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return swapPlan{}, false
	}

	var other int
	switch dir {
	case MoveUp:
		if pos == 0 {
			return swapPlan{}, false
		}
		other = pos - 1
	case MoveDown:
		if pos == len(items)-1 {
			return swapPlan{}, false
		}
		other = pos + 1
	default:
		return swapPlan{}, false
	}

	return swapPlan{
		FirstID:     items[pos].ID(),
		SecondID:    items[other].ID(),
		FirstOrder:  items[other][orderField],
		SecondOrder: items[pos][orderField],
	}, true
}

// orderValue normalizes an order column to int64 for sorting. Databases and
// JSON decoding hand back different numeric types for the same column.
func orderValue(rec backend.Record, field string) int64 {
	switch v := rec[field].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
