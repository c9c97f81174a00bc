package resource

import (
	"context"
	"fmt"
	"sort"
)

// ActionKind is one bulk action applied across a selection.
type ActionKind string

const (
	ActionActivate   ActionKind = "activate"
	ActionDeactivate ActionKind = "deactivate"
	ActionFeature    ActionKind = "feature"
	ActionUnfeature  ActionKind = "unfeature"
	ActionDelete     ActionKind = "delete"
	ActionExport     ActionKind = "export"
)

// State of one bulk operation. Destructive actions pass through
// StateConfirming before executing, the rest skip it.
type State string

const (
	StateIdle       State = "idle"
	StateSelecting  State = "selecting"
	StateConfirming State = "confirming"
	StateExecuting  State = "executing"
	StateCompleted  State = "completed"
)

// BulkFailure is one item the action could not be applied to.
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult is the aggregate outcome of one bulk action. A partial failure
// is not a hard error: the succeeded ids really did change.
type BulkResult struct {
	Action    ActionKind    `json:"action"`
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
	CSV       []byte        `json:"-"`
}

// Partial reports whether some, but not all, items failed.
func (r BulkResult) Partial() bool {
	return len(r.Failed) > 0 && len(r.Succeeded) > 0
}

// Executor applies one action across a selected subset of a store's items.
type Executor struct {
	store    *Store
	selected map[string]struct{}
	state    State
	armed    bool
}

// NewExecutor builds an executor over one store. Executors are cheap and
// meant to live for a single bulk operation.
func NewExecutor(store *Store) *Executor {
	return &Executor{
		store:    store,
		selected: make(map[string]struct{}),
		state:    StateIdle,
	}
}

// State returns the executor's current phase.
func (e *Executor) State() State { return e.state }

func (e *Executor) Select(id string) {
	e.selected[id] = struct{}{}
	if e.state == StateIdle {
		e.state = StateSelecting
	}
}

func (e *Executor) Deselect(id string) {
	delete(e.selected, id)
}

// SelectAll selects every id currently visible in the store.
func (e *Executor) SelectAll() {
	for _, rec := range e.store.Items() {
		e.Select(rec.ID())
	}
}

func (e *Executor) Clear() {
	e.selected = make(map[string]struct{})
	e.armed = false
	e.state = StateIdle
}

// Confirm arms a destructive action. Delete refuses to run without it.
func (e *Executor) Confirm() {
	e.armed = true
	if e.state == StateSelecting {
		e.state = StateConfirming
	}
}

// Selection returns the selected ids restricted to what the store currently
// holds, in display order. The intersection is re-derived on every call so a
// changed visibility filter can never leak hidden items into an action.
func (e *Executor) Selection() []string {
	items := e.store.Items()
	out := make([]string, 0, len(e.selected))
	for _, rec := range items {
		if _, ok := e.selected[rec.ID()]; ok {
			out = append(out, rec.ID())
		}
	}
	return out
}

// Apply runs the action over the selection. One failing item never aborts
// the batch: the rest is processed and the result reports succeeded and
// failed ids with their reasons. Items are awaited one by one so the
// aggregate is exact.
func (e *Executor) Apply(ctx context.Context, kind ActionKind) (BulkResult, error) {
	if kind == ActionDelete && !e.armed {
		return BulkResult{Action: kind}, ErrConfirmationRequired
	}
	e.state = StateExecuting

	ids := e.Selection()
	result := BulkResult{Action: kind}

	switch kind {
	case ActionExport:
		csv, err := e.exportSelection(ids)
		if err != nil {
			e.state = StateCompleted
			return result, err
		}
		result.CSV = csv
		result.Succeeded = ids
	case ActionActivate, ActionDeactivate, ActionFeature, ActionUnfeature, ActionDelete:
		for _, id := range ids {
			if err := e.applyOne(ctx, kind, id); err != nil {
				result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: err.Error()})
				continue
			}
			result.Succeeded = append(result.Succeeded, id)
		}
	default:
		e.state = StateCompleted
		return result, fmt.Errorf("unknown bulk action %q", kind)
	}

	sort.Strings(result.Succeeded)
	e.state = StateCompleted
	return result, nil
}

func (e *Executor) applyOne(ctx context.Context, kind ActionKind, id string) error {
	switch kind {
	case ActionActivate:
		return e.store.SetFlag(ctx, id, "is_active", true)
	case ActionDeactivate:
		return e.store.SetFlag(ctx, id, "is_active", false)
	case ActionFeature:
		return e.store.SetFlag(ctx, id, "is_featured", true)
	case ActionUnfeature:
		return e.store.SetFlag(ctx, id, "is_featured", false)
	case ActionDelete:
		return e.store.Remove(ctx, id)
	default:
		return fmt.Errorf("unknown bulk action %q", kind)
	}
}

func (e *Executor) exportSelection(ids []string) ([]byte, error) {
	picked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		picked[id] = struct{}{}
	}

	items := e.store.Items()
	rows := items[:0]
	for _, rec := range items {
		if _, ok := picked[rec.ID()]; ok {
			rows = append(rows, rec)
		}
	}
	return ExportCSV(e.store.Schema(), rows)
}

// ParseAction maps a request string onto a known action kind.
func ParseAction(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case ActionActivate, ActionDeactivate, ActionFeature, ActionUnfeature, ActionDelete, ActionExport:
		return ActionKind(s), nil
	default:
		return "", fmt.Errorf("unknown bulk action %q", s)
	}
}
