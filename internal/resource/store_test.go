package resource

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"eduport/internal/backend"
)

func TestLoad_KeepsPriorStateOnFailure(t *testing.T) {
	stub := newStubBackend()
	seedThree(stub)
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := len(store.Items()); got != 3 {
		t.Fatalf("items: got %d, want 3", got)
	}

	stub.queryErr = errors.New("relation does not exist")
	err := store.Load(ctx)
	var queryErr *QueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	if got := len(store.Items()); got != 3 {
		t.Errorf("items after failed load: got %d, want 3 (prior state retained)", got)
	}
}

func TestLoad_Unconfigured(t *testing.T) {
	store := NewStore(testSchema(), nil, nil)
	if err := store.Load(context.Background()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestUpsert_ValidationGateBlocksBackendCall(t *testing.T) {
	stub := newStubBackend()
	store := NewStore(testSchema(), stub, nil)

	_, err := store.Upsert(context.Background(), backend.Record{"name": "   "})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !reflect.DeepEqual(validationErr.Fields, []string{"name"}) {
		t.Errorf("fields: got %v, want [name]", validationErr.Fields)
	}
	if stub.insertCalls != 0 || stub.updateCalls != 0 {
		t.Errorf("backend was called: %d inserts, %d updates, want zero", stub.insertCalls, stub.updateCalls)
	}
}

func TestUpsert_CreateThenList(t *testing.T) {
	stub := newStubBackend()
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	saved, err := store.Upsert(ctx, backend.Record{
		"name":          "Fresh Partner",
		"website_url":   "https://fresh.example.com",
		"display_order": 7,
		"is_active":     true,
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if saved.ID() == "" {
		t.Fatal("backend did not assign an id")
	}

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	rec, ok := store.Get(saved.ID())
	if !ok {
		t.Fatalf("record %s not present after reload", saved.ID())
	}
	if rec["name"] != "Fresh Partner" {
		t.Errorf("name: got %v, want Fresh Partner", rec["name"])
	}
	if rec["website_url"] != "https://fresh.example.com" {
		t.Errorf("website_url: got %v", rec["website_url"])
	}
}

func TestUpsert_UpdateMergesById(t *testing.T) {
	stub := newStubBackend()
	seedThree(stub)
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	notify := &recordingNotifier{}
	store.notify = notify

	saved, err := store.Upsert(ctx, backend.Record{"id": "B", "name": "Beta Updated"})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if saved["name"] != "Beta Updated" {
		t.Errorf("name: got %v", saved["name"])
	}
	if got := len(store.Items()); got != 3 {
		t.Errorf("items: got %d, want 3 (merge by id, no append)", got)
	}
	if len(notify.events) != 1 || notify.events[0] != "partners.updated:B" {
		t.Errorf("notifications: got %v", notify.events)
	}
}

func TestRemove_Idempotent(t *testing.T) {
	stub := newStubBackend()
	seedThree(stub)
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := store.Remove(ctx, "B"); err != nil {
		t.Fatalf("first Remove failed: %v", err)
	}
	if err := store.Remove(ctx, "B"); err != nil {
		t.Fatalf("second Remove errored: %v", err)
	}
	if _, ok := store.Get("B"); ok {
		t.Error("record B still present after removal")
	}
}

func TestMove_SwapsAdjacentOrderValues(t *testing.T) {
	stub := newStubBackend()
	seedThree(stub)
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := store.Move(ctx, "B", MoveUp); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if got := orderValue(stub.row("A"), "display_order"); got != 2 {
		t.Errorf("A order: got %d, want 2", got)
	}
	if got := orderValue(stub.row("B"), "display_order"); got != 1 {
		t.Errorf("B order: got %d, want 1", got)
	}
	if got := orderValue(stub.row("C"), "display_order"); got != 3 {
		t.Errorf("C order: got %d, want 3 (untouched)", got)
	}

	if got := idsOf(store.Items()); !reflect.DeepEqual(got, []string{"B", "A", "C"}) {
		t.Errorf("order after move: got %v, want [B A C]", got)
	}
}

func TestMove_BoundaryIsQuietNoop(t *testing.T) {
	stub := newStubBackend()
	seedThree(stub)
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := store.Move(ctx, "A", MoveUp); err != nil {
		t.Fatalf("move up on first item errored: %v", err)
	}
	if err := store.Move(ctx, "C", MoveDown); err != nil {
		t.Fatalf("move down on last item errored: %v", err)
	}
	if stub.updateCalls != 0 {
		t.Errorf("backend updates issued for boundary moves: %d, want 0", stub.updateCalls)
	}
	if got := idsOf(store.Items()); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("order changed by boundary move: %v", got)
	}
}

func TestMove_SecondWriteFailureIsCompensated(t *testing.T) {
	stub := newStubBackend()
	seedThree(stub)
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// First write (B) succeeds, second write (A) is rejected, the
	// compensating write (B again) succeeds.
	stub.updateHook = func(id string) error {
		if id == "A" {
			return errors.New("permission denied")
		}
		return nil
	}

	err := store.Move(ctx, "B", MoveUp)
	var reorderErr *ReorderError
	if !errors.As(err, &reorderErr) {
		t.Fatalf("expected ReorderError, got %v", err)
	}
	if !reorderErr.Compensated {
		t.Error("expected the swap to be compensated")
	}

	if got := orderValue(stub.row("B"), "display_order"); got != 2 {
		t.Errorf("B order after compensation: got %d, want 2", got)
	}
	if got := idsOf(store.Items()); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("in-memory order after compensated failure: got %v, want [A B C]", got)
	}
}

func TestMove_FailedCompensationSurfacesIntegrityRisk(t *testing.T) {
	stub := newStubBackend()
	seedThree(stub)
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// First write to B succeeds, then everything fails: the second write
	// and the compensating revert of B.
	calls := 0
	stub.updateHook = func(id string) error {
		calls++
		if calls > 1 {
			return fmt.Errorf("backend gone away (%s)", id)
		}
		return nil
	}

	err := store.Move(ctx, "B", MoveUp)
	var reorderErr *ReorderError
	if !errors.As(err, &reorderErr) {
		t.Fatalf("expected ReorderError, got %v", err)
	}
	if reorderErr.Compensated {
		t.Error("compensation could not have succeeded")
	}
}

func TestSetFlag(t *testing.T) {
	stub := newStubBackend()
	seedThree(stub)
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := store.SetFlag(ctx, "A", "is_active", false); err != nil {
		t.Fatalf("SetFlag failed: %v", err)
	}
	rec, _ := store.Get("A")
	if rec["is_active"] != false {
		t.Errorf("is_active: got %v, want false", rec["is_active"])
	}

	if err := store.SetFlag(ctx, "A", "is_deleted", true); err == nil {
		t.Error("expected unknown flag to be rejected")
	}
}
