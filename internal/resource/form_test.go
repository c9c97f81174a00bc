package resource

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"eduport/internal/backend"
)

func TestSession_RoundTripNoopSave(t *testing.T) {
	stub := newStubBackend()
	stub.put(backend.Record{
		"id":            "A",
		"name":          "Alpha",
		"website_url":   "https://alpha.example.com",
		"modules":       `[{"details":["a","b"],"title":"Intro"}]`,
		"display_order": 1,
		"is_active":     true,
	})
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	existing, _ := store.Get("A")

	session := store.NewSession(existing)
	saved, err := session.Commit(ctx)
	if err != nil {
		t.Fatalf("no-op commit failed: %v", err)
	}

	for _, field := range []string{"name", "website_url", "display_order", "is_active"} {
		if !reflect.DeepEqual(saved[field], existing[field]) {
			t.Errorf("%s: got %v, want %v", field, saved[field], existing[field])
		}
	}

	// The nested field went string -> list -> string; compare its decoded
	// shape since JSON key order is not stable.
	var got, want []interface{}
	if err := json.Unmarshal([]byte(saved["modules"].(string)), &got); err != nil {
		t.Fatalf("saved modules not valid JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(existing["modules"].(string)), &want); err != nil {
		t.Fatalf("original modules not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("modules: got %v, want %v", got, want)
	}
}

func TestSession_ValidationKeepsDraftAndBackendUntouched(t *testing.T) {
	stub := newStubBackend()
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	session := store.NewSession(nil)
	if err := session.SetField("website_url", "https://nameless.example.com"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	_, err := session.Commit(ctx)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if stub.insertCalls != 0 || stub.updateCalls != 0 {
		t.Errorf("backend called despite validation failure: %d inserts, %d updates", stub.insertCalls, stub.updateCalls)
	}

	// The draft survives for correction.
	if got := session.Draft()["website_url"]; got != "https://nameless.example.com" {
		t.Errorf("draft lost after failed commit: %v", got)
	}

	if err := session.SetField("name", "Named Now"); err != nil {
		t.Fatalf("SetField after failed commit: %v", err)
	}
	if _, err := session.Commit(ctx); err != nil {
		t.Fatalf("corrected commit failed: %v", err)
	}
}

func TestSession_MalformedNestedJSONDegradesToEmptyList(t *testing.T) {
	stub := newStubBackend()
	store := NewStore(testSchema(), stub, nil)

	session := store.NewSession(backend.Record{
		"id":      "A",
		"name":    "Alpha",
		"modules": `{"this is": not json`,
	})

	modules, ok := session.Draft()["modules"].([]interface{})
	if !ok {
		t.Fatalf("modules is %T, want []interface{}", session.Draft()["modules"])
	}
	if len(modules) != 0 {
		t.Errorf("modules: got %v, want empty", modules)
	}
}

func TestSession_DeepPathEdits(t *testing.T) {
	stub := newStubBackend()
	store := NewStore(testSchema(), stub, nil)

	session := store.NewSession(backend.Record{
		"id":      "A",
		"name":    "Alpha",
		"modules": `[{"title":"Intro","details":["one","two"]}]`,
	})

	if err := session.SetField("modules.0.title", "Welcome"); err != nil {
		t.Fatalf("deep SetField failed: %v", err)
	}
	if err := session.SetField("modules.0.details.1", "TWO"); err != nil {
		t.Fatalf("deep list SetField failed: %v", err)
	}
	if err := session.AddListItem("modules.0.details", "three"); err != nil {
		t.Fatalf("AddListItem failed: %v", err)
	}
	if err := session.RemoveListItem("modules.0.details", 0); err != nil {
		t.Fatalf("RemoveListItem failed: %v", err)
	}

	modules := session.Draft()["modules"].([]interface{})
	module := modules[0].(map[string]interface{})
	if module["title"] != "Welcome" {
		t.Errorf("title: got %v", module["title"])
	}
	details := module["details"].([]interface{})
	if !reflect.DeepEqual(details, []interface{}{"TWO", "three"}) {
		t.Errorf("details: got %v, want [TWO three]", details)
	}

	// Indices refer to current positions after each structural change.
	if err := session.RemoveListItem("modules.0.details", 1); err != nil {
		t.Fatalf("RemoveListItem after compaction failed: %v", err)
	}
	details = session.Draft()["modules"].([]interface{})[0].(map[string]interface{})["details"].([]interface{})
	if !reflect.DeepEqual(details, []interface{}{"TWO"}) {
		t.Errorf("details after second removal: got %v", details)
	}
}

func TestSession_TopLevelListOps(t *testing.T) {
	stub := newStubBackend()
	store := NewStore(testSchema(), stub, nil)

	session := store.NewSession(nil)
	if err := session.AddListItem("modules", map[string]interface{}{"title": "M1"}); err != nil {
		t.Fatalf("AddListItem failed: %v", err)
	}
	if err := session.AddListItem("modules", map[string]interface{}{"title": "M2"}); err != nil {
		t.Fatalf("AddListItem failed: %v", err)
	}
	if err := session.RemoveListItem("modules", 0); err != nil {
		t.Fatalf("RemoveListItem failed: %v", err)
	}

	modules := session.Draft()["modules"].([]interface{})
	if len(modules) != 1 {
		t.Fatalf("modules: got %d entries, want 1", len(modules))
	}
	if modules[0].(map[string]interface{})["title"] != "M2" {
		t.Errorf("remaining module: got %v", modules[0])
	}

	if err := session.RemoveListItem("modules", 5); err == nil {
		t.Error("expected out-of-range removal to fail")
	}
}

func TestSession_UnknownFieldRejected(t *testing.T) {
	stub := newStubBackend()
	store := NewStore(testSchema(), stub, nil)

	session := store.NewSession(nil)
	if err := session.SetField("typo_field", "x"); err == nil {
		t.Error("expected unknown field to be rejected")
	}
	if err := session.Merge(map[string]interface{}{"id": "ignored", "name": "ok"}); err != nil {
		t.Errorf("Merge rejected backend-owned column: %v", err)
	}
}

func TestSession_DiscardedSessionRefusesCommit(t *testing.T) {
	stub := newStubBackend()
	store := NewStore(testSchema(), stub, nil)

	session := store.NewSession(nil)
	_ = session.SetField("name", "Alpha")
	session.Discard()

	if _, err := session.Commit(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
	if stub.insertCalls != 0 {
		t.Errorf("backend called for discarded session: %d inserts", stub.insertCalls)
	}
}

func TestSession_LateResultForMidFlightDiscardIsIgnored(t *testing.T) {
	stub := newStubBackend()
	stub.put(backend.Record{"id": "A", "name": "Alpha", "display_order": 1, "is_active": true})
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	existing, _ := store.Get("A")

	session := store.NewSession(existing)
	if err := session.SetField("name", "Alpha Renamed"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	// The user navigates away while the write is on the wire.
	stub.updateHook = func(id string) error {
		session.Discard()
		return nil
	}

	_, err := session.Commit(ctx)
	if !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected the late result to be dropped, got %v", err)
	}

	// The write itself landed; the session just no longer cares.
	if got := stub.row("A")["name"]; got != "Alpha Renamed" {
		t.Errorf("backend row: got %v", got)
	}
	if session.Draft() != nil {
		t.Error("draft resurrected for a discarded session")
	}
}

func TestSession_SecondCommitWhileInFlightRejected(t *testing.T) {
	stub := newStubBackend()
	stub.put(backend.Record{"id": "A", "name": "Alpha", "display_order": 1, "is_active": true})
	store := NewStore(testSchema(), stub, nil)
	ctx := context.Background()

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	existing, _ := store.Get("A")
	session := store.NewSession(existing)

	var innerErr error
	stub.updateHook = func(id string) error {
		// Re-enter while the first commit is still in flight.
		_, innerErr = session.Commit(ctx)
		return nil
	}

	if _, err := session.Commit(ctx); err != nil {
		t.Fatalf("outer commit failed: %v", err)
	}
	if !errors.Is(innerErr, ErrSessionBusy) {
		t.Errorf("expected ErrSessionBusy for overlapping commit, got %v", innerErr)
	}
}
