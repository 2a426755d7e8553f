package previewengine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStatusCode(t *testing.T) {
	for _, raw := range []string{"OK", "Warning", "Action", " OK "} {
		if _, ok := ParseStatusCode(raw); !ok {
			t.Errorf("ParseStatusCode(%q) should accept", raw)
		}
	}
	for _, raw := range []string{"ok", "WARNING", "Unknown", "", "Action!"} {
		if _, ok := ParseStatusCode(raw); ok {
			t.Errorf("ParseStatusCode(%q) should reject", raw)
		}
	}
}

func TestStatusForFlagsPrecedence(t *testing.T) {
	cases := []struct {
		safety, human bool
		want          StatusCode
	}{
		{false, false, StatusOK},
		{false, true, StatusWarning},
		{true, false, StatusAction},
		{true, true, StatusAction},
	}
	for _, tc := range cases {
		if got := StatusForFlags(tc.safety, tc.human); got != tc.want {
			t.Errorf("StatusForFlags(%v, %v) = %s, want %s", tc.safety, tc.human, got, tc.want)
		}
	}
}

func TestDeriveStatusCountsHiddenEvents(t *testing.T) {
	// A stage-9 safety trigger must force Action even though the event
	// itself never appears in an operator-facing section.
	events := []Event{
		{Title: "routine", Stage: 2},
		{Title: "anomaly", Stage: 9, SafetyTrigger: true},
	}
	if got := DeriveStatus(events); got != StatusAction {
		t.Errorf("DeriveStatus = %s, want Action", got)
	}
}

func TestDeriveStatusDefaultsToOK(t *testing.T) {
	if got := DeriveStatus(nil); got != StatusOK {
		t.Errorf("DeriveStatus(nil) = %s, want OK", got)
	}
	if got := DeriveStatus([]Event{{Stage: 1}, {Stage: 8}}); got != StatusOK {
		t.Errorf("DeriveStatus without flags = %s, want OK", got)
	}
}

func TestNormalizeFlatShape(t *testing.T) {
	payload := []byte(`{
		"status": "OK",
		"headline": "All systems normal",
		"signals": [{"title": "A", "value": "1", "state": "OK"}],
		"history": []
	}`)
	model, err := Normalize(payload, "doc.json")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	want := CanonicalModel{
		SchemaVersion: SchemaVersion,
		SourceShape:   ShapeFlat,
		Status:        StatusOK,
		Headline:      "All systems normal",
		Signals:       []Signal{{Title: "A", Value: "1", State: StatusOK}},
		History:       []HistoryEntry{},
		Events:        []canonicalEvent{},
	}
	if diff := cmp.Diff(want, model); diff != "" {
		t.Errorf("canonical model mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeDirectiveShape(t *testing.T) {
	payload := []byte(`{
		"system_name": "Orchard OS",
		"version": "1.0",
		"preview_directive": {
			"scenario": "Morning check",
			"events": [
				{"title": "Check inventory", "description": "Scan stock levels", "stage": 2, "type": "action", "value": "98%", "human_gate": true},
				{"title": "Log snapshot", "description": "Persist metrics", "stage": 5, "type": "process"},
				{"title": "Drift observed", "description": "Yield anomaly", "stage": 9, "type": "observation", "safety_trigger": true}
			]
		}
	}`)
	model, err := Normalize(payload, "doc.json")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	if model.SourceShape != ShapeDirective {
		t.Errorf("SourceShape = %q", model.SourceShape)
	}
	if model.Status != StatusAction {
		t.Errorf("Status = %s, want Action (hidden safety trigger counts)", model.Status)
	}
	if model.Headline != "Orchard OS · Morning check" {
		t.Errorf("Headline = %q", model.Headline)
	}

	// Signals and history synthesize from visible events only, in
	// submission order. The stage-9 event must not leak in.
	wantSignals := []Signal{
		{Title: "Check inventory", Value: "98%", State: StatusWarning},
		{Title: "Log snapshot", State: StatusOK},
	}
	if diff := cmp.Diff(wantSignals, model.Signals); diff != "" {
		t.Errorf("signals mismatch (-want +got):\n%s", diff)
	}
	if len(model.History) != 2 {
		t.Fatalf("len(History) = %d, want 2", len(model.History))
	}
	if model.History[0].Event != "Check inventory" || model.History[1].Event != "Log snapshot" {
		t.Errorf("history order = %+v", model.History)
	}

	if model.OneThing.Title != "Check inventory" {
		t.Errorf("OneThing = %+v, want first visible action event", model.OneThing)
	}

	if len(model.Events) != 3 {
		t.Fatalf("len(Events) = %d, want all events retained", len(model.Events))
	}
	if model.Events[2].ResolvedLayer != LayerHidden {
		t.Errorf("stage-9 event layer = %s, want hidden", model.Events[2].ResolvedLayer)
	}
}

func TestNormalizeDirectiveNoActionEvent(t *testing.T) {
	payload := []byte(`{
		"preview_directive": {
			"events": [{"title": "Watch", "description": "d", "stage": 8, "type": "observation"}]
		}
	}`)
	model, err := Normalize(payload, "doc.json")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if model.OneThing.Title != "" {
		t.Errorf("OneThing should stay empty without a visible action event, got %+v", model.OneThing)
	}
	if len(model.Signals) != 0 {
		t.Errorf("hidden-only document should synthesize no signals, got %+v", model.Signals)
	}
}
