package directive

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseFullDocument(t *testing.T) {
	payload := []byte(`{
		"system_name": "Orchard OS",
		"version": 2.1,
		"preview_directive": {
			"scenario": "Morning harvest check",
			"events": [
				{
					"title": "Check soil moisture",
					"description": "Probe readings across block A",
					"stage": 2,
					"type": "action",
					"input": "sensor feed",
					"output": "moisture map",
					"value": 42,
					"progress": 80,
					"human_gate": true
				},
				{
					"title": "Pattern drift observed",
					"description": "Yield curve deviates from forecast",
					"stage": 9,
					"type": "observation",
					"safety_trigger": true
				}
			]
		}
	}`)

	doc, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if doc.SystemName != "Orchard OS" {
		t.Errorf("SystemName = %q", doc.SystemName)
	}
	if doc.Version != "2.1" {
		t.Errorf("numeric version = %q, want literal \"2.1\"", doc.Version)
	}
	if doc.Scenario != "Morning harvest check" {
		t.Errorf("Scenario = %q", doc.Scenario)
	}
	if len(doc.Events) != 2 {
		t.Fatalf("len(Events) = %d, want 2", len(doc.Events))
	}

	first := doc.Events[0]
	if first.Stage != 2 || !first.HumanGate || first.SafetyTrigger {
		t.Errorf("first event = %+v", first)
	}
	if first.Value != "42" || first.Progress != 80 {
		t.Errorf("first event scalars = %+v", first)
	}
	if first.SourceIndex != 0 || doc.Events[1].SourceIndex != 1 {
		t.Errorf("source indexes = %d, %d", first.SourceIndex, doc.Events[1].SourceIndex)
	}
	if !doc.Events[1].SafetyTrigger {
		t.Errorf("second event should carry safety_trigger")
	}
}

func TestParseRequiresDirectiveEnvelope(t *testing.T) {
	_, err := Parse([]byte(`{"system_name": "X"}`))
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("want FieldError, got %v", err)
	}
	if fe.Field != "preview_directive" {
		t.Errorf("Field = %q", fe.Field)
	}
}

func TestParseEmptyEventsIsValid(t *testing.T) {
	doc, err := Parse([]byte(`{"system_name": "X", "preview_directive": {"scenario": "idle", "events": []}}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(doc.Events) != 0 {
		t.Errorf("len(Events) = %d, want 0", len(doc.Events))
	}
}

func TestStageBounds(t *testing.T) {
	event := func(stage string) []byte {
		return []byte(fmt.Sprintf(`{
			"preview_directive": {"events": [
				{"title": "t", "description": "d", "type": "action", "stage": %s}
			]}
		}`, stage))
	}

	for _, stage := range []string{"1", "7", "8", "10"} {
		if _, err := Parse(event(stage)); err != nil {
			t.Errorf("stage %s should be accepted, got %v", stage, err)
		}
	}
	for _, stage := range []string{"0", "11", "-1", "2.5", `"3"`} {
		_, err := Parse(event(stage))
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Errorf("stage %s should be rejected, got %v", stage, err)
			continue
		}
		if fe.Field != "preview_directive.events[0].stage" {
			t.Errorf("stage %s: Field = %q", stage, fe.Field)
		}
	}
}

func TestEventRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		field   string
	}{
		{"missing title", `{"preview_directive": {"events": [{"description": "d", "type": "a", "stage": 1}]}}`, "preview_directive.events[0].title"},
		{"missing description", `{"preview_directive": {"events": [{"title": "t", "type": "a", "stage": 1}]}}`, "preview_directive.events[0].description"},
		{"missing type", `{"preview_directive": {"events": [{"title": "t", "description": "d", "stage": 1}]}}`, "preview_directive.events[0].type"},
		{"bad human_gate", `{"preview_directive": {"events": [{"title": "t", "description": "d", "type": "a", "stage": 1, "human_gate": "yes"}]}}`, "preview_directive.events[0].human_gate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.payload))
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("want FieldError, got %v", err)
			}
			if fe.Field != tc.field {
				t.Errorf("Field = %q, want %q", fe.Field, tc.field)
			}
		})
	}
}
