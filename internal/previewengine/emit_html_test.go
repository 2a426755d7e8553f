package previewengine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/launchrail/preview-engine/internal/labels"
)

func emitFromJSON(t *testing.T, payload string) []byte {
	t.Helper()
	model, err := Normalize([]byte(payload), "doc.json")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	visible, hidden := Partition(model.EventsList())
	tree, err := Render(model, visible, hidden, labels.Default())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	return Emit(tree)
}

func TestEmitIsDeterministic(t *testing.T) {
	payload := `{
		"system_name": "Orchard OS",
		"preview_directive": {
			"scenario": "Morning check",
			"events": [
				{"title": "Check inventory", "description": "Scan stock", "stage": 2, "type": "action"},
				{"title": "Drift observed", "description": "Anomaly", "stage": 9, "type": "observation", "safety_trigger": true}
			]
		}
	}`
	first := emitFromJSON(t, payload)
	second := emitFromJSON(t, payload)
	if !bytes.Equal(first, second) {
		t.Error("same input produced different documents")
	}
}

func TestEmitSectionOrderIsFixed(t *testing.T) {
	doc := string(emitFromJSON(t, `{"status": "OK", "headline": "Quiet day"}`))

	ids := []string{
		`id="section-status"`,
		`id="section-one-thing"`,
		`id="section-signals"`,
		`id="section-history"`,
		`id="section-reasoning"`,
	}
	pos := -1
	for _, id := range ids {
		next := strings.Index(doc, id)
		if next == -1 {
			t.Fatalf("document missing %s", id)
		}
		if next < pos {
			t.Errorf("%s appears out of order", id)
		}
		pos = next
	}
}

func TestEmitEscapesUserContent(t *testing.T) {
	doc := string(emitFromJSON(t, `{
		"status": "Warning",
		"headline": "<script>alert('x')</script>",
		"one_thing": "Use a & b <now>"
	}`))

	if strings.Contains(doc, "<script>alert") {
		t.Fatal("unescaped script tag leaked into the document")
	}
	if !strings.Contains(doc, "&lt;script&gt;alert") {
		t.Error("headline was not HTML-escaped")
	}
	if !strings.Contains(doc, "Use a &amp; b &lt;now&gt;") {
		t.Error("one_thing was not HTML-escaped")
	}
}

func TestEmitDataBlock(t *testing.T) {
	doc := string(emitFromJSON(t, `{
		"system_name": "Demo",
		"preview_directive": {
			"events": [{"title": "</script><b>x</b>", "description": "d", "stage": 1, "type": "action"}]
		}
	}`))

	if !strings.Contains(doc, `<script type="application/json" id="preview-data" data-schema-version="1.0.0">`) {
		t.Fatal("data block missing or mislabeled")
	}
	// json.Marshal escapes angle brackets, so a hostile title can never
	// terminate the data block early.
	if strings.Contains(doc, `"</script><b>`) {
		t.Error("raw closing tag leaked into the data block")
	}
	if !strings.Contains(doc, `"layer":"jde"`) {
		t.Error("serialized events should carry the resolved layer tag")
	}
}

func TestEmitOmitsDataBlockWhenCleared(t *testing.T) {
	model, err := Normalize([]byte(`{"status": "OK", "headline": "h"}`), "doc.json")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	tree, err := Render(model, nil, nil, labels.Default())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	tree.DataBlock = nil
	doc := string(Emit(tree))
	if strings.Contains(doc, `id="preview-data"`) {
		t.Error("data block should be absent when cleared")
	}
}

func TestEmitSingleSignalAndEmptyHistory(t *testing.T) {
	doc := string(emitFromJSON(t, `{"status":"OK","headline":"H","one_thing":"T","signals":[{"title":"A","value":1,"state":"OK"}],"history":[],"reasoning":{"coverage":"c","notes":"n"}}`))

	if got := strings.Count(doc, `class="card signal`); got != 1 {
		t.Errorf("signal card count = %d, want 1", got)
	}
	if !strings.Contains(doc, "<h3>A</h3>") {
		t.Error("signal card title missing")
	}
	if !strings.Contains(doc, `<p class="signal-value">1</p>`) {
		t.Error("numeric signal value should render as literal 1")
	}
	if !strings.Contains(doc, "No recent activity.") {
		t.Error("empty history should render its placeholder")
	}
	if !strings.Contains(doc, `<p class="coverage">c</p>`) {
		t.Error("reasoning coverage missing")
	}
}

func TestEmitPlaceholders(t *testing.T) {
	doc := string(emitFromJSON(t, `{"status": "OK", "headline": "Quiet day"}`))

	if !strings.Contains(doc, "Nothing scheduled.") {
		t.Error("absent one_thing should render its placeholder")
	}
	if !strings.Contains(doc, "No signals reported.") {
		t.Error("empty signals should render their placeholder")
	}
	if !strings.Contains(doc, `<footer class="seal">`) {
		t.Error("seal line missing")
	}
}

func TestEmitHiddenPanelAffordances(t *testing.T) {
	doc := string(emitFromJSON(t, `{
		"preview_directive": {
			"events": [{"title": "Watch", "description": "d", "stage": 8, "type": "observation"}]
		}
	}`))

	for _, want := range []string{
		`id="joe-panel"`,
		`id="joe-toggle"`,
		"hidden aria-label=",
		"dev=true",
		"e.key==='J'",
		"Observation",
		"No data recorded",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestEmitEventBadges(t *testing.T) {
	doc := string(emitFromJSON(t, `{
		"preview_directive": {
			"events": [
				{"title": "Gate me", "description": "d", "stage": 1, "type": "action", "human_gate": true},
				{"title": "Stop", "description": "d", "stage": 2, "type": "action", "safety_trigger": true}
			]
		}
	}`))

	if !strings.Contains(doc, `<span class="badge badge-warn">👤 Human Gate</span>`) {
		t.Error("human gate badge missing")
	}
	if !strings.Contains(doc, `<span class="badge badge-action">🛑 Safety</span>`) {
		t.Error("safety badge missing")
	}
	if !strings.Contains(doc, `<template id="event-cards">`) {
		t.Error("event cards should live in the inert template")
	}
}
