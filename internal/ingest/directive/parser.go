// Package directive parses the nested design-document shape:
// {system_name, version, preview_directive: {scenario, events[]}}.
package directive

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Document struct {
	SystemName string
	Version    string
	Scenario   string
	Events     []Event
}

type Event struct {
	Title         string
	Description   string
	Stage         int
	Type          string
	Input         string
	Output        string
	Reasoning     string
	Constraint    string
	HumanGate     bool
	SafetyTrigger bool
	Value         string
	Icon          string
	Time          string
	Progress      int
	ActionLabel   string
	SourceIndex   int
}

type FieldError struct {
	Field string
	Want  string
	Got   string
}

func (e *FieldError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("field %q: want %s", e.Field, e.Want)
	}
	return fmt.Sprintf("field %q: want %s, got %s", e.Field, e.Want, e.Got)
}

const (
	stageMin = 1
	stageMax = 10
)

func Parse(payload []byte) (Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(payload, &root); err != nil {
		return Document{}, fmt.Errorf("parse directive json: %w", err)
	}

	var doc Document
	var err error
	if doc.SystemName, err = stringAt(root, "system_name", "system_name", false); err != nil {
		return Document{}, err
	}
	if doc.Version, err = scalarAt(root, "version", "version"); err != nil {
		return Document{}, err
	}

	rawDirective, ok := root["preview_directive"]
	if !ok {
		return Document{}, &FieldError{Field: "preview_directive", Want: "an object with scenario and events", Got: "missing"}
	}
	var dir map[string]json.RawMessage
	if err := json.Unmarshal(rawDirective, &dir); err != nil {
		return Document{}, &FieldError{Field: "preview_directive", Want: "an object with scenario and events", Got: snippet(rawDirective)}
	}
	if doc.Scenario, err = stringAt(dir, "scenario", "preview_directive.scenario", false); err != nil {
		return Document{}, err
	}
	if doc.Events, err = parseEvents(dir["events"]); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func parseEvents(raw json.RawMessage) ([]Event, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &FieldError{Field: "preview_directive.events", Want: "an array of event objects"}
	}
	out := make([]Event, 0, len(items))
	for i, item := range items {
		ev, err := parseEvent(item, i)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func parseEvent(item map[string]json.RawMessage, idx int) (Event, error) {
	field := func(name string) string { return fmt.Sprintf("preview_directive.events[%d].%s", idx, name) }

	ev := Event{SourceIndex: idx}
	var err error
	if ev.Title, err = stringAt(item, "title", field("title"), true); err != nil {
		return Event{}, err
	}
	if ev.Description, err = stringAt(item, "description", field("description"), true); err != nil {
		return Event{}, err
	}
	if ev.Type, err = stringAt(item, "type", field("type"), true); err != nil {
		return Event{}, err
	}
	if ev.Stage, err = stageAt(item, field("stage")); err != nil {
		return Event{}, err
	}

	optional := map[string]*string{
		"input":        &ev.Input,
		"output":       &ev.Output,
		"reasoning":    &ev.Reasoning,
		"constraint":   &ev.Constraint,
		"icon":         &ev.Icon,
		"time":         &ev.Time,
		"action_label": &ev.ActionLabel,
	}
	for _, key := range []string{"input", "output", "reasoning", "constraint", "icon", "time", "action_label"} {
		if *optional[key], err = stringAt(item, key, field(key), false); err != nil {
			return Event{}, err
		}
	}
	if ev.Value, err = scalarAt(item, "value", field("value")); err != nil {
		return Event{}, err
	}
	if ev.HumanGate, err = boolAt(item, "human_gate", field("human_gate")); err != nil {
		return Event{}, err
	}
	if ev.SafetyTrigger, err = boolAt(item, "safety_trigger", field("safety_trigger")); err != nil {
		return Event{}, err
	}
	if ev.Progress, err = intAt(item, "progress", field("progress")); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func stageAt(item map[string]json.RawMessage, field string) (int, error) {
	raw, ok := item["stage"]
	if !ok || string(raw) == "null" {
		return 0, &FieldError{Field: field, Want: fmt.Sprintf("an integer in [%d,%d]", stageMin, stageMax), Got: "missing"}
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, &FieldError{Field: field, Want: fmt.Sprintf("an integer in [%d,%d]", stageMin, stageMax), Got: snippet(raw)}
	}
	v, err := n.Int64()
	if err != nil {
		return 0, &FieldError{Field: field, Want: fmt.Sprintf("an integer in [%d,%d]", stageMin, stageMax), Got: n.String()}
	}
	if v < stageMin || v > stageMax {
		return 0, &FieldError{Field: field, Want: fmt.Sprintf("an integer in [%d,%d]", stageMin, stageMax), Got: n.String()}
	}
	return int(v), nil
}

func stringAt(obj map[string]json.RawMessage, key, field string, required bool) (string, error) {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		if required {
			return "", &FieldError{Field: field, Want: "a non-empty string", Got: "missing"}
		}
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &FieldError{Field: field, Want: "a string", Got: snippet(raw)}
	}
	if required && strings.TrimSpace(s) == "" {
		return "", &FieldError{Field: field, Want: "a non-empty string", Got: "empty string"}
	}
	return s, nil
}

func scalarAt(obj map[string]json.RawMessage, key, field string) (string, error) {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", &FieldError{Field: field, Want: "a string or number", Got: snippet(raw)}
}

func boolAt(obj map[string]json.RawMessage, key, field string) (bool, error) {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, &FieldError{Field: field, Want: "a boolean", Got: snippet(raw)}
	}
	return b, nil
}

func intAt(obj map[string]json.RawMessage, key, field string) (int, error) {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return 0, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, &FieldError{Field: field, Want: "an integer", Got: snippet(raw)}
	}
	v, err := n.Int64()
	if err != nil {
		return 0, &FieldError{Field: field, Want: "an integer", Got: n.String()}
	}
	return int(v), nil
}

func snippet(raw json.RawMessage) string {
	s := string(raw)
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}
