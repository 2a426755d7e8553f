// Package flatform parses the flat design-document shape:
// {status, headline, one_thing, signals[], history[], reasoning{}}.
package flatform

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Document struct {
	Status    string
	Headline  string
	OneThing  string
	Signals   []Signal
	History   []Entry
	Reasoning Reasoning
}

type Signal struct {
	Title string
	Value string
	State string
}

type Entry struct {
	Time  string
	Event string
	State string
}

type Reasoning struct {
	Coverage string
	Notes    string
}

// FieldError reports a schema violation with enough context for the caller
// to surface the offending field and the expected shape.
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

var validStates = map[string]bool{"OK": true, "Warning": true, "Action": true}

func Parse(payload []byte) (Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(payload, &root); err != nil {
		return Document{}, fmt.Errorf("parse flat json: %w", err)
	}

	var doc Document
	var err error

	if doc.Status, err = requiredState(root, "status"); err != nil {
		return Document{}, err
	}
	if doc.Headline, err = requiredString(root, "headline"); err != nil {
		return Document{}, err
	}
	if doc.OneThing, err = optionalString(root, "one_thing"); err != nil {
		return Document{}, err
	}
	if doc.Signals, err = parseSignals(root["signals"]); err != nil {
		return Document{}, err
	}
	if doc.History, err = parseHistory(root["history"]); err != nil {
		return Document{}, err
	}
	if doc.Reasoning, err = parseReasoning(root["reasoning"]); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func parseSignals(raw json.RawMessage) ([]Signal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &FieldError{Field: "signals", Want: "an array of signal objects"}
	}
	out := make([]Signal, 0, len(items))
	for i, item := range items {
		field := func(name string) string { return fmt.Sprintf("signals[%d].%s", i, name) }
		title, err := stringAt(item, "title", field("title"), true)
		if err != nil {
			return nil, err
		}
		value, err := scalarAt(item, "value", field("value"))
		if err != nil {
			return nil, err
		}
		state, err := stateAt(item, "state", field("state"))
		if err != nil {
			return nil, err
		}
		out = append(out, Signal{Title: title, Value: value, State: state})
	}
	return out, nil
}

func parseHistory(raw json.RawMessage) ([]Entry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &FieldError{Field: "history", Want: "an array of history entries"}
	}
	out := make([]Entry, 0, len(items))
	for i, item := range items {
		field := func(name string) string { return fmt.Sprintf("history[%d].%s", i, name) }
		tm, err := stringAt(item, "time", field("time"), false)
		if err != nil {
			return nil, err
		}
		event, err := stringAt(item, "event", field("event"), false)
		if err != nil {
			return nil, err
		}
		state, err := stateAt(item, "state", field("state"))
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Time: tm, Event: event, State: state})
	}
	return out, nil
}

func parseReasoning(raw json.RawMessage) (Reasoning, error) {
	if len(raw) == 0 {
		return Reasoning{}, nil
	}
	var item map[string]json.RawMessage
	if err := json.Unmarshal(raw, &item); err != nil {
		return Reasoning{}, &FieldError{Field: "reasoning", Want: "an object with coverage and notes"}
	}
	coverage, err := stringAt(item, "coverage", "reasoning.coverage", false)
	if err != nil {
		return Reasoning{}, err
	}
	notes, err := stringAt(item, "notes", "reasoning.notes", false)
	if err != nil {
		return Reasoning{}, err
	}
	return Reasoning{Coverage: coverage, Notes: notes}, nil
}

func requiredString(root map[string]json.RawMessage, key string) (string, error) {
	return stringAt(root, key, key, true)
}

func optionalString(root map[string]json.RawMessage, key string) (string, error) {
	return stringAt(root, key, key, false)
}

func requiredState(root map[string]json.RawMessage, key string) (string, error) {
	return stateAt(root, key, key)
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

// scalarAt accepts a JSON string or number and returns its literal text, so
// that numeric values render exactly as written in the source document.
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

func stateAt(obj map[string]json.RawMessage, key, field string) (string, error) {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return "", &FieldError{Field: field, Want: "one of OK, Warning, Action", Got: "missing"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &FieldError{Field: field, Want: "one of OK, Warning, Action", Got: snippet(raw)}
	}
	if !validStates[s] {
		return "", &FieldError{Field: field, Want: "one of OK, Warning, Action", Got: fmt.Sprintf("%q", s)}
	}
	return s, nil
}

func snippet(raw json.RawMessage) string {
	s := string(raw)
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}
