package previewengine

import (
	"encoding/json"
	"errors"

	"github.com/launchrail/preview-engine/internal/ingest/directive"
	"github.com/launchrail/preview-engine/internal/ingest/flatform"
)

var flatMarkers = []string{"status", "headline", "one_thing", "signals", "history", "reasoning"}

// detectShape resolves the discriminated union once. Downstream code only
// ever sees the canonical model, never the raw shapes.
func detectShape(payload []byte) (string, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(payload, &root); err != nil {
		return "", err
	}
	_, hasDirective := root["preview_directive"]
	hasFlat := false
	for _, k := range flatMarkers {
		if _, ok := root[k]; ok {
			hasFlat = true
			break
		}
	}
	switch {
	case hasDirective && hasFlat:
		return "", &SchemaError{Field: "(document)", Want: "exactly one recognized shape", Got: "both flat fields and preview_directive present"}
	case hasDirective:
		return ShapeDirective, nil
	case hasFlat:
		return ShapeFlat, nil
	default:
		return "", &SchemaError{Field: "(document)", Want: "flat form (status/headline/...) or directive form (preview_directive.events)", Got: "neither shape recognized"}
	}
}

func parseDocument(payload []byte, path string) (CanonicalModel, error) {
	shape, err := detectShape(payload)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			return CanonicalModel{}, err
		}
		return CanonicalModel{}, &InputError{Path: path, Err: err}
	}
	switch shape {
	case ShapeFlat:
		doc, err := flatform.Parse(payload)
		if err != nil {
			return CanonicalModel{}, adaptFlatErr(err)
		}
		return normalizeFlat(doc), nil
	default:
		doc, err := directive.Parse(payload)
		if err != nil {
			return CanonicalModel{}, adaptDirectiveErr(err)
		}
		return normalizeDirective(doc), nil
	}
}

func adaptFlatErr(err error) error {
	var fe *flatform.FieldError
	if errors.As(err, &fe) {
		return &SchemaError{Field: fe.Field, Want: fe.Want, Got: fe.Got}
	}
	return &SchemaError{Field: "(document)", Want: "a valid flat-form document", Got: err.Error()}
}

func adaptDirectiveErr(err error) error {
	var fe *directive.FieldError
	if errors.As(err, &fe) {
		return &SchemaError{Field: fe.Field, Want: fe.Want, Got: fe.Got}
	}
	return &SchemaError{Field: "(document)", Want: "a valid directive-form document", Got: err.Error()}
}

func fromDirectiveEvents(in []directive.Event) []Event {
	out := make([]Event, 0, len(in))
	for _, e := range in {
		out = append(out, Event{
			Title:         e.Title,
			Description:   e.Description,
			Stage:         e.Stage,
			Type:          e.Type,
			Input:         e.Input,
			Output:        e.Output,
			Reasoning:     e.Reasoning,
			Constraint:    e.Constraint,
			HumanGate:     e.HumanGate,
			SafetyTrigger: e.SafetyTrigger,
			Value:         e.Value,
			Icon:          e.Icon,
			Time:          e.Time,
			Progress:      e.Progress,
			ActionLabel:   e.ActionLabel,
			SourceIndex:   e.SourceIndex,
		})
	}
	return out
}
