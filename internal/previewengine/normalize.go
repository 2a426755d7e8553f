package previewengine

import (
	"github.com/launchrail/preview-engine/internal/ingest/directive"
	"github.com/launchrail/preview-engine/internal/ingest/flatform"
)

// Normalize validates raw JSON and produces the canonical model. It is the
// only place the two input shapes exist; everything downstream consumes the
// canonical model exclusively.
func Normalize(payload []byte, path string) (CanonicalModel, error) {
	return parseDocument(payload, path)
}

// StatusForFlags is the single precedence function shared by document-status
// derivation and per-event badge selection: safety trigger outranks human
// gate, which outranks the default. Keeping one implementation guarantees
// the two views can never disagree.
func StatusForFlags(safetyTrigger, humanGate bool) StatusCode {
	switch {
	case safetyTrigger:
		return StatusAction
	case humanGate:
		return StatusWarning
	default:
		return StatusOK
	}
}

// DeriveStatus folds event flags into an overall document status using the
// same precedence as StatusForFlags. Every event counts, hidden ones
// included: a stage-9 safety trigger still forces Action.
func DeriveStatus(events []Event) StatusCode {
	overall := StatusOK
	for _, e := range events {
		if s := StatusForFlags(e.SafetyTrigger, e.HumanGate); statusRank[s] > statusRank[overall] {
			overall = s
		}
	}
	return overall
}

func normalizeFlat(doc flatform.Document) CanonicalModel {
	signals := make([]Signal, 0, len(doc.Signals))
	for _, s := range doc.Signals {
		signals = append(signals, Signal{Title: s.Title, Value: s.Value, State: StatusCode(s.State)})
	}
	history := make([]HistoryEntry, 0, len(doc.History))
	for _, h := range doc.History {
		history = append(history, HistoryEntry{Time: h.Time, Event: h.Event, State: StatusCode(h.State)})
	}
	return CanonicalModel{
		SchemaVersion: SchemaVersion,
		SourceShape:   ShapeFlat,
		Status:        StatusCode(doc.Status),
		Headline:      doc.Headline,
		OneThing:      OneThing{Title: doc.OneThing},
		Signals:       signals,
		History:       history,
		Reasoning:     Reasoning{Coverage: doc.Reasoning.Coverage, Notes: doc.Reasoning.Notes},
		Events:        taggedEvents(nil),
	}
}

func normalizeDirective(doc directive.Document) CanonicalModel {
	events := fromDirectiveEvents(doc.Events)
	visible, _ := Partition(events)

	// Signals and history are synthesized from the visible layer only, in
	// submission order. Hidden observation/evaluation events never leak
	// into operator-facing sections.
	signals := make([]Signal, 0, len(visible))
	history := make([]HistoryEntry, 0, len(visible))
	for _, e := range visible {
		state := StatusForFlags(e.SafetyTrigger, e.HumanGate)
		signals = append(signals, Signal{Title: e.Title, Value: e.Value, State: state, Progress: clamp(e.Progress, 0, 100)})
		history = append(history, HistoryEntry{Time: e.Time, Event: e.Title, State: state})
	}

	one := OneThing{}
	for _, e := range visible {
		if e.Type == "action" {
			one = OneThing{Title: e.Title, Icon: e.Icon, ActionLabel: e.ActionLabel}
			break
		}
	}

	reasoning := Reasoning{}
	return CanonicalModel{
		SchemaVersion: SchemaVersion,
		SourceShape:   ShapeDirective,
		SystemName:    doc.SystemName,
		Version:       doc.Version,
		Scenario:      doc.Scenario,
		Status:        DeriveStatus(events),
		Headline:      joinNonEmpty(" · ", doc.SystemName, doc.Scenario),
		OneThing:      one,
		Signals:       signals,
		History:       history,
		Reasoning:     reasoning,
		Events:        taggedEvents(events),
	}
}
