package previewengine

import "strings"

// SchemaVersion identifies the embedded-data contract consumed by the
// browser-side viewer. Bump on any change to the canonical payload shape.
const SchemaVersion = "1.0.0"

type StatusCode string

const (
	StatusOK      StatusCode = "OK"
	StatusWarning StatusCode = "Warning"
	StatusAction  StatusCode = "Action"
)

var statusRank = map[StatusCode]int{
	StatusOK:      0,
	StatusWarning: 1,
	StatusAction:  2,
}

// ParseStatusCode accepts only the three canonical spellings. Anything else
// is a validation error, never a silent coercion.
func ParseStatusCode(raw string) (StatusCode, bool) {
	switch StatusCode(strings.TrimSpace(raw)) {
	case StatusOK:
		return StatusOK, true
	case StatusWarning:
		return StatusWarning, true
	case StatusAction:
		return StatusAction, true
	default:
		return "", false
	}
}

type Layer string

const (
	LayerVisible Layer = "jde"
	LayerHidden  Layer = "joe"
)

const (
	StageMin        = 1
	StageMax        = 10
	VisibleStageMax = 7
)

const (
	ShapeFlat      = "flat"
	ShapeDirective = "directive"
)

type Config struct {
	InputPath        string
	OutputPath       string
	LabelsPath       string
	OutJSONPath      string
	ChecksumsPath    string
	RunLogPath       string
	IncludeDataBlock bool
}

type Signal struct {
	Title    string     `json:"title"`
	Value    string     `json:"value"`
	State    StatusCode `json:"state"`
	Progress int        `json:"progress,omitempty"`
}

type HistoryEntry struct {
	Time  string     `json:"time"`
	Event string     `json:"event"`
	State StatusCode `json:"state"`
}

type Reasoning struct {
	Coverage string `json:"coverage"`
	Notes    string `json:"notes"`
}

type Event struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Stage         int    `json:"stage"`
	Type          string `json:"type"`
	Input         string `json:"input,omitempty"`
	Output        string `json:"output,omitempty"`
	Reasoning     string `json:"reasoning,omitempty"`
	Constraint    string `json:"constraint,omitempty"`
	HumanGate     bool   `json:"human_gate,omitempty"`
	SafetyTrigger bool   `json:"safety_trigger,omitempty"`
	Value         string `json:"value,omitempty"`
	Icon          string `json:"icon,omitempty"`
	Time          string `json:"time,omitempty"`
	Progress      int    `json:"progress,omitempty"`
	ActionLabel   string `json:"action_label,omitempty"`
	SourceIndex   int    `json:"source_index"`
}

// Layer is derived from the stage, never stored. Partition is the
// authoritative split; this accessor exists for tagging serialized events.
func (e Event) Layer() Layer {
	if e.Stage <= VisibleStageMax {
		return LayerVisible
	}
	return LayerHidden
}

type OneThing struct {
	Title       string `json:"title"`
	Icon        string `json:"icon,omitempty"`
	ActionLabel string `json:"action_label,omitempty"`
}

// CanonicalModel is the single representation every downstream stage
// consumes, regardless of which input shape produced it. Immutable after
// Normalize returns it.
type CanonicalModel struct {
	SchemaVersion string       `json:"schema_version"`
	SourceShape   string       `json:"source_shape"`
	SystemName    string       `json:"system_name"`
	Version       string       `json:"version"`
	Scenario      string       `json:"scenario,omitempty"`
	Status        StatusCode   `json:"status"`
	Headline      string       `json:"headline"`
	OneThing      OneThing     `json:"one_thing"`
	Signals       []Signal     `json:"signals"`
	History       []HistoryEntry `json:"history"`
	Reasoning     Reasoning    `json:"reasoning"`
	Events        []canonicalEvent `json:"events"`
}

// canonicalEvent tags each serialized event with its resolved layer so the
// external viewer never re-implements the stage split.
type canonicalEvent struct {
	Event
	ResolvedLayer Layer `json:"layer"`
}

func taggedEvents(events []Event) []canonicalEvent {
	out := make([]canonicalEvent, 0, len(events))
	for _, e := range events {
		out = append(out, canonicalEvent{Event: e, ResolvedLayer: e.Layer()})
	}
	return out
}

// EventsList returns the untagged events in submission order.
func (m CanonicalModel) EventsList() []Event {
	out := make([]Event, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, e.Event)
	}
	return out
}

type Badge struct {
	Present bool
	Kind    string
	Label   string
	Tone    string
}

type EventDetail struct {
	Label string
	Value string
}

type EventCard struct {
	Index       int
	Title       string
	Description string
	Stage       int
	Type        string
	Badge       Badge
	Details     []EventDetail
}

type StatusSection struct {
	Code           StatusCode
	Tone           string
	Label          string
	Message        string
	AttentionCount int
}

type OneThingSection struct {
	Present     bool
	Kicker      string
	Title       string
	Icon        string
	ActionLabel string
}

type SignalCard struct {
	Title    string
	Value    string
	State    StatusCode
	Tone     string
	Icon     string
	Progress int
}

type SignalSection struct {
	Title string
	// Columns is a layout hint only; the grid accepts any cardinality.
	Columns int
	Cards   []SignalCard
}

type HistoryRow struct {
	Time  string
	Event string
	State StatusCode
	Tone  string
}

type HistorySection struct {
	Title string
	Rows  []HistoryRow
}

type StageGroup struct {
	Stage int
	Title string
	Items []string
}

type ReasoningSection struct {
	Title    string
	Coverage string
	Notes    string
	Groups   []StageGroup
}

type HiddenGroup struct {
	Stage int
	Title string
	Cards []EventCard
}

type HiddenPanel struct {
	Title      string
	Disclaimer string
	Groups     []HiddenGroup
}

// RenderTree is the fully derived view structure the emitter walks. It holds
// the five visible sections in fixed order, the per-event cards, the hidden
// panel, and the pre-marshaled canonical payload for the data block.
type RenderTree struct {
	SchemaVersion string
	SystemName    string
	Version       string
	Headline      string
	Status        StatusSection
	OneThing      OneThingSection
	Signals       SignalSection
	History       HistorySection
	Reasoning     ReasoningSection
	EventCards    []EventCard
	Hidden        HiddenPanel
	SealLine      string
	DataBlock     []byte
}

type Result struct {
	RunID         string
	OutputPath    string
	Status        StatusCode
	VisibleEvents int
	HiddenEvents  int
	Artifacts     []string
}
