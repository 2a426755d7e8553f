// Package labels holds the operator-facing wording used by the preview
// renderer: section headings, status labels, stage titles, and hidden-panel
// copy. A YAML labels pack can override any subset of the defaults.
package labels

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Labels struct {
	Sections           SectionTitles  `json:"sections"`
	StatusLabels       map[string]string `json:"status_labels"`
	StatusMessages     map[string]string `json:"status_messages"`
	StageTitles        map[int]string `json:"stage_titles"`
	Hidden             HiddenLabels   `json:"hidden"`
	OneThingKicker     string         `json:"one_thing_kicker"`
	DefaultActionLabel string         `json:"default_action_label"`
	SealLine           string         `json:"seal_line"`
}

type SectionTitles struct {
	Status    string `json:"status"`
	OneThing  string `json:"one_thing"`
	Signals   string `json:"signals"`
	History   string `json:"history"`
	Reasoning string `json:"reasoning"`
}

type HiddenLabels struct {
	Title       string         `json:"title"`
	Disclaimer  string         `json:"disclaimer"`
	GroupTitles map[int]string `json:"group_titles"`
}

// Default returns the built-in English pack. Stage titles 1-7 follow the
// visible-layer stage roles; 8-10 name the hidden observation, evaluation,
// and evolution groups.
func Default() Labels {
	return Labels{
		Sections: SectionTitles{
			Status:    "Global Status",
			OneThing:  "Today's One Thing",
			Signals:   "Signal Cards",
			History:   "Recent History",
			Reasoning: "Reasoning",
		},
		StatusLabels: map[string]string{
			"OK":      "Operating normally",
			"Warning": "Needs attention",
			"Action":  "Action required",
		},
		StatusMessages: map[string]string{
			"OK":      "All operations are running normally today.",
			"Warning": "Some items need your attention.",
			"Action":  "A safety condition requires immediate action.",
		},
		StageTitles: map[int]string{
			1: "Reasoning",
			2: "Constraint",
			3: "Safety",
			4: "Memory",
			5: "Audit",
			6: "Routing",
			7: "Evolution",
		},
		Hidden: HiddenLabels{
			Title:      "Developer / Auditor Mode",
			Disclaimer: "This panel shows system-level observation and evaluation. It does not affect operator decisions.",
			GroupTitles: map[int]string{
				8:  "Observation",
				9:  "Evaluation",
				10: "Evolution",
			},
		},
		OneThingKicker:     "Today's one thing",
		DefaultActionLabel: "Review now",
		SealLine:           "This preview is the confirmed screen specification of the Standard OS layout.",
	}
}

// Load reads a YAML labels pack, validates its schema, and merges it over
// the defaults. Unknown keys and malformed values are rejected, never
// silently ignored.
func Load(path string) (Labels, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Labels{}, err
	}
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return Labels{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if errs := validateSchema(&root); len(errs) > 0 {
		return Labels{}, fmt.Errorf("%s", formatSchemaErrors(path, errs))
	}

	var overlay overlayDoc
	if err := root.Decode(&overlay); err != nil {
		return Labels{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return merge(Default(), overlay), nil
}

// overlayDoc mirrors Labels with pointer/optional semantics so the merge can
// distinguish "absent" from "set to empty".
type overlayDoc struct {
	Sections *struct {
		Status    *string `yaml:"status"`
		OneThing  *string `yaml:"one_thing"`
		Signals   *string `yaml:"signals"`
		History   *string `yaml:"history"`
		Reasoning *string `yaml:"reasoning"`
	} `yaml:"sections"`
	StatusLabels   map[string]string `yaml:"status_labels"`
	StatusMessages map[string]string `yaml:"status_messages"`
	StageTitles    map[int]string    `yaml:"stage_titles"`
	Hidden         *struct {
		Title       *string        `yaml:"title"`
		Disclaimer  *string        `yaml:"disclaimer"`
		GroupTitles map[int]string `yaml:"group_titles"`
	} `yaml:"hidden"`
	OneThingKicker     *string `yaml:"one_thing_kicker"`
	DefaultActionLabel *string `yaml:"default_action_label"`
	SealLine           *string `yaml:"seal_line"`
}

func merge(base Labels, overlay overlayDoc) Labels {
	out := base
	if s := overlay.Sections; s != nil {
		setIf(&out.Sections.Status, s.Status)
		setIf(&out.Sections.OneThing, s.OneThing)
		setIf(&out.Sections.Signals, s.Signals)
		setIf(&out.Sections.History, s.History)
		setIf(&out.Sections.Reasoning, s.Reasoning)
	}
	for k, v := range overlay.StatusLabels {
		out.StatusLabels[k] = v
	}
	for k, v := range overlay.StatusMessages {
		out.StatusMessages[k] = v
	}
	for k, v := range overlay.StageTitles {
		out.StageTitles[k] = v
	}
	if h := overlay.Hidden; h != nil {
		setIf(&out.Hidden.Title, h.Title)
		setIf(&out.Hidden.Disclaimer, h.Disclaimer)
		for k, v := range h.GroupTitles {
			out.Hidden.GroupTitles[k] = v
		}
	}
	setIf(&out.OneThingKicker, overlay.OneThingKicker)
	setIf(&out.DefaultActionLabel, overlay.DefaultActionLabel)
	setIf(&out.SealLine, overlay.SealLine)
	return out
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// MarshalLog renders the pack as compact JSON for diagnostic logging.
func (l Labels) MarshalLog() string {
	b, err := json.Marshal(l)
	if err != nil {
		return "{}"
	}
	return string(b)
}
