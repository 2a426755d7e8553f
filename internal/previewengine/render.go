package previewengine

import (
	"encoding/json"

	"github.com/launchrail/preview-engine/internal/labels"
)

// signalColumns is the grid layout hint. It never constrains how many
// signals a document may carry.
const signalColumns = 4

// Render maps the canonical model into the fixed five-section view plus the
// per-event cards and the hidden panel. It always yields all five sections
// in the same order; absent optional data renders as placeholders.
func Render(model CanonicalModel, visible, hidden []Event, lab labels.Labels) (RenderTree, error) {
	payload, err := json.Marshal(model)
	if err != nil {
		return RenderTree{}, err
	}

	tree := RenderTree{
		SchemaVersion: model.SchemaVersion,
		SystemName:    firstNonEmpty(model.SystemName, model.Headline, "Preview"),
		Version:       model.Version,
		Headline:      firstNonEmpty(model.Headline, "Untitled preview"),
		Status:        renderStatus(model, visible, lab),
		OneThing:      renderOneThing(model.OneThing, lab),
		Signals:       renderSignals(model.Signals),
		History:       renderHistory(model.History),
		Reasoning:     renderReasoning(model.Reasoning, visible, lab),
		EventCards:    renderEventCards(visible),
		Hidden:        renderHiddenPanel(hidden, lab),
		SealLine:      lab.SealLine,
		DataBlock:     payload,
	}
	tree.Signals.Title = lab.Sections.Signals
	tree.History.Title = lab.Sections.History
	tree.Reasoning.Title = lab.Sections.Reasoning
	return tree, nil
}

func renderStatus(model CanonicalModel, visible []Event, lab labels.Labels) StatusSection {
	attention := 0
	if len(model.Events) > 0 {
		for _, e := range visible {
			if e.SafetyTrigger || e.HumanGate {
				attention++
			}
		}
	} else {
		for _, s := range model.Signals {
			if s.State != StatusOK {
				attention++
			}
		}
	}
	return StatusSection{
		Code:           model.Status,
		Tone:           statusTone(model.Status),
		Label:          lab.StatusLabels[string(model.Status)],
		Message:        lab.StatusMessages[string(model.Status)],
		AttentionCount: attention,
	}
}

func renderOneThing(one OneThing, lab labels.Labels) OneThingSection {
	if one.Title == "" {
		return OneThingSection{Present: false, Kicker: lab.OneThingKicker}
	}
	return OneThingSection{
		Present:     true,
		Kicker:      lab.OneThingKicker,
		Title:       one.Title,
		Icon:        firstNonEmpty(one.Icon, "📌"),
		ActionLabel: firstNonEmpty(one.ActionLabel, lab.DefaultActionLabel),
	}
}

func renderSignals(signals []Signal) SignalSection {
	cards := make([]SignalCard, 0, len(signals))
	for _, s := range signals {
		cards = append(cards, SignalCard{
			Title:    s.Title,
			Value:    s.Value,
			State:    s.State,
			Tone:     statusTone(s.State),
			Icon:     "📊",
			Progress: s.Progress,
		})
	}
	return SignalSection{Columns: signalColumns, Cards: cards}
}

func renderHistory(entries []HistoryEntry) HistorySection {
	rows := make([]HistoryRow, 0, len(entries))
	for _, h := range entries {
		rows = append(rows, HistoryRow{
			Time:  firstNonEmpty(h.Time, "--:--"),
			Event: h.Event,
			State: h.State,
			Tone:  statusTone(h.State),
		})
	}
	return HistorySection{Rows: rows}
}

func renderReasoning(r Reasoning, visible []Event, lab labels.Labels) ReasoningSection {
	section := ReasoningSection{Coverage: r.Coverage, Notes: r.Notes}
	for stage := StageMin; stage <= VisibleStageMax; stage++ {
		var items []string
		for _, e := range visible {
			if e.Stage != stage {
				continue
			}
			items = append(items, firstNonEmpty(e.Reasoning, e.Description))
		}
		if len(items) == 0 {
			continue
		}
		section.Groups = append(section.Groups, StageGroup{
			Stage: stage,
			Title: lab.StageTitles[stage],
			Items: items,
		})
	}
	return section
}

func renderEventCards(events []Event) []EventCard {
	cards := make([]EventCard, 0, len(events))
	for i, e := range events {
		cards = append(cards, eventCard(e, i+1))
	}
	return cards
}

func eventCard(e Event, index int) EventCard {
	card := EventCard{
		Index:       index,
		Title:       e.Title,
		Description: e.Description,
		Stage:       e.Stage,
		Type:        e.Type,
		Badge:       badgeFor(e),
	}
	for _, d := range []struct{ label, value string }{
		{"Input", e.Input},
		{"Output", e.Output},
		{"Reasoning", e.Reasoning},
		{"Constraint", e.Constraint},
	} {
		if d.value != "" {
			card.Details = append(card.Details, EventDetail{Label: d.label, Value: d.value})
		}
	}
	return card
}

// badgeFor selects the per-event badge through the same precedence function
// that derives the overall document status.
func badgeFor(e Event) Badge {
	switch StatusForFlags(e.SafetyTrigger, e.HumanGate) {
	case StatusAction:
		return Badge{Present: true, Kind: "safety", Label: "🛑 Safety", Tone: "action"}
	case StatusWarning:
		return Badge{Present: true, Kind: "human_gate", Label: "👤 Human Gate", Tone: "warn"}
	default:
		return Badge{}
	}
}

func renderHiddenPanel(hidden []Event, lab labels.Labels) HiddenPanel {
	panel := HiddenPanel{
		Title:      lab.Hidden.Title,
		Disclaimer: lab.Hidden.Disclaimer,
	}
	for stage := VisibleStageMax + 1; stage <= StageMax; stage++ {
		group := HiddenGroup{Stage: stage, Title: lab.Hidden.GroupTitles[stage]}
		index := 0
		for _, e := range hidden {
			if e.Stage != stage {
				continue
			}
			index++
			group.Cards = append(group.Cards, eventCard(e, index))
		}
		panel.Groups = append(panel.Groups, group)
	}
	return panel
}
