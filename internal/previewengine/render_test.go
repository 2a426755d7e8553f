package previewengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchrail/preview-engine/internal/labels"
)

func TestRenderProducesAllFiveSections(t *testing.T) {
	model := CanonicalModel{
		SchemaVersion: SchemaVersion,
		SourceShape:   ShapeFlat,
		Status:        StatusOK,
		Headline:      "Quiet day",
	}
	tree, err := Render(model, nil, nil, labels.Default())
	require.NoError(t, err)

	// Sections are always present, placeholders included, so the layout
	// never shifts between documents.
	assert.Equal(t, "ok", tree.Status.Tone)
	assert.Equal(t, "Operating normally", tree.Status.Label)
	assert.False(t, tree.OneThing.Present)
	assert.Empty(t, tree.Signals.Cards)
	assert.Empty(t, tree.History.Rows)
	assert.Empty(t, tree.Reasoning.Groups)
	assert.NotEmpty(t, tree.DataBlock)
}

func TestRenderBadgePrecedenceMatchesStatus(t *testing.T) {
	cases := []struct {
		name      string
		event     Event
		wantKind  string
		wantBadge bool
	}{
		{"no flags", Event{Title: "t", Stage: 1}, "", false},
		{"human gate", Event{Title: "t", Stage: 1, HumanGate: true}, "human_gate", true},
		{"safety trigger", Event{Title: "t", Stage: 1, SafetyTrigger: true}, "safety", true},
		{"both flags, safety wins", Event{Title: "t", Stage: 1, SafetyTrigger: true, HumanGate: true}, "safety", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			badge := badgeFor(tc.event)
			assert.Equal(t, tc.wantBadge, badge.Present)
			assert.Equal(t, tc.wantKind, badge.Kind)

			// The badge and the document status must always agree,
			// since both derive from the same precedence function.
			status := StatusForFlags(tc.event.SafetyTrigger, tc.event.HumanGate)
			switch status {
			case StatusAction:
				assert.Equal(t, "action", badge.Tone)
			case StatusWarning:
				assert.Equal(t, "warn", badge.Tone)
			default:
				assert.False(t, badge.Present)
			}
		})
	}
}

func TestRenderEventCardsAreVisibleOnly(t *testing.T) {
	events := []Event{
		{Title: "visible one", Description: "d", Stage: 1, Type: "action"},
		{Title: "visible two", Description: "d", Stage: 7, Type: "process"},
		{Title: "hidden", Description: "d", Stage: 8, Type: "observation"},
	}
	visible, hidden := Partition(events)
	model := CanonicalModel{
		SchemaVersion: SchemaVersion,
		Status:        StatusOK,
		Headline:      "h",
		Events:        taggedEvents(events),
	}
	tree, err := Render(model, visible, hidden, labels.Default())
	require.NoError(t, err)

	require.Len(t, tree.EventCards, 2)
	assert.Equal(t, 1, tree.EventCards[0].Index)
	assert.Equal(t, 2, tree.EventCards[1].Index)
	assert.Equal(t, "visible one", tree.EventCards[0].Title)

	require.Len(t, tree.Hidden.Groups, 3)
	assert.Equal(t, 8, tree.Hidden.Groups[0].Stage)
	assert.Equal(t, "Observation", tree.Hidden.Groups[0].Title)
	require.Len(t, tree.Hidden.Groups[0].Cards, 1)
	assert.Equal(t, "hidden", tree.Hidden.Groups[0].Cards[0].Title)
	assert.Empty(t, tree.Hidden.Groups[1].Cards)
	assert.Empty(t, tree.Hidden.Groups[2].Cards)
}

func TestRenderReasoningGroupsByStage(t *testing.T) {
	events := []Event{
		{Title: "a", Description: "first thought", Stage: 1, Type: "process", Reasoning: "because A"},
		{Title: "b", Description: "fallback text", Stage: 1, Type: "process"},
		{Title: "c", Description: "d", Stage: 3, Type: "process", Reasoning: "safety hold"},
	}
	visible, hidden := Partition(events)
	tree, err := Render(CanonicalModel{Status: StatusOK, Headline: "h"}, visible, hidden, labels.Default())
	require.NoError(t, err)

	require.Len(t, tree.Reasoning.Groups, 2)
	assert.Equal(t, 1, tree.Reasoning.Groups[0].Stage)
	assert.Equal(t, []string{"because A", "fallback text"}, tree.Reasoning.Groups[0].Items)
	assert.Equal(t, 3, tree.Reasoning.Groups[1].Stage)
	assert.Equal(t, "Safety", tree.Reasoning.Groups[1].Title)
}

func TestRenderAttentionCount(t *testing.T) {
	events := []Event{
		{Title: "a", Stage: 1, HumanGate: true},
		{Title: "b", Stage: 2},
		{Title: "c", Stage: 3, SafetyTrigger: true},
	}
	visible, hidden := Partition(events)
	model := CanonicalModel{Status: StatusAction, Headline: "h", Events: taggedEvents(events)}
	tree, err := Render(model, visible, hidden, labels.Default())
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Status.AttentionCount)
}

func TestRenderOneThingDefaults(t *testing.T) {
	model := CanonicalModel{
		Status:   StatusOK,
		Headline: "h",
		OneThing: OneThing{Title: "Approve supplier change"},
	}
	tree, err := Render(model, nil, nil, labels.Default())
	require.NoError(t, err)
	assert.True(t, tree.OneThing.Present)
	assert.Equal(t, "📌", tree.OneThing.Icon)
	assert.Equal(t, "Review now", tree.OneThing.ActionLabel)
}
