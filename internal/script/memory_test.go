package script

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ReplaceCues_SortsByStep(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.ReplaceCues(ctx, "evt-1", []Cue{
		{Step: 3, TargetItemID: "c"},
		{Step: 1, TargetItemID: "a"},
		{Step: 2, TargetItemID: "b"},
	}))

	cues, err := m.CuesByCampaign(ctx, "evt-1")
	require.NoError(t, err)
	require.Len(t, cues, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{cues[0].TargetItemID, cues[1].TargetItemID, cues[2].TargetItemID})
}

func TestMemoryStore_ReplaceCues_Swaps(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.ReplaceCues(ctx, "evt-1", []Cue{{Step: 1, TargetItemID: "a"}}))
	require.NoError(t, m.ReplaceCues(ctx, "evt-1", []Cue{{Step: 1, TargetItemID: "z"}}))

	cues, err := m.CuesByCampaign(ctx, "evt-1")
	require.NoError(t, err)
	require.Len(t, cues, 1)
	assert.Equal(t, "z", cues[0].TargetItemID)
}

func TestMemoryStore_UnknownCampaign_Empty(t *testing.T) {
	m := NewMemoryStore()
	cues, err := m.CuesByCampaign(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, cues)

	items, err := m.ItemsByCampaign(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryStore_CuesCopyIsolated(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, m.ReplaceCues(ctx, "evt-1", []Cue{{Step: 1, TargetItemID: "a"}}))

	cues, _ := m.CuesByCampaign(ctx, "evt-1")
	cues[0].TargetItemID = "tampered"

	again, _ := m.CuesByCampaign(ctx, "evt-1")
	assert.Equal(t, "a", again[0].TargetItemID)
}
