package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrCreate_FreshSession(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("evt-1")

	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, FirstStep, s.CurrentStep)
	assert.Empty(t, s.LastTargetID)
	assert.Empty(t, s.History)

	// Idempotent: same campaign id, same session.
	st.ApplySpin("evt-1")
	again := st.GetOrCreate("evt-1")
	assert.Equal(t, StatusSpinning, again.Status)
	assert.Equal(t, 1, st.Len())
}

func TestStore_SpinStopNext_Transitions(t *testing.T) {
	st := NewStore()

	s := st.ApplySpin("evt-1")
	require.Equal(t, StatusSpinning, s.Status)

	// Spin while spinning is a no-op for the state.
	s = st.ApplySpin("evt-1")
	require.Equal(t, StatusSpinning, s.Status)
	require.Equal(t, FirstStep, s.CurrentStep)

	s = st.ApplyStop("evt-1", "judge-3")
	require.Equal(t, StatusStopped, s.Status)
	require.Equal(t, "judge-3", s.LastTargetID)

	s = st.ApplyNext("evt-1")
	require.Equal(t, StatusIdle, s.Status)
	require.Equal(t, FirstStep+1, s.CurrentStep)
	// The last result survives "next" so late joiners can still read it
	// during the idle window.
	require.Equal(t, "judge-3", s.LastTargetID)

	s = st.ApplySpin("evt-1")
	require.Equal(t, "judge-3", s.LastTargetID, "spin must not clear the previous result")
}

func TestStore_StepMonotonic(t *testing.T) {
	st := NewStore()
	for i := 0; i < 5; i++ {
		st.ApplySpin("evt-1")
		st.ApplyStop("evt-1", "x")
		s := st.ApplyNext("evt-1")
		require.Equal(t, FirstStep+i+1, s.CurrentStep)
	}
}

func TestStore_Complete(t *testing.T) {
	st := NewStore()
	s := st.ApplyComplete("evt-1")
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestStore_Reset_DiscardsHistoryAndStep(t *testing.T) {
	st := NewStore()
	st.ApplyStop("evt-1", "judge-3")
	st.AppendHistory("evt-1", HistoryEntry{Step: 1, Result: "judge-3", Timestamp: time.Now()})
	st.ApplyNext("evt-1")

	s := st.ApplyReset("evt-1")
	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, FirstStep, s.CurrentStep)
	assert.Empty(t, s.LastTargetID)
	assert.Empty(t, s.History)
}

func TestStore_AppendHistory_SnapshotIsolation(t *testing.T) {
	st := NewStore()
	first := st.AppendHistory("evt-1", HistoryEntry{Step: 1, Result: "a", Timestamp: time.Now()})
	second := st.AppendHistory("evt-1", HistoryEntry{Step: 2, Result: "b", Timestamp: time.Now()})

	// The earlier snapshot must not see the later append.
	require.Len(t, first.History, 1)
	require.Len(t, second.History, 2)
	assert.Equal(t, "a", second.History[0].Result)
	assert.Equal(t, "b", second.History[1].Result)

	// Mutating a snapshot's history must not leak back into the store.
	first.History[0].Result = "tampered"
	assert.Equal(t, "a", st.GetOrCreate("evt-1").History[0].Result)
}

func TestStore_CampaignsAreIndependent(t *testing.T) {
	st := NewStore()
	st.ApplySpin("evt-1")
	other := st.GetOrCreate("evt-2")
	assert.Equal(t, StatusIdle, other.Status)
}
