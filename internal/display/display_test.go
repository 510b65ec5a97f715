package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spinstage/backend/internal/session"
	"github.com/spinstage/backend/pkg/protocol"
)

func newTestViewer() *Viewer {
	return NewViewer("ws://unused", "evt-1", zap.NewNop())
}

// Either delivery of the forced outcome has to be enough on its own.
func TestResolvedTarget_FromOverrideHint(t *testing.T) {
	v := newTestViewer()

	v.apply(protocol.ServerMessage{Type: protocol.EvtStateUpdate, Status: session.StatusSpinning, CurrentStep: 1})
	_, forced := v.ResolvedTarget()
	assert.False(t, forced)

	v.apply(protocol.ServerMessage{Type: protocol.EvtStateUpdate, Status: session.StatusSpinning, CurrentStep: 1, TargetID: "judge-3"})
	target, forced := v.ResolvedTarget()
	assert.True(t, forced)
	assert.Equal(t, "judge-3", target)
}

func TestResolvedTarget_FromStopAlone(t *testing.T) {
	v := newTestViewer()

	v.apply(protocol.ServerMessage{Type: protocol.EvtStateUpdate, Status: session.StatusSpinning, CurrentStep: 1})
	// The override hint never arrives; the stop still resolves it.
	v.apply(protocol.ServerMessage{Type: protocol.EvtStateUpdate, Status: session.StatusStopped, CurrentStep: 1, LastTargetID: "judge-3"})

	target, forced := v.ResolvedTarget()
	assert.True(t, forced)
	assert.Equal(t, "judge-3", target)
}

func TestResolvedTarget_ClearedByNewSpin(t *testing.T) {
	v := newTestViewer()

	v.apply(protocol.ServerMessage{Type: protocol.EvtStateUpdate, Status: session.StatusStopped, CurrentStep: 1, TargetID: "judge-3", LastTargetID: "judge-3"})
	_, forced := v.ResolvedTarget()
	assert.True(t, forced)

	v.apply(protocol.ServerMessage{Type: protocol.EvtStateUpdate, Status: session.StatusIdle, CurrentStep: 2, LastTargetID: "judge-3"})
	target, forced := v.ResolvedTarget()
	assert.True(t, forced, "idle keeps the previous result visible")
	assert.Equal(t, "judge-3", target)

	v.apply(protocol.ServerMessage{Type: protocol.EvtStateUpdate, Status: session.StatusSpinning, CurrentStep: 2, LastTargetID: "judge-3"})
	_, forced = v.ResolvedTarget()
	assert.False(t, forced, "a new spin must not inherit the old result")
}

func TestSnapshot_TracksLatest(t *testing.T) {
	v := newTestViewer()
	v.apply(protocol.ServerMessage{Type: protocol.EvtStateSync, Status: session.StatusIdle, CurrentStep: 1})
	v.apply(protocol.ServerMessage{Type: protocol.EvtStateUpdate, Status: session.StatusSpinning, CurrentStep: 1})

	assert.Equal(t, session.StatusSpinning, v.Snapshot().Status)
}

func TestUpdates_DropWhenRendererBehind(t *testing.T) {
	v := newTestViewer()
	for i := 0; i < cap(v.updates)+5; i++ {
		v.apply(protocol.ServerMessage{Type: protocol.EvtStateUpdate, Status: session.StatusSpinning, CurrentStep: 1})
	}
	// Overflow is dropped, the latest state is still observable.
	assert.Len(t, v.updates, cap(v.updates))
	assert.Equal(t, session.StatusSpinning, v.Snapshot().Status)
}
