package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spinstage/backend/internal/script"
)

func offlineDriver() *Driver {
	return &Driver{
		campaignID: "evt-1",
		logger:     zap.NewNop(),
		done:       make(chan struct{}),
	}
}

// Commands on a dead connection are dropped, never queued and never a panic.
func TestCommands_DroppedWhenDisconnected(t *testing.T) {
	d := offlineDriver()
	ctx := context.Background()

	d.Spin(ctx)
	d.Stop(ctx, "judge-3")
	d.Next(ctx)
	d.Reset(ctx)
	d.Override(ctx, "judge-3")
	d.Complete(ctx)

	assert.Equal(t, State{}, d.State(), "dropped commands must not fake local state")
}

func TestCueForStep(t *testing.T) {
	d := offlineDriver()
	d.cues = []script.Cue{
		{Step: 1, TargetItemID: "a"},
		{Step: 2, TargetItemID: "b", Question: "Second?"},
	}

	cue, ok := d.CueForStep(2)
	assert.True(t, ok)
	assert.Equal(t, "b", cue.TargetItemID)

	_, ok = d.CueForStep(3)
	assert.False(t, ok)
}

func TestScriptExhausted(t *testing.T) {
	d := offlineDriver()

	// No script loaded: never exhausted, completion stays manual.
	d.state.CurrentStep = 99
	assert.False(t, d.ScriptExhausted())

	d.cues = []script.Cue{{Step: 1, TargetItemID: "a"}, {Step: 2, TargetItemID: "b"}}
	d.state.CurrentStep = 2
	assert.False(t, d.ScriptExhausted())
	d.state.CurrentStep = 3
	assert.True(t, d.ScriptExhausted())
}

func TestStopAtCue_NoCueForStep(t *testing.T) {
	d := offlineDriver()
	d.state.CurrentStep = 1
	assert.False(t, d.StopAtCue(context.Background()))
}
