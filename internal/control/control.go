// Package control is the operator-side driver: a thin imperative API over
// the live-show socket. Commands are fire-and-forget; success shows up as
// the hub's own broadcast coming back, which the driver folds into State so
// the operator UI renders the canonical state, not an optimistic local guess.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/spinstage/backend/internal/script"
	"github.com/spinstage/backend/internal/session"
	"github.com/spinstage/backend/pkg/protocol"
)

var errConnClosed = errors.New("connection closed")

// State is the driver's view of the campaign, fed by state:sync and
// state:update broadcasts.
type State struct {
	Status       session.Status
	CurrentStep  int
	LastTargetID string
}

type Driver struct {
	campaignID string
	logger     *zap.Logger

	mu    sync.Mutex
	conn  *websocket.Conn
	state State
	cues  []script.Cue

	done chan struct{}
}

// Dial connects to the hub, joins the campaign's room, and starts tracking
// broadcasts.
func Dial(ctx context.Context, url, campaignID string, logger *zap.Logger) (*Driver, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		campaignID: campaignID,
		logger:     logger,
		conn:       conn,
		done:       make(chan struct{}),
	}
	if err := d.write(ctx, protocol.ClientMessage{Type: protocol.EvtJoin, CampaignID: campaignID}); err != nil {
		conn.Close(websocket.StatusInternalError, "join failed")
		return nil, err
	}
	go d.readLoop(conn)
	return d, nil
}

// LoadScript pulls the campaign's director script so CueForStep can answer.
func (d *Driver) LoadScript(ctx context.Context, store script.Store) error {
	cues, err := store.CuesByCampaign(ctx, d.campaignID)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.cues = cues
	d.mu.Unlock()
	return nil
}

func (d *Driver) Spin(ctx context.Context) {
	d.command(ctx, protocol.ClientMessage{Type: protocol.EvtTriggerSpin, CampaignID: d.campaignID})
}

func (d *Driver) Stop(ctx context.Context, targetID string) {
	d.command(ctx, protocol.ClientMessage{Type: protocol.EvtTriggerStop, CampaignID: d.campaignID, TargetID: targetID})
}

func (d *Driver) Next(ctx context.Context) {
	d.command(ctx, protocol.ClientMessage{Type: protocol.EvtTriggerNext, CampaignID: d.campaignID})
}

func (d *Driver) Reset(ctx context.Context) {
	d.command(ctx, protocol.ClientMessage{Type: protocol.EvtTriggerReset, CampaignID: d.campaignID})
}

func (d *Driver) Complete(ctx context.Context) {
	d.command(ctx, protocol.ClientMessage{Type: protocol.EvtTriggerComplete, CampaignID: d.campaignID})
}

// Override announces the forced target while remote screens are still
// animating.
func (d *Driver) Override(ctx context.Context, targetID string) {
	d.command(ctx, protocol.ClientMessage{Type: protocol.EvtOverrideTarget, CampaignID: d.campaignID, TargetID: targetID})
}

// StopAtCue resolves the scripted target for the current step and delivers
// it twice, as an override hint and then as the authoritative stop. Reports
// whether a cue existed for the step.
func (d *Driver) StopAtCue(ctx context.Context) bool {
	cue, ok := d.CueForStep(d.State().CurrentStep)
	if !ok {
		return false
	}
	d.Override(ctx, cue.TargetItemID)
	d.Stop(ctx, cue.TargetItemID)
	return true
}

// CueForStep finds the loaded cue for a given step.
func (d *Driver) CueForStep(step int) (script.Cue, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.cues {
		if c.Step == step {
			return c, true
		}
	}
	return script.Cue{}, false
}

// ScriptExhausted reports whether the current step is past the last cue;
// deciding "completed" is the operator's call, not the hub's.
func (d *Driver) ScriptExhausted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cues) == 0 {
		return false
	}
	return d.state.CurrentStep > d.cues[len(d.cues)-1].Step
}

func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Done is closed when the connection is gone.
func (d *Driver) Done() <-chan struct{} { return d.done }

func (d *Driver) Close() {
	d.mu.Lock()
	conn := d.conn
	d.conn = nil
	d.mu.Unlock()
	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "bye")
	}
}

// command drops the message if the connection is down. No offline queueing:
// an operator pressing buttons while disconnected gets nothing replayed on
// reconnect.
func (d *Driver) command(ctx context.Context, m protocol.ClientMessage) {
	if err := d.write(ctx, m); err != nil {
		d.logger.Warn("dropping command, connection down",
			zap.String("type", m.Type),
			zap.String("campaign_id", d.campaignID),
			zap.Error(err))
	}
}

func (d *Driver) write(ctx context.Context, m protocol.ClientMessage) error {
	d.mu.Lock()
	conn := d.conn
	d.mu.Unlock()
	if conn == nil {
		return errConnClosed
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}

func (d *Driver) readLoop(conn *websocket.Conn) {
	defer close(d.done)
	for {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			d.mu.Lock()
			d.conn = nil
			d.mu.Unlock()
			return
		}
		var sm protocol.ServerMessage
		if err := json.Unmarshal(data, &sm); err != nil {
			continue
		}
		switch sm.Type {
		case protocol.EvtStateSync, protocol.EvtStateUpdate:
			d.mu.Lock()
			d.state = State{
				Status:       sm.Status,
				CurrentStep:  sm.CurrentStep,
				LastTargetID: sm.LastTargetID,
			}
			d.mu.Unlock()
		}
	}
}
