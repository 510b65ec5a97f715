// Package display is the passive viewer contract shared by the dashboard,
// the public guest page, and the embeddable link: connect, join, render
// whatever the hub says. It never originates a state-mutating command.
package display

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/spinstage/backend/internal/session"
	"github.com/spinstage/backend/pkg/protocol"
)

const redialBackoff = time.Second

type Viewer struct {
	url        string
	campaignID string
	logger     *zap.Logger
	updates    chan protocol.ServerMessage

	mu     sync.Mutex
	last   protocol.ServerMessage
	target string
	forced bool
}

func NewViewer(url, campaignID string, logger *zap.Logger) *Viewer {
	return &Viewer{
		url:        url,
		campaignID: campaignID,
		logger:     logger,
		updates:    make(chan protocol.ServerMessage, 16),
	}
}

// Updates streams everything the hub sends, snapshots included. If the
// renderer falls behind, messages are dropped; the subscription is
// at-most-once by design and a Snapshot call always has the latest state.
func (v *Viewer) Updates() <-chan protocol.ServerMessage { return v.updates }

// Snapshot returns the most recent message from the hub.
func (v *Viewer) Snapshot() protocol.ServerMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// ResolvedTarget reports the forced outcome of the in-flight or just-ended
// spin, once either the override hint or the stop broadcast has delivered
// it. Until one of them arrives the renderer must not settle on a result.
func (v *Viewer) ResolvedTarget() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.target, v.forced
}

// Run keeps the viewer subscribed until ctx ends. After a transport drop it
// re-dials and re-issues join; the hub never pushes state to a connection
// that has not (re)joined, so the fresh snapshot comes from the join itself.
func (v *Viewer) Run(ctx context.Context) error {
	for {
		if err := v.runOnce(ctx); err != nil {
			v.logger.Debug("viewer connection lost", zap.String("campaign_id", v.campaignID), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(redialBackoff):
		}
	}
}

func (v *Viewer) runOnce(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, v.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	join := protocol.ClientMessage{Type: protocol.EvtJoin, CampaignID: v.campaignID}
	payload, _ := json.Marshal(join)
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return err
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		var sm protocol.ServerMessage
		if err := json.Unmarshal(data, &sm); err != nil {
			continue
		}
		v.apply(sm)
	}
}

func (v *Viewer) apply(sm protocol.ServerMessage) {
	v.mu.Lock()
	v.last = sm
	switch {
	case sm.TargetID != "":
		v.target, v.forced = sm.TargetID, true
	case sm.Status == session.StatusStopped && sm.LastTargetID != "":
		v.target, v.forced = sm.LastTargetID, true
	case sm.Status == session.StatusSpinning:
		// New cycle: the previous result no longer binds this spin.
		v.target, v.forced = "", false
	}
	v.mu.Unlock()

	select {
	case v.updates <- sm:
	default:
		v.logger.Debug("renderer behind, dropping update", zap.String("campaign_id", v.campaignID))
	}
}
