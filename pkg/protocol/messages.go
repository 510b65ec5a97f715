// Package protocol defines the wire messages exchanged over the live-show
// socket. Event names are the protocol; payloads are typed so handlers get
// exhaustiveness checking when a new control event is added.
package protocol

import "github.com/spinstage/backend/internal/session"

// Client -> hub events.
const (
	EvtJoin            = "join"
	EvtTriggerSpin     = "trigger:spin"
	EvtTriggerStop     = "trigger:stop"
	EvtTriggerNext     = "trigger:next"
	EvtTriggerReset    = "trigger:reset"
	EvtTriggerComplete = "trigger:complete"
	EvtOverrideTarget  = "override:target"
)

// Hub -> client events.
const (
	// EvtStateSync is sent to a single connection right after it joins.
	EvtStateSync = "state:sync"
	// EvtStateUpdate is fanned out to every room member after a mutation,
	// and also carries live override hints.
	EvtStateUpdate = "state:update"
)

type ClientMessage struct {
	Type       string `json:"type"`
	CampaignID string `json:"campaignId,omitempty"`
	TargetID   string `json:"targetId,omitempty"`
}

// ServerMessage is the single hub->client envelope. TargetID is the live
// override hint ("director mode"); LastTargetID is the committed result of
// the most recent stop. A renderer may resolve the forced outcome from
// either one; they are two deliveries of the same fact.
type ServerMessage struct {
	Type         string                 `json:"type"`
	Status       session.Status         `json:"status,omitempty"`
	CurrentStep  int                    `json:"currentStep,omitempty"`
	TargetID     string                 `json:"targetId,omitempty"`
	LastTargetID string                 `json:"lastTargetId,omitempty"`
	History      []session.HistoryEntry `json:"history,omitempty"`
}

// Sync builds the snapshot sent to a freshly joined connection.
func Sync(s session.Session) ServerMessage {
	return ServerMessage{
		Type:         EvtStateSync,
		Status:       s.Status,
		CurrentStep:  s.CurrentStep,
		LastTargetID: s.LastTargetID,
		History:      s.History,
	}
}

// Update builds the broadcast sent after a state mutation. History is not
// included; late joiners get it from the sync snapshot instead.
func Update(s session.Session) ServerMessage {
	return ServerMessage{
		Type:         EvtStateUpdate,
		Status:       s.Status,
		CurrentStep:  s.CurrentStep,
		LastTargetID: s.LastTargetID,
	}
}

// StopUpdate is Update with the target repeated in both fields, so a client
// that missed the override hint still resolves the forced outcome from the
// stop broadcast alone.
func StopUpdate(s session.Session) ServerMessage {
	m := Update(s)
	m.TargetID = s.LastTargetID
	return m
}

// OverrideUpdate carries the operator's forced target to mid-animation
// renderers without transitioning status.
func OverrideUpdate(s session.Session, targetID string) ServerMessage {
	m := Update(s)
	m.TargetID = targetID
	return m
}
