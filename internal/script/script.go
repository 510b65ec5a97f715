// Package script holds the director-script and item-catalog contracts. The
// hub never reads these; they serve the control client (picking the target
// for the current step) and the operator console's REST surface.
package script

import "context"

// Cue is one step of a director script: at Step, the forced outcome is
// TargetItemID, optionally alongside a question read out on stage.
type Cue struct {
	Step         int    `json:"step"`
	TargetItemID string `json:"targetItemId"`
	Question     string `json:"question,omitempty"`
}

// Item is a catalog entry a renderer can show for a target id.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type Store interface {
	// CuesByCampaign returns the campaign's cues ordered by step.
	CuesByCampaign(ctx context.Context, campaignID string) ([]Cue, error)
	// ReplaceCues swaps the campaign's whole script for a new one.
	ReplaceCues(ctx context.Context, campaignID string, cues []Cue) error
}

type Catalog interface {
	ItemsByCampaign(ctx context.Context, campaignID string) ([]Item, error)
}
