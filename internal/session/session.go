package session

import "time"

type Status string

const (
	StatusIdle      Status = "idle"
	StatusSpinning  Status = "spinning"
	StatusStopped   Status = "stopped"
	StatusCompleted Status = "completed"
)

// Steps are 1-based so they line up with director script numbering.
const FirstStep = 1

type HistoryEntry struct {
	Step      int       `json:"step"`
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the control state for one campaign's live show. LastTargetID
// survives "next" and "spin" so late joiners can still ask what the previous
// result was during the idle window between steps.
type Session struct {
	Status       Status         `json:"status"`
	CurrentStep  int            `json:"currentStep"`
	LastTargetID string         `json:"lastTargetId,omitempty"`
	History      []HistoryEntry `json:"history,omitempty"`
}

func newSession() *Session {
	return &Session{
		Status:      StatusIdle,
		CurrentStep: FirstStep,
		History:     []HistoryEntry{},
	}
}

// snapshot copies the session so callers can hand it to other goroutines
// without racing the store's single writer. History entries are immutable
// once appended, so a shallow copy of the slice would almost do, but the
// backing array is still shared with future appends, so clone it.
func (s *Session) snapshot() Session {
	out := *s
	out.History = make([]HistoryEntry, len(s.History))
	copy(out.History, s.History)
	return out
}
