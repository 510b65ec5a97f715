package session

// Store is the in-memory table of live sessions, keyed by campaign id.
// It is owned exclusively by the hub's dispatch loop, the single writer,
// so it needs no locking. Every operation is total: an unknown campaign id
// means "first use" and creates a fresh idle session, because a display
// client may join a campaign whose operator has not connected yet.
//
// All operations return a snapshot copy, never the live entry.
type Store struct {
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (st *Store) getOrCreate(campaignID string) *Session {
	if s := st.sessions[campaignID]; s != nil {
		return s
	}
	s := newSession()
	st.sessions[campaignID] = s
	return s
}

func (st *Store) GetOrCreate(campaignID string) Session {
	return st.getOrCreate(campaignID).snapshot()
}

// ApplySpin is idempotent: a "spin" while already spinning changes nothing,
// though the hub still re-broadcasts the resulting state.
func (st *Store) ApplySpin(campaignID string) Session {
	s := st.getOrCreate(campaignID)
	s.Status = StatusSpinning
	return s.snapshot()
}

func (st *Store) ApplyStop(campaignID, targetID string) Session {
	s := st.getOrCreate(campaignID)
	s.Status = StatusStopped
	s.LastTargetID = targetID
	return s.snapshot()
}

// ApplyNext advances to the next step and returns to idle. LastTargetID is
// deliberately left alone.
func (st *Store) ApplyNext(campaignID string) Session {
	s := st.getOrCreate(campaignID)
	s.CurrentStep++
	s.Status = StatusIdle
	return s.snapshot()
}

// ApplyComplete marks the show finished. Whether the script is actually
// exhausted is the control client's judgment; the store records whatever
// it is told.
func (st *Store) ApplyComplete(campaignID string) Session {
	s := st.getOrCreate(campaignID)
	s.Status = StatusCompleted
	return s.snapshot()
}

// ApplyReset discards the session, history included, and starts over at
// the first step.
func (st *Store) ApplyReset(campaignID string) Session {
	s := newSession()
	st.sessions[campaignID] = s
	return s.snapshot()
}

func (st *Store) AppendHistory(campaignID string, e HistoryEntry) Session {
	s := st.getOrCreate(campaignID)
	s.History = append(s.History, e)
	return s.snapshot()
}

// Len reports how many campaigns have live sessions.
func (st *Store) Len() int { return len(st.sessions) }
