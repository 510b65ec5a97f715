// Package hub is the broadcast engine behind the live-show socket. A single
// dispatch goroutine owns the session store and the room tables, so every
// mutation and every fan-out for a campaign happens in the order commands
// arrived. No locks, a single writer.
package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spinstage/backend/internal/session"
	"github.com/spinstage/backend/pkg/protocol"
)

type Msg interface{ isHubMsg() }

// Join subscribes a connection to a campaign's room and immediately sends it
// a state:sync snapshot. A connection belongs to at most one room; joining
// again overwrites its interest. Re-joining the same room just re-sends the
// snapshot.
type Join struct {
	ClientID   string
	CampaignID string
	Outbox     chan protocol.ServerMessage
}

type Leave struct{ ClientID string }

type Spin struct{ CampaignID string }

type Stop struct {
	CampaignID string
	TargetID   string
}

type Next struct{ CampaignID string }

type Reset struct{ CampaignID string }

type Complete struct{ CampaignID string }

// Override is the director-mode hint: fan the forced target out to the room
// without touching status, so a mid-animation renderer learns the outcome
// before the authoritative stop arrives.
type Override struct {
	CampaignID string
	TargetID   string
}

type GetView struct {
	CampaignID string
	Reply      chan View
}

type Shutdown struct{}

func (Join) isHubMsg()     {}
func (Leave) isHubMsg()    {}
func (Spin) isHubMsg()     {}
func (Stop) isHubMsg()     {}
func (Next) isHubMsg()     {}
func (Reset) isHubMsg()    {}
func (Complete) isHubMsg() {}
func (Override) isHubMsg() {}
func (GetView) isHubMsg()  {}
func (Shutdown) isHubMsg() {}

// View reflects internal state for tests without data races.
type View struct {
	Session    session.Session
	NumClients int
}

// roomKey names a campaign's room. Campaign ids are opaque; the prefix only
// keeps room names distinct from any other grouping a transport might add.
func roomKey(campaignID string) string { return "campaign:" + campaignID }

type Hub struct {
	inbox    chan Msg
	sessions *session.Store
	rooms    map[string]map[string]chan protocol.ServerMessage // room key -> client id -> outbox
	joined   map[string]string                                 // client id -> room key
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	now      func() time.Time
}

func NewHub(parent context.Context, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan Msg, 64),
		sessions: session.NewStore(),
		rooms:    make(map[string]map[string]chan protocol.ServerMessage),
		joined:   make(map[string]string),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Join:
				h.join(msg)

			case Leave:
				h.leave(msg.ClientID)

			case Spin:
				s := h.sessions.ApplySpin(msg.CampaignID)
				h.broadcast(msg.CampaignID, protocol.Update(s))

			case Stop:
				s := h.sessions.ApplyStop(msg.CampaignID, msg.TargetID)
				// The hub is the sole history writer: one entry per stop,
				// recorded at the step the spin concluded on.
				s = h.sessions.AppendHistory(msg.CampaignID, session.HistoryEntry{
					Step:      s.CurrentStep,
					Result:    msg.TargetID,
					Timestamp: h.now(),
				})
				h.broadcast(msg.CampaignID, protocol.StopUpdate(s))

			case Next:
				s := h.sessions.ApplyNext(msg.CampaignID)
				h.broadcast(msg.CampaignID, protocol.Update(s))

			case Reset:
				s := h.sessions.ApplyReset(msg.CampaignID)
				h.broadcast(msg.CampaignID, protocol.Update(s))

			case Complete:
				s := h.sessions.ApplyComplete(msg.CampaignID)
				h.broadcast(msg.CampaignID, protocol.Update(s))

			case Override:
				// No status transition. Target ids are opaque here; a
				// renderer that can't match one falls back on its own.
				s := h.sessions.GetOrCreate(msg.CampaignID)
				h.broadcast(msg.CampaignID, protocol.OverrideUpdate(s, msg.TargetID))

			case GetView:
				msg.Reply <- View{
					Session:    h.sessions.GetOrCreate(msg.CampaignID),
					NumClients: len(h.rooms[roomKey(msg.CampaignID)]),
				}

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) join(msg Join) {
	key := roomKey(msg.CampaignID)
	if prev, ok := h.joined[msg.ClientID]; ok && prev != key {
		delete(h.rooms[prev], msg.ClientID)
	}
	room := h.rooms[key]
	if room == nil {
		room = make(map[string]chan protocol.ServerMessage)
		h.rooms[key] = room
	}
	room[msg.ClientID] = msg.Outbox
	h.joined[msg.ClientID] = key

	snap := h.sessions.GetOrCreate(msg.CampaignID)
	select {
	case msg.Outbox <- protocol.Sync(snap):
	default:
		// A client that cannot even take the snapshot is dead.
		h.drop(key, msg.ClientID)
	}
}

func (h *Hub) leave(clientID string) {
	key, ok := h.joined[clientID]
	if !ok {
		return
	}
	h.drop(key, clientID)
}

// drop removes a client from its room. The outbox channel is never closed
// here: the same connection may still re-join, and its writer goroutine
// exits with the connection, not with room membership.
func (h *Hub) drop(key, clientID string) {
	delete(h.rooms[key], clientID)
	delete(h.joined, clientID)
}

// broadcast fans a message out to every room member independently. A slow or
// dead member is dropped rather than allowed to stall the rest of the room.
func (h *Hub) broadcast(campaignID string, m protocol.ServerMessage) {
	key := roomKey(campaignID)
	for clientID, ch := range h.rooms[key] {
		select {
		case ch <- m:
		default:
			h.logger.Warn("dropping slow client",
				zap.String("campaign_id", campaignID),
				zap.String("client_id", clientID))
			h.drop(key, clientID)
		}
	}
}

func (h *Hub) shutdown() {
	for clientID, key := range h.joined {
		h.drop(key, clientID)
	}
	h.cancel()
}
