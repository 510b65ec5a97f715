package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spinstage/backend/internal/hub"
	"github.com/spinstage/backend/pkg/protocol"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection and bridges it to the hub: a writer
// goroutine drains this client's outbox, the reader loop dispatches inbound
// events. Malformed or unknown frames are logged and skipped, never answered
// with an error event; the participants are cooperative, not adversarial.
func Handler(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		out := make(chan protocol.ServerMessage, 8)
		defer func() { h.Inbox() <- hub.Leave{ClientID: clientID} }()

		// Writer goroutine, ends with the connection.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case m := <-out:
					payload, _ := json.Marshal(m)
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Clean close or dropped transport; Leave runs in the defer.
				return
			}

			var cm protocol.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				logger.Debug("malformed frame", zap.String("client_id", clientID), zap.Error(err))
				continue
			}

			msg, ok := toHubMsg(clientID, out, cm)
			if !ok {
				logger.Debug("unknown event",
					zap.String("client_id", clientID),
					zap.String("type", cm.Type))
				continue
			}
			h.Inbox() <- msg
		}
	}
}

func toHubMsg(clientID string, out chan protocol.ServerMessage, cm protocol.ClientMessage) (hub.Msg, bool) {
	switch cm.Type {
	case protocol.EvtJoin:
		return hub.Join{ClientID: clientID, CampaignID: cm.CampaignID, Outbox: out}, true
	case protocol.EvtTriggerSpin:
		return hub.Spin{CampaignID: cm.CampaignID}, true
	case protocol.EvtTriggerStop:
		return hub.Stop{CampaignID: cm.CampaignID, TargetID: cm.TargetID}, true
	case protocol.EvtTriggerNext:
		return hub.Next{CampaignID: cm.CampaignID}, true
	case protocol.EvtTriggerReset:
		return hub.Reset{CampaignID: cm.CampaignID}, true
	case protocol.EvtTriggerComplete:
		return hub.Complete{CampaignID: cm.CampaignID}, true
	case protocol.EvtOverrideTarget:
		return hub.Override{CampaignID: cm.CampaignID, TargetID: cm.TargetID}, true
	default:
		return nil, false
	}
}
