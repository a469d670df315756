// Package ws is the notification transport: clients connect once, identify
// themselves by name, and from then on only receive — snapshots, start
// assignments, participant counts. All game actions go through the HTTP API.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/infinitedraft-backend/internal/room"
	"github.com/DoyleJ11/infinitedraft-backend/pkg/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection and registers it with the room. A
// participant must supply ?name=; ?source=admin connects an observer that
// does not count toward the presence registry (host dashboards).
func Handler(rm *room.Room, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		admin := r.URL.Query().Get("source") == "admin"

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		if !admin && name == "" {
			payload, _ := json.Marshal(types.ServerMessage{Type: types.MsgError, Error: "name required"})
			ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
			_ = conn.Write(ctx, websocket.MessageText, payload)
			cancel()
			conn.Close(websocket.StatusPolicyViolation, "name required")
			return
		}

		out := make(chan types.ServerMessage, 16)
		clientID := uuid.NewString()

		rm.Inbox() <- room.Join{ClientID: clientID, Name: name, Admin: admin, Outbox: out}
		defer func() { rm.Inbox() <- room.Leave{ClientID: clientID} }()

		// Writer: drains the room's outbox until the room closes it.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					log.Errorw("marshal server message", "error", err)
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader: clients never send anything meaningful; this loop exists to
		// notice the disconnect.
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}
}
