// Package types holds the wire messages pushed to websocket clients. Clients
// act over the HTTP API; the socket is a one-way notification sink plus the
// presence handshake.
package types

import "github.com/DoyleJ11/infinitedraft-backend/internal/draft"

// Server -> Client
//
// packs_update: authoritative snapshot after every successful mutation,
//               tagged with the event that produced it (refresh, pick_made,
//               round_advanced, draft_complete, pack_claimed).
// go:          directed at each participant when a draft starts, carrying
//              their assigned starting pack index.
// user_count:  broadcast whenever the participant list changes.
// error:       terminal; the server closes the socket after sending it.
type ServerMessage struct {
	Type     string           `json:"type"`
	Snapshot *draft.Snapshot  `json:"snapshot,omitempty"`
	Start    *StartAssignment `json:"start,omitempty"`
	Count    int              `json:"count,omitempty"`
	Error    string           `json:"error,omitempty"`
}

const (
	MsgPacksUpdate = "packs_update"
	MsgGo          = "go"
	MsgUserCount   = "user_count"
	MsgError       = "error"
)

// StartAssignment tells one participant where they begin: pack index
// joinOrder mod players. Participants joining after the start are observers
// until the next start.
type StartAssignment struct {
	PackIndex int    `json:"pack_index"`
	Name      string `json:"name"`
	Players   int    `json:"players"`
	Rounds    int    `json:"rounds"`
}
