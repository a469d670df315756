// Package room owns the single live draft session. One goroutine processes
// every trigger — start, pick, claim, join, leave — off an inbox channel, so
// no two mutations ever interleave and invariants only need to hold across
// whole messages. Snapshots fan out to per-client outbox channels after each
// successful mutation; delivery is best-effort and never rolls anything back.
package room

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/infinitedraft-backend/internal/draft"
	"github.com/DoyleJ11/infinitedraft-backend/pkg/types"
)

type Msg interface{ isRoomMsg() }

// Join registers a connected client. Participants (Admin=false) enter the
// presence registry in join order; admins only observe.
type Join struct {
	ClientID string
	Name     string
	Admin    bool
	Outbox   chan types.ServerMessage
}

type Leave struct{ ClientID string }

// StartDraft discards any existing session and starts a fresh one. Players=0
// means "size by the current presence registry".
type StartDraft struct {
	Set     string
	Rounds  int
	Players int
	Reply   chan StartReply
}

type PickCard struct {
	Player    string
	Card      string
	PackIndex int
	Round     int // draft.AuthoritativeRound for "current"
	Reply     chan PickReply
}

type ClaimPack struct {
	Player    string
	PackIndex int
	Round     int
	Reply     chan ClaimReply
}

type GetSnapshot struct{ Reply chan draft.Snapshot }

type GetDeck struct {
	Name  string
	Reply chan []draft.Card
}

type Shutdown struct{}

func (Join) isRoomMsg()        {}
func (Leave) isRoomMsg()       {}
func (StartDraft) isRoomMsg()  {}
func (PickCard) isRoomMsg()    {}
func (ClaimPack) isRoomMsg()   {}
func (GetSnapshot) isRoomMsg() {}
func (GetDeck) isRoomMsg()     {}
func (Shutdown) isRoomMsg()    {}

type StartReply struct {
	Players int
	Rounds  int
	Err     error
}

type PickReply struct {
	Result draft.PickResult
	Err    error
}

type ClaimReply struct {
	Result draft.ClaimResult
	Err    error
}

type client struct {
	name   string
	admin  bool
	outbox chan types.ServerMessage
}

type Room struct {
	inbox         chan Msg
	gen           *draft.Generator
	session       *draft.Session
	defaultRounds int
	clients       map[string]*client
	order         []string // participant client IDs, join order
	log           *zap.SugaredLogger
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewRoom(parent context.Context, gen *draft.Generator, defaultRounds int, log *zap.SugaredLogger) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:         make(chan Msg, 64),
		gen:           gen,
		defaultRounds: defaultRounds,
		clients:       make(map[string]*client),
		log:           log,
		ctx:           ctx,
		cancel:        cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.clients[msg.ClientID] = &client{name: msg.Name, admin: msg.Admin, outbox: msg.Outbox}
				if msg.Admin {
					// Observers don't change the count; only tell them.
					r.send(msg.ClientID, types.ServerMessage{Type: types.MsgUserCount, Count: len(r.order)})
				} else {
					r.order = append(r.order, msg.ClientID)
					r.broadcast(types.ServerMessage{Type: types.MsgUserCount, Count: len(r.order)})
				}
				r.log.Infow("client joined", "client", msg.ClientID, "name", msg.Name, "admin", msg.Admin, "participants", len(r.order))
				if r.session != nil {
					snap := r.session.Snapshot()
					r.send(msg.ClientID, types.ServerMessage{Type: types.MsgPacksUpdate, Snapshot: &snap})
				}

			case Leave:
				r.drop(msg.ClientID)
				r.log.Infow("client left", "client", msg.ClientID, "participants", len(r.order))
				r.broadcast(types.ServerMessage{Type: types.MsgUserCount, Count: len(r.order)})

			case StartDraft:
				msg.Reply <- r.startDraft(msg)

			case PickCard:
				if r.session == nil {
					msg.Reply <- PickReply{Err: draft.ErrNoActiveSession}
					break
				}
				res, events, err := r.session.Pick(msg.Player, msg.Card, msg.PackIndex, msg.Round)
				if err != nil {
					r.log.Warnw("pick rejected", "player", msg.Player, "card", msg.Card, "pack", msg.PackIndex, "error", err)
					msg.Reply <- PickReply{Err: err}
					break
				}
				msg.Reply <- PickReply{Result: res}
				r.broadcastEvents(events)

			case ClaimPack:
				if r.session == nil {
					msg.Reply <- ClaimReply{Err: draft.ErrNoActiveSession}
					break
				}
				res, events, err := r.session.Claim(msg.Player, msg.PackIndex, msg.Round)
				if err != nil {
					msg.Reply <- ClaimReply{Err: err}
					break
				}
				msg.Reply <- ClaimReply{Result: res}
				r.broadcastEvents(events)

			case GetSnapshot:
				if r.session == nil {
					msg.Reply <- draft.Snapshot{
						TotalRounds: r.defaultRounds,
						Players:     len(r.order),
						Packs:       []draft.Pack{},
						Ready:       []bool{},
						Counts:      []int{},
					}
					break
				}
				msg.Reply <- r.session.Snapshot()

			case GetDeck:
				if r.session == nil {
					msg.Reply <- nil
					break
				}
				msg.Reply <- r.session.Deck(msg.Name)

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) startDraft(msg StartDraft) StartReply {
	players := msg.Players
	if players == 0 {
		players = len(r.order)
	}
	if players <= 0 {
		return StartReply{Err: fmt.Errorf("%w: no connected participants", draft.ErrInvalidArgument)}
	}
	rounds := msg.Rounds
	if rounds <= 0 {
		rounds = r.defaultRounds
	}
	sess, err := draft.NewSession(r.gen, players, rounds, msg.Set)
	if err != nil {
		r.log.Errorw("start draft failed", "set", msg.Set, "players", players, "rounds", rounds, "error", err)
		return StartReply{Err: err}
	}
	r.session = sess
	r.log.Infow("draft started", "set", msg.Set, "players", players, "rounds", rounds)

	// Each participant gets a directed starting assignment in join order.
	for i, id := range r.order {
		c := r.clients[id]
		if c == nil {
			continue
		}
		r.send(id, types.ServerMessage{
			Type: types.MsgGo,
			Start: &types.StartAssignment{
				PackIndex: i % players,
				Name:      c.name,
				Players:   players,
				Rounds:    rounds,
			},
		})
	}
	r.broadcastEvents([]draft.EventType{draft.EvtRefresh})
	return StartReply{Players: players, Rounds: rounds}
}

func (r *Room) broadcastEvents(events []draft.EventType) {
	for _, evt := range events {
		snap := r.session.Snapshot()
		snap.Event = evt
		r.broadcast(types.ServerMessage{Type: types.MsgPacksUpdate, Snapshot: &snap})
	}
}

func (r *Room) send(clientID string, msg types.ServerMessage) {
	c := r.clients[clientID]
	if c == nil {
		return
	}
	select {
	case c.outbox <- msg:
	default:
		r.drop(clientID)
	}
}

func (r *Room) broadcast(msg types.ServerMessage) {
	for id, c := range r.clients {
		select {
		case c.outbox <- msg:
		default:
			// Slow or dead client: drop it rather than block the loop.
			r.log.Warnw("dropping slow client", "client", id)
			r.drop(id)
		}
	}
}

func (r *Room) drop(clientID string) {
	c := r.clients[clientID]
	if c == nil {
		return
	}
	close(c.outbox)
	delete(r.clients, clientID)
	for i, id := range r.order {
		if id == clientID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Room) shutdown() {
	for id, c := range r.clients {
		close(c.outbox)
		delete(r.clients, id)
	}
	r.order = nil
	r.cancel()
}
