package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/DoyleJ11/infinitedraft-backend/internal/cards"
	"github.com/DoyleJ11/infinitedraft-backend/internal/draft"
	"github.com/DoyleJ11/infinitedraft-backend/internal/room"
)

// Defaults are applied when a request leaves a knob unset.
type Defaults struct {
	Players int
	Rounds  int
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}

// statusFor maps the draft error taxonomy onto HTTP statuses: bad input is
// 400, a missing card is 404, and state conflicts (not ready, no session,
// already complete) are 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, draft.ErrCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, draft.ErrPackNotReady),
		errors.Is(err, draft.ErrDraftComplete),
		errors.Is(err, draft.ErrNoActiveSession):
		return http.StatusConflict
	case errors.Is(err, draft.ErrInvalidArgument),
		errors.Is(err, draft.ErrInvalidPackIndex),
		errors.Is(err, draft.ErrEmptyPool):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type startRequest struct {
	Set     string `json:"set"`
	Rounds  int    `json:"rounds"`
	Players int    `json:"players"`
}

// StartDraft handles both host entry points. On /go the player count always
// comes from the presence registry; /refresh may override it explicitly and
// otherwise falls back to the configured default.
func StartDraft(rm *room.Room, defaults Defaults, usePresence bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		players := 0
		if !usePresence {
			players = req.Players
			if players <= 0 {
				players = defaults.Players
			}
		}

		reply := make(chan room.StartReply, 1)
		rm.Inbox() <- room.StartDraft{Set: req.Set, Rounds: req.Rounds, Players: players, Reply: reply}
		res := <-reply
		if res.Err != nil {
			writeError(w, res.Err)
			return
		}

		snapReply := make(chan draft.Snapshot, 1)
		rm.Inbox() <- room.GetSnapshot{Reply: snapReply}
		snap := <-snapReply
		writeJSON(w, http.StatusOK, struct {
			OK      bool         `json:"ok"`
			Players int          `json:"players"`
			Rounds  int          `json:"rounds"`
			Packs   []draft.Pack `json:"packs"`
		}{OK: true, Players: res.Players, Rounds: res.Rounds, Packs: snap.Packs})
	}
}

type pickRequest struct {
	Player    string `json:"player"`
	Card      string `json:"card"`
	PackIndex *int   `json:"pack_index"`
	Round     *int   `json:"round"`
}

type pickResponse struct {
	Advanced      bool         `json:"advanced"`
	NextPackIndex *int         `json:"next_pack_index,omitempty"`
	WaitingOn     *int         `json:"waiting_on,omitempty"`
	RoundAdvanced bool         `json:"round_advanced"`
	CurrentRound  int          `json:"current_round"`
	Deck          []draft.Card `json:"deck"`
}

func PickCard(rm *room.Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pickRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, draft.ErrInvalidArgument)
			return
		}
		if req.Player == "" || req.Card == "" || req.PackIndex == nil {
			writeError(w, draft.ErrInvalidArgument)
			return
		}

		reply := make(chan room.PickReply, 1)
		rm.Inbox() <- room.PickCard{
			Player:    req.Player,
			Card:      req.Card,
			PackIndex: *req.PackIndex,
			Round:     roundOrAuthoritative(req.Round),
			Reply:     reply,
		}
		res := <-reply
		if res.Err != nil {
			writeError(w, res.Err)
			return
		}

		out := pickResponse{
			Advanced:      res.Result.Advanced,
			RoundAdvanced: res.Result.RoundAdvanced,
			CurrentRound:  res.Result.CurrentRound,
			Deck:          emptyIfNil(res.Result.Deck),
		}
		if res.Result.Advanced {
			next := res.Result.NextPackIndex
			out.NextPackIndex = &next
		} else {
			waiting := res.Result.WaitingOn
			out.WaitingOn = &waiting
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type claimRequest struct {
	Name      string `json:"name"`
	PackIndex *int   `json:"pack_index"`
	Round     *int   `json:"round"`
}

func ClaimPack(rm *room.Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req claimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, draft.ErrInvalidArgument)
			return
		}
		if req.Name == "" || req.PackIndex == nil {
			writeError(w, draft.ErrInvalidArgument)
			return
		}

		reply := make(chan room.ClaimReply, 1)
		rm.Inbox() <- room.ClaimPack{
			Player:    req.Name,
			PackIndex: *req.PackIndex,
			Round:     roundOrAuthoritative(req.Round),
			Reply:     reply,
		}
		res := <-reply
		if res.Err != nil {
			writeError(w, res.Err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			OK        bool         `json:"ok"`
			PackIndex int          `json:"pack_index"`
			Pack      draft.Pack   `json:"pack"`
			Ready     []bool       `json:"packs_ready"`
			Deck      []draft.Card `json:"deck"`
		}{
			OK:        true,
			PackIndex: res.Result.PackIndex,
			Pack:      res.Result.Pack,
			Ready:     res.Result.Ready,
			Deck:      emptyIfNil(res.Result.Deck),
		})
	}
}

func GetPacks(rm *room.Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan draft.Snapshot, 1)
		rm.Inbox() <- room.GetSnapshot{Reply: reply}
		writeJSON(w, http.StatusOK, <-reply)
	}
}

func GetDeck(rm *room.Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		var deck []draft.Card
		if name != "" {
			reply := make(chan []draft.Card, 1)
			rm.Inbox() <- room.GetDeck{Name: name, Reply: reply}
			deck = <-reply
		}
		writeJSON(w, http.StatusOK, struct {
			Deck []draft.Card `json:"deck"`
		}{Deck: emptyIfNil(deck)})
	}
}

func GetSets(src *cards.Dir, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sets, err := src.ListSets()
		if err != nil {
			log.Errorw("list sets", "error", err)
			sets = nil
		}
		if sets == nil {
			sets = []string{}
		}
		writeJSON(w, http.StatusOK, struct {
			Sets []string `json:"sets"`
		}{Sets: sets})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func roundOrAuthoritative(round *int) int {
	if round == nil {
		return draft.AuthoritativeRound
	}
	return *round
}

func emptyIfNil(deck []draft.Card) []draft.Card {
	if deck == nil {
		return []draft.Card{}
	}
	return deck
}
