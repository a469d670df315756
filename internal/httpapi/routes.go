package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/infinitedraft-backend/internal/cards"
	"github.com/DoyleJ11/infinitedraft-backend/internal/room"
	"github.com/DoyleJ11/infinitedraft-backend/internal/ws"
)

func SetupRoutes(rm *room.Room, src *cards.Dir, defaults Defaults, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/get_sets", GetSets(src, log))
	r.Get("/get_packs", GetPacks(rm))
	r.Get("/get_deck", GetDeck(rm))

	// /go sizes the draft by the presence registry; /refresh takes an
	// explicit player count (host tooling, tests).
	r.Post("/go", StartDraft(rm, defaults, true))
	r.Post("/refresh", StartDraft(rm, defaults, false))

	r.Post("/click", PickCard(rm))
	r.Post("/claim_pack", ClaimPack(rm))

	r.Get("/ws", ws.Handler(rm, log))
	return r
}
