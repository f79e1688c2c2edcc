// internal/httpapi/api.go
//
// HTTP controller layer.
//
// Context
// -------
// The API owns the wire contract: JSON shapes, status codes, and the
// mapping from domain errors to HTTP errors.  It is also the policy
// enforcement point for chat—every mutating chat route first obtains a
// Capability from chat.Service.Authorize, so a forgotten check cannot
// compile.
//
// Error mapping
// -------------
//   chat.ErrRoomNotFound / chat.ErrMessageNotFound → 404
//   chat.ErrForbidden                              → 403
//   validation failures                            → 400
//   anything else (store failures)                 → 500
package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/circlehq/console/internal/chat"
	"github.com/circlehq/console/internal/requestinfo"
)

// API wires the controllers' dependencies.  Construct once in main.
type API struct {
	db       *sqlx.DB
	chat     *chat.Service
	validate *validator.Validate
	secret   []byte
}

// New builds the controller set.  secret signs and verifies bearer tokens.
func New(db *sqlx.DB, chatSvc *chat.Service, jwtSecret string) *API {
	return &API{
		db:       db,
		chat:     chatSvc,
		validate: validator.New(),
		secret:   []byte(jwtSecret),
	}
}

// Router assembles the /api tree.  Request-info enrichment runs before
// identity so audit entries carry UA and geo even for rejected tokens.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestinfo.Enrich)
	r.Use(a.identity)

	r.Route("/content", func(r chi.Router) {
		r.Get("/", a.listContent)
		r.Post("/", a.createContent)
		r.Route("/{contentID}", func(r chi.Router) {
			r.Get("/", a.getContent)
			r.Patch("/", a.updateContent)
			r.Delete("/", a.deleteContent)
			r.Post("/publish", a.publishContent)
			r.Post("/archive", a.archiveContent)
		})
	})

	r.Route("/groups/{groupID}/rooms", func(r chi.Router) {
		r.Get("/", a.listRooms)
		r.Post("/", a.createRoom)
	})

	r.Route("/rooms/{roomID}", func(r chi.Router) {
		r.Patch("/", a.renameRoom)
		r.Delete("/", a.deleteRoom)
		r.Get("/participants", a.listParticipants)

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", a.listMessages)
			r.Post("/", a.sendMessage)
			r.Route("/{messageID}", func(r chi.Router) {
				r.Patch("/", a.editMessage)
				r.Delete("/", a.deleteMessage)
				r.Get("/reactions", a.listReactions)
				r.Put("/reactions/{emoji}", a.addReaction)
				r.Delete("/reactions/{emoji}", a.removeReaction)
			})
		})
	})

	return r
}
