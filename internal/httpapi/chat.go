// internal/httpapi/chat.go
//
// Chat controllers.
//
// Context
// -------
// Every room-scoped route begins with Authorize, which either yields a
// Capability or a domain error that fail() turns into 403/404.  The
// controllers never talk to the chat store directly; all policy sits in
// chat.Service.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

/*──────────────────────────── rooms ────────────────────────────────────────*/

func (a *API) listRooms(w http.ResponseWriter, r *http.Request) {
	c, err := a.chat.AuthorizeGroup(r.Context(), chi.URLParam(r, "groupID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	rooms, err := a.chat.Rooms(r.Context(), c)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

type createRoomReq struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
	Type string `json:"type" validate:"omitempty,max=40"`
}

func (a *API) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := a.chat.AuthorizeGroup(r.Context(), chi.URLParam(r, "groupID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	room, err := a.chat.CreateRoom(r.Context(), c, req.Name, req.Type)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

type renameRoomReq struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

func (a *API) renameRoom(w http.ResponseWriter, r *http.Request) {
	var req renameRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := a.chat.Authorize(r.Context(), chi.URLParam(r, "roomID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	if err := a.chat.RenameRoom(r.Context(), c, req.Name); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) deleteRoom(w http.ResponseWriter, r *http.Request) {
	c, err := a.chat.Authorize(r.Context(), chi.URLParam(r, "roomID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	if err := a.chat.DeleteRoom(r.Context(), c); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) listParticipants(w http.ResponseWriter, r *http.Request) {
	c, err := a.chat.Authorize(r.Context(), chi.URLParam(r, "roomID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	parts, err := a.chat.Participants(r.Context(), c)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

/*──────────────────────────── messages ─────────────────────────────────────*/

func (a *API) listMessages(w http.ResponseWriter, r *http.Request) {
	c, err := a.chat.Authorize(r.Context(), chi.URLParam(r, "roomID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	beforeID := r.URL.Query().Get("before")

	msgs, err := a.chat.Messages(r.Context(), c, limit, beforeID)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

type sendMessageReq struct {
	Content  string          `json:"content"  validate:"required,min=1,max=4000"`
	Type     string          `json:"type"     validate:"omitempty,max=40"`
	Metadata json.RawMessage `json:"metadata"`
	ReplyTo  *string         `json:"replyTo"`
}

func (a *API) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := a.chat.Authorize(r.Context(), chi.URLParam(r, "roomID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	msg, err := a.chat.SendMessage(r.Context(), c, req.Content, req.Type, req.Metadata, req.ReplyTo)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

type editMessageReq struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

func (a *API) editMessage(w http.ResponseWriter, r *http.Request) {
	var req editMessageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := a.chat.Authorize(r.Context(), chi.URLParam(r, "roomID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	msg, err := a.chat.EditMessage(r.Context(), c, chi.URLParam(r, "messageID"), req.Content)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (a *API) deleteMessage(w http.ResponseWriter, r *http.Request) {
	c, err := a.chat.Authorize(r.Context(), chi.URLParam(r, "roomID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	if err := a.chat.DeleteMessage(r.Context(), c, chi.URLParam(r, "messageID")); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

/*──────────────────────────── reactions ────────────────────────────────────*/

func (a *API) listReactions(w http.ResponseWriter, r *http.Request) {
	c, err := a.chat.Authorize(r.Context(), chi.URLParam(r, "roomID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	reactions, err := a.chat.Reactions(r.Context(), c, chi.URLParam(r, "messageID"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reactions)
}

func (a *API) addReaction(w http.ResponseWriter, r *http.Request) {
	c, err := a.chat.Authorize(r.Context(), chi.URLParam(r, "roomID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	if err := a.chat.React(r.Context(), c, chi.URLParam(r, "messageID"), chi.URLParam(r, "emoji")); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) removeReaction(w http.ResponseWriter, r *http.Request) {
	c, err := a.chat.Authorize(r.Context(), chi.URLParam(r, "roomID"), UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	if err := a.chat.Unreact(r.Context(), c, chi.URLParam(r, "messageID"), chi.URLParam(r, "emoji")); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
