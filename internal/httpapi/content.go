// internal/httpapi/content.go
//
// Content console controllers.
//
// Context
// -------
// The list route fetches the whole collection once per request and runs the
// pure pipeline (filter → sort → paginate) in memory; the response carries
// the derived page plus pagination metadata.  Mutations are thin wrappers
// over the content repository.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/circlehq/console/internal/content"
	"github.com/circlehq/console/internal/metrics"
)

// paramsFromQuery maps URL query values onto pipeline Params via the
// setters, so the page-reset invariant holds even for hand-built URLs.
func paramsFromQuery(r *http.Request) content.Params {
	q := r.URL.Query()
	p := content.NewParams()

	if v := q.Get("type"); v != "" {
		p.SetType(v)
	}
	if v := q.Get("status"); v != "" {
		p.SetStatus(v)
	}
	if v := q.Get("search"); v != "" {
		p.SetSearch(v)
	}
	if v := q.Get("sortBy"); v != "" {
		dir := q.Get("sortDirection")
		if dir != content.SortAsc && dir != content.SortDesc {
			dir = content.SortAsc
		}
		p.SetSort(v, dir)
	}
	if v := q.Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			p.PageSize = n
		}
	}
	// Page is applied last: filters above already reset it to 1.
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.SetPage(n)
		}
	}
	return p
}

func (a *API) listContent(w http.ResponseWriter, r *http.Request) {
	records, err := content.All(r.Context(), a.db)
	if err != nil {
		fail(w, err)
		return
	}

	p := paramsFromQuery(r)
	ordered := content.FilterAndSort(records, p)
	items, pagination := content.Paginate(ordered, p.CurrentPage, p.PageSize)
	metrics.ContentQueriesTotal.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"pagination": pagination,
	})
}

func (a *API) getContent(w http.ResponseWriter, r *http.Request) {
	rec, err := content.ByID(r.Context(), a.db, chi.URLParam(r, "contentID"))
	if err != nil {
		fail(w, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type createContentReq struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
	Type  string `json:"type"  validate:"required,oneof=marketing news inspiration popup"`
}

func (a *API) createContent(w http.ResponseWriter, r *http.Request) {
	var req createContentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := content.Create(r.Context(), a.db, req.Title, content.Type(req.Type))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

type updateContentReq struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

func (a *API) updateContent(w http.ResponseWriter, r *http.Request) {
	var req updateContentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := content.Update(r.Context(), a.db, chi.URLParam(r, "contentID"), req.Title); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) publishContent(w http.ResponseWriter, r *http.Request) {
	a.setContentStatus(w, r, content.StatusPublished)
}

func (a *API) archiveContent(w http.ResponseWriter, r *http.Request) {
	a.setContentStatus(w, r, content.StatusArchived)
}

func (a *API) setContentStatus(w http.ResponseWriter, r *http.Request, status content.Status) {
	if err := content.SetStatus(r.Context(), a.db, chi.URLParam(r, "contentID"), status); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) deleteContent(w http.ResponseWriter, r *http.Request) {
	if err := content.Delete(r.Context(), a.db, chi.URLParam(r, "contentID")); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
