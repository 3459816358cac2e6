package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/inkwell/internal/contentservice"
)

type updateCommentStatusRequest struct {
	IsApproved *bool `json:"is_approved"`
}

// contentHandlers binds the admin content routes to one content kind.
type contentHandlers struct {
	app  *application
	s    *contentservice.ContentService
	name string
	list string
}

func (app *application) newContentHandlers(s *contentservice.ContentService) *contentHandlers {
	name := s.Kind().Name
	return &contentHandlers{app: app, s: s, name: name, list: name + "s"}
}

// getAll lists every item regardless of status. With ?q= it runs the admin search instead.
func (h *contentHandlers) getAll(w http.ResponseWriter, r *http.Request) {
	var (
		items []contentservice.Content
		err   error
	)

	if q := r.URL.Query(); q.Has("q") {
		items, err = h.s.Search(r.Context(), q.Get("q"))
	} else {
		items, err = h.s.GetAll(r.Context())
	}
	if err != nil {
		h.app.serviceErrorResponse(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, envelope{h.list: items}, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}

func (h *contentHandlers) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := h.app.readIDParam(r)
	if err != nil {
		h.app.notFoundErrorResponse(w, r)
		return
	}

	item, err := h.s.GetByID(r.Context(), id)
	if err != nil {
		h.app.serviceErrorResponse(w, r, err)
		return
	}

	h.app.writeContent(w, r, http.StatusOK, h.name, item)
}

func (h *contentHandlers) create(w http.ResponseWriter, r *http.Request) {
	var input contentservice.CreateContentRequest

	err := h.app.parseJSON(w, r, &input)
	if err != nil {
		h.app.badRequestErrorResponse(w, r, err)
		return
	}

	item, err := h.s.Create(r.Context(), &input)
	if err != nil {
		h.app.serviceErrorResponse(w, r, err)
		return
	}

	h.app.writeContent(w, r, http.StatusCreated, h.name, item)
}

func (h *contentHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := h.app.readIDParam(r)
	if err != nil {
		h.app.notFoundErrorResponse(w, r)
		return
	}

	var input contentservice.UpdateContentRequest

	err = h.app.parseJSON(w, r, &input)
	if err != nil {
		h.app.badRequestErrorResponse(w, r, err)
		return
	}

	item, err := h.s.Update(r.Context(), id, &input)
	if err != nil {
		h.app.serviceErrorResponse(w, r, err)
		return
	}

	h.app.writeContent(w, r, http.StatusOK, h.name, item)
}

func (h *contentHandlers) publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.s.Publish)
}

func (h *contentHandlers) unpublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.s.Unpublish)
}

func (h *contentHandlers) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int) (*contentservice.Content, error)) {
	id, err := h.app.readIDParam(r)
	if err != nil {
		h.app.notFoundErrorResponse(w, r)
		return
	}

	item, err := fn(r.Context(), id)
	if err != nil {
		h.app.serviceErrorResponse(w, r, err)
		return
	}

	h.app.writeContent(w, r, http.StatusOK, h.name, item)
}

func (h *contentHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.app.readIDParam(r)
	if err != nil {
		h.app.notFoundErrorResponse(w, r)
		return
	}

	err = h.s.Delete(r.Context(), id)
	if err != nil {
		h.app.serviceErrorResponse(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, envelope{"message": h.name + " successfully deleted"}, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}

func (app *application) writeContent(w http.ResponseWriter, r *http.Request, status int, name string, item *contentservice.Content) {
	err := app.writeJSON(w, status, envelope{name: item}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getAllCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := app.commentService.GetAllComments(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPendingCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := app.commentService.GetPendingComments(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateCommentStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input updateCommentStatusRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if input.IsApproved == nil {
		app.failedValidationErrorResponse(w, r, map[string]string{"is_approved": "must be provided"})
		return
	}

	comment, err := app.commentService.UpdateCommentStatus(r.Context(), id, *input.IsApproved)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.commentService.DeleteComment(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
