package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/inkwell/internal/commentservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/contentservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

type loginUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input loginUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	token, user, err := app.userService.LoginUser(r.Context(), input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.invalidCredentialsErrorResponse(w, r)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user, "token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// getCurrentUserHandler answers {"user": null} for anonymous callers.
func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	var data any = user
	if user.IsAnonymous() {
		data = nil
	}

	err := app.writeJSON(w, http.StatusOK, envelope{"user": data}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))

	err := app.userService.LogoutUser(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.invalidAuthenticationTokenResponse(w, r)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "logged out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// publishedListHandler and publishedBySlugHandler serve posts and pages alike.
func (app *application) publishedListHandler(s *contentservice.ContentService, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.GetPublished(r.Context())
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		err = app.writeJSON(w, http.StatusOK, envelope{name: items}, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
	}
}

func (app *application) publishedBySlugHandler(s *contentservice.ContentService, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := app.readStringParam(r, "slug")

		item, err := s.GetPublishedBySlug(r.Context(), slug)
		if err != nil {
			app.serviceErrorResponse(w, r, err)
			return
		}

		err = app.writeJSON(w, http.StatusOK, envelope{name: item}, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
	}
}

func (app *application) getPostCommentsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	comments, err := app.commentService.GetPostComments(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input commentservice.CreateCommentRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comment, err := app.commentService.CreateComment(r.Context(), &input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) searchHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	result, err := app.searchService.Search(r.Context(), qs.Get("q"), contentservice.SearchScope(qs.Get("type")))
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"results": result}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
