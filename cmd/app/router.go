package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// auth
	router.HandlerFunc(http.MethodPost, "/v1/auth/login", app.rateLimit(app.loginUserHandler))
	router.HandlerFunc(http.MethodGet, "/v1/auth/me", app.getCurrentUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/logout", app.requireAuthUser(app.logoutUserHandler))

	// public blog
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.publishedListHandler(app.postService, "posts"))
	router.HandlerFunc(http.MethodGet, "/v1/posts/:slug", app.publishedBySlugHandler(app.postService, "post"))
	router.HandlerFunc(http.MethodGet, "/v1/pages", app.publishedListHandler(app.pageService, "pages"))
	router.HandlerFunc(http.MethodGet, "/v1/pages/:slug", app.publishedBySlugHandler(app.pageService, "page"))
	router.HandlerFunc(http.MethodGet, "/v1/comments/post/:id", app.getPostCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/comments", app.rateLimit(app.createCommentHandler))
	router.HandlerFunc(http.MethodGet, "/v1/search", app.searchHandler)

	// admin content
	for _, h := range []*contentHandlers{app.newContentHandlers(app.postService), app.newContentHandlers(app.pageService)} {
		base := "/v1/admin/" + h.list
		router.HandlerFunc(http.MethodGet, base, app.requireAdmin(h.getAll))
		router.HandlerFunc(http.MethodPost, base, app.requireAdmin(h.create))
		router.HandlerFunc(http.MethodGet, base+"/:id", app.requireAdmin(h.getByID))
		router.HandlerFunc(http.MethodPut, base+"/:id", app.requireAdmin(h.update))
		router.HandlerFunc(http.MethodDelete, base+"/:id", app.requireAdmin(h.delete))
		router.HandlerFunc(http.MethodPut, base+"/:id/publish", app.requireAdmin(h.publish))
		router.HandlerFunc(http.MethodPut, base+"/:id/unpublish", app.requireAdmin(h.unpublish))
	}

	// admin comments
	router.HandlerFunc(http.MethodGet, "/v1/admin/comments", app.requireAdmin(app.getAllCommentsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/comments/pending", app.requireAdmin(app.getPendingCommentsHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/comments/:id", app.requireAdmin(app.updateCommentStatusHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/comments/:id", app.requireAdmin(app.deleteCommentHandler))

	return app.recoverPanic(app.logRequest(app.enableCORS(app.authenticate(router))))
}
