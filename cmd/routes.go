package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/conduit/ui"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	handle := func(method, path string, handler http.HandlerFunc) {
		router.Handler(method, path, app.instrument(path, handler))
	}

	router.Handler(http.MethodGet, "/static/*filepath", http.FileServerFS(ui.Files))
	router.Handler(http.MethodGet, "/metrics", app.metrics.Handler())
	handle(http.MethodGet, "/healthz", app.healthcheckHandler)

	// Not require authentication for these routes
	handle(http.MethodGet, "/", app.home)
	handle(http.MethodGet, "/article/:key", app.articleDetail)
	handle(http.MethodGet, "/profile/:username", app.profileDetail)
	handle(http.MethodGet, "/profile/:username/favorites", app.profileFavorites)
	handle(http.MethodGet, "/login", app.loginForm)
	handle(http.MethodPost, "/login", app.login)
	handle(http.MethodGet, "/signup", app.signupForm)
	handle(http.MethodPost, "/signup", app.signup)
	handle(http.MethodPost, "/logout", app.logout)

	// Require authentication for these routes
	handle(http.MethodGet, "/editor/", app.requireAuthenticatedUser(app.createArticleForm))
	handle(http.MethodPost, "/editor/", app.requireAuthenticatedUser(app.createArticle))
	handle(http.MethodGet, "/editor/:key", app.requireAuthenticatedUser(app.updateArticleForm))
	handle(http.MethodPost, "/editor/:key", app.requireAuthenticatedUser(app.updateArticle))
	handle(http.MethodGet, "/editor/:key/delete", app.requireAuthenticatedUser(app.deleteArticleConfirm))
	handle(http.MethodPost, "/editor/:key/delete", app.requireAuthenticatedUser(app.deleteArticle))
	handle(http.MethodPost, "/article/:key/comments", app.requireAuthenticatedUser(app.createComment))
	handle(http.MethodGet, "/article/:key/comments/:id/delete", app.requireAuthenticatedUser(app.deleteCommentConfirm))
	handle(http.MethodPost, "/article/:key/comments/:id/delete", app.requireAuthenticatedUser(app.deleteComment))
	handle(http.MethodPost, "/article/:key/favorite", app.requireAuthenticatedUser(app.toggleFavorite))
	handle(http.MethodPost, "/profile/:username/follow", app.requireAuthenticatedUser(app.toggleFollow))
	handle(http.MethodGet, "/settings", app.requireAuthenticatedUser(app.settingsForm))
	handle(http.MethodPost, "/settings", app.requireAuthenticatedUser(app.updateSettings))

	return app.recoverPanic(app.logRequest(app.authenticate(router)))
}
