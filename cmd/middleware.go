package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/core"
)

// authenticate attaches the user of a valid session cookie to the request.
// An invalid, expired or revoked cookie is cleared and the request continues
// anonymously.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Cookie")

		cookie, err := r.Cookie(auth.SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claim, err := app.auth.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			app.logger.Debug("Discarding session cookie", "reason", err.Error())
			http.SetCookie(w, app.auth.ClearedSessionCookie())
			next.ServeHTTP(w, r)
			return
		}

		userID, err := claim.UserID()
		if err != nil {
			http.SetCookie(w, app.auth.ClearedSessionCookie())
			next.ServeHTTP(w, r)
			return
		}

		user, err := app.core.GetUserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, core.NoRecordFound) {
				http.SetCookie(w, app.auth.ClearedSessionCookie())
				next.ServeHTTP(w, r)
				return
			}
			app.internalErrorResponse(w, r, err)
			return
		}

		r = app.auth.SetAuthenticatedUser(r, user, claim)
		next.ServeHTTP(w, r)
	})
}

func (app *application) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !app.auth.IsUserAuthenticated(r) {
			app.authenticationRequiredResponse(w, r)
			return
		}
		w.Header().Add("Cache-Control", "no-store")
		next(w, r)
	}
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, fmt.Errorf("%v", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		app.logger.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// instrument records request metrics under the route pattern.
func (app *application) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		app.metrics.Observe(r.Method, route, rec.status, time.Since(start))
	})
}
