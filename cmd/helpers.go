package main

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/models"
)

const maxFormBytes = 1_048_576 // 1 MB

func (app *application) readForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return nil, xerrors.Newf("body could not be parsed as a form: %w", err)
	}
	return r.PostForm, nil
}

// parseArticleKey splits "<slug>-<uuid>". The uuid is the trailing 36 characters.
func parseArticleKey(key string) (string, uuid.UUID, bool) {
	const uuidLen = 36
	if len(key) < uuidLen+1 || key[len(key)-uuidLen-1] != '-' {
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(key[len(key)-uuidLen:])
	if err != nil {
		return "", uuid.Nil, false
	}
	return key[:len(key)-uuidLen-1], id, true
}

// parseUsername strips the leading "@" of a profile route.
func parseUsername(param string) (string, bool) {
	username, ok := strings.CutPrefix(param, "@")
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

// safeRedirect returns next when it is a local absolute path and fallback otherwise.
func safeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}

// articleFromRequest resolves the :key route parameter.
func (app *application) articleFromRequest(r *http.Request) (*models.Article, error) {
	params := httprouter.ParamsFromContext(r.Context())
	slug, id, ok := parseArticleKey(params.ByName("key"))
	if !ok {
		return nil, xerrors.New(core.NoRecordFound)
	}
	return app.core.ResolveArticle(r.Context(), slug, id)
}

// profileFromRequest resolves the :username route parameter.
func (app *application) profileFromRequest(r *http.Request) (*models.Profile, error) {
	params := httprouter.ParamsFromContext(r.Context())
	username, ok := parseUsername(params.ByName("username"))
	if !ok {
		return nil, xerrors.New(core.NoRecordFound)
	}
	return app.core.GetProfile(r.Context(), username)
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data *templateData) {
	ts, ok := app.templateCache[page]
	if !ok {
		app.internalErrorResponse(w, r, xerrors.Newf("the template %s does not exist", page))
		return
	}

	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, "base", data); err != nil {
		app.internalErrorResponse(w, r, xerrors.New(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		app.logger.Error(err.Error())
	}
}
