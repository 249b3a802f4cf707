package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/internal/validator"
)

// startSession issues a session cookie for user.
func (app *application) startSession(w http.ResponseWriter, user *auth.User) error {
	token, claim, err := app.auth.GenerateToken(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, app.auth.SessionCookie(token, claim))
	return nil
}

func (app *application) loginForm(w http.ResponseWriter, r *http.Request) {
	next := safeRedirect(r.URL.Query().Get("next"), "/")
	if app.auth.IsUserAuthenticated(r) {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	data := app.newTemplateData(r)
	data.Form = newForm(url.Values{"next": {next}})
	app.render(w, r, http.StatusOK, "login.tmpl", data)
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	values, err := app.readForm(w, r)
	if err != nil {
		app.errorResponse(w, r, http.StatusBadRequest, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}

	in := core.LoginInput{
		Email:    values.Get("email"),
		Password: values.Get("password"),
	}
	values.Del("password")

	v := validator.New()
	in.Validate(v)
	if v.IsValid() {
		user, err := app.core.Login(r.Context(), in)
		switch {
		case err == nil:
			if err := app.startSession(w, user); err != nil {
				app.internalErrorResponse(w, r, err)
				return
			}
			app.logger.Info("User logged in", "user_id", user.ID)
			http.Redirect(w, r, safeRedirect(values.Get("next"), "/"), http.StatusSeeOther)
			return
		case errors.Is(err, core.ErrInvalidCredentials):
			v.AddError("email or password", "is invalid")
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	data := app.newTemplateData(r)
	data.Form = &form{Values: values, Errors: v.Errors}
	app.render(w, r, http.StatusUnprocessableEntity, "login.tmpl", data)
}

func (app *application) signupForm(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "signup.tmpl", app.newTemplateData(r))
}

func (app *application) signup(w http.ResponseWriter, r *http.Request) {
	values, err := app.readForm(w, r)
	if err != nil {
		app.errorResponse(w, r, http.StatusBadRequest, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}

	in := core.SignupInput{
		Username: values.Get("username"),
		Email:    values.Get("email"),
		Password: values.Get("password"),
	}
	values.Del("password")

	v := validator.New()
	in.Validate(v)
	if v.IsValid() {
		user, err := app.core.CreateUser(r.Context(), in)
		if err == nil {
			if err := app.startSession(w, user); err != nil {
				app.internalErrorResponse(w, r, err)
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if !duplicateFieldErrors(err, v) {
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	data := app.newTemplateData(r)
	data.Form = &form{Values: values, Errors: v.Errors}
	app.render(w, r, http.StatusUnprocessableEntity, "signup.tmpl", data)
}

// logout revokes the session token so a copied cookie stops working too.
func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if claim, ok := app.auth.GetSessionClaim(r); ok {
		if err := app.auth.Revoke(r.Context(), claim); err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	http.SetCookie(w, app.auth.ClearedSessionCookie())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
