package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/internal/utils/functional"
	"github.com/siahsang/conduit/internal/validator"
)

// duplicateFieldErrors turns a unique violation on the account into a field error.
func duplicateFieldErrors(err error, v *validator.Validator) bool {
	switch {
	case errors.Is(err, core.ErrDuplicateEmail):
		v.AddError("email", "a user with this email address already exists")
	case errors.Is(err, core.ErrDuplicateUsername):
		v.AddError("username", "a user with this username already exists")
	default:
		return false
	}
	return true
}

func (app *application) profileDetail(w http.ResponseWriter, r *http.Request) {
	app.renderProfile(w, r, false)
}

func (app *application) profileFavorites(w http.ResponseWriter, r *http.Request) {
	app.renderProfile(w, r, true)
}

// renderProfile shows the profile with its own or its favorited articles.
// Articles are listed to logged in visitors only.
func (app *application) renderProfile(w http.ResponseWriter, r *http.Request, favorites bool) {
	profile, err := app.profileFromRequest(r)
	if err != nil {
		app.coreErrorResponse(w, r, err, "")
		return
	}

	data := app.newTemplateData(r)
	data.Profile = profile
	data.ShowFavorites = favorites

	if data.IsAuthenticated {
		seq := app.core.ListArticlesByAuthor(r.Context(), profile)
		if favorites {
			seq = app.core.ListFavoritedArticles(r.Context(), profile)
		}
		if data.Articles, err = functional.Collect(seq); err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
		if data.IsFollowing, err = app.core.IsFollowing(r.Context(), data.CurrentUser.Profile, profile); err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
		if err := app.markFavorited(r.Context(), data, data.Articles); err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	app.render(w, r, http.StatusOK, "profile_detail.tmpl", data)
}

func (app *application) toggleFollow(w http.ResponseWriter, r *http.Request) {
	profile, err := app.profileFromRequest(r)
	if err != nil {
		app.coreErrorResponse(w, r, err, "")
		return
	}

	values, err := app.readForm(w, r)
	if err != nil {
		app.errorResponse(w, r, http.StatusBadRequest, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}

	if _, err := app.core.ToggleFollow(r.Context(), app.auth.CurrentProfile(r), profile); err != nil {
		app.coreErrorResponse(w, r, err, "")
		return
	}

	http.Redirect(w, r, safeRedirect(values.Get("next"), profile.AbsoluteURL()), http.StatusSeeOther)
}

func settingsValues(user *auth.User) url.Values {
	return url.Values{
		"image":    {user.Profile.Image},
		"bio":      {user.Profile.Bio},
		"username": {user.Username},
		"email":    {user.Email},
	}
}

func (app *application) settingsForm(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	data := app.newTemplateData(r)
	data.Form = newForm(settingsValues(user))
	app.render(w, r, http.StatusOK, "settings.tmpl", data)
}

func (app *application) updateSettings(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	values, err := app.readForm(w, r)
	if err != nil {
		app.errorResponse(w, r, http.StatusBadRequest, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}

	in := core.SettingsInput{
		Image:    values.Get("image"),
		Bio:      values.Get("bio"),
		Username: values.Get("username"),
		Email:    values.Get("email"),
		Password: values.Get("password"),
	}
	values.Del("password")

	v := validator.New()
	in.Validate(v)
	if v.IsValid() {
		_, err = app.core.UpdateSettings(r.Context(), user, in)
		if err == nil {
			http.Redirect(w, r, "/settings", http.StatusSeeOther)
			return
		}
		if !duplicateFieldErrors(err, v) {
			app.coreErrorResponse(w, r, err, "")
			return
		}
	}

	data := app.newTemplateData(r)
	data.Form = &form{Values: values, Errors: v.Errors}
	app.render(w, r, http.StatusUnprocessableEntity, "settings.tmpl", data)
}
