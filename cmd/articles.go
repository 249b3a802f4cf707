package main

import (
	"context"
	"net/http"
	"net/url"

	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/internal/utils/functional"
	"github.com/siahsang/conduit/internal/validator"
	"github.com/siahsang/conduit/models"
)

const (
	forbiddenArticleUpdate = "You've not the permission to modify this article."
	forbiddenArticleDelete = "You've not the permission to delete this article."
)

// markFavorited fills data.FavoritedByMe for every article in lists.
func (app *application) markFavorited(ctx context.Context, data *templateData, lists ...[]*models.Article) error {
	if !data.IsAuthenticated {
		return nil
	}
	var ids []int64
	for _, list := range lists {
		ids = append(ids, functional.Map(list, func(a *models.Article) int64 { return a.ID })...)
	}
	favorited, err := app.core.FavoritedArticleIDs(ctx, data.CurrentUser.Profile, ids)
	if err != nil {
		return err
	}
	data.FavoritedByMe = favorited
	return nil
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := app.newTemplateData(r)

	globalFeed, err := functional.Collect(app.core.ListFeed(r.Context()))
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	data.GlobalFeed = globalFeed

	if data.IsAuthenticated {
		followsFeed, err := functional.Collect(app.core.ListFollowedFeed(r.Context(), data.CurrentUser.Profile))
		if err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
		data.FollowsFeed = followsFeed
	}

	if err := app.markFavorited(r.Context(), data, data.GlobalFeed, data.FollowsFeed); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "home.tmpl", data)
}

// articleDetailData loads everything the article page shows.
func (app *application) articleDetailData(r *http.Request, article *models.Article) (*templateData, error) {
	data := app.newTemplateData(r)
	data.Article = article

	comments, err := app.core.ListComments(r.Context(), article)
	if err != nil {
		return nil, err
	}
	data.Comments = comments

	viewer := app.auth.CurrentProfile(r)
	if data.IsFollowing, err = app.core.IsFollowing(r.Context(), viewer, article.Author); err != nil {
		return nil, err
	}
	if data.Favorited, err = app.core.HasFavorited(r.Context(), viewer, article); err != nil {
		return nil, err
	}
	return data, nil
}

func (app *application) articleDetail(w http.ResponseWriter, r *http.Request) {
	article, err := app.articleFromRequest(r)
	if err != nil {
		app.coreErrorResponse(w, r, err, "")
		return
	}

	data, err := app.articleDetailData(r, article)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "article_detail.tmpl", data)
}

func articleInput(values url.Values) core.ArticleInput {
	return core.ArticleInput{
		Title:       values.Get("title"),
		Description: values.Get("description"),
		Body:        values.Get("body"),
	}
}

func (app *application) createArticleForm(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "editor.tmpl", app.newTemplateData(r))
}

func (app *application) createArticle(w http.ResponseWriter, r *http.Request) {
	values, err := app.readForm(w, r)
	if err != nil {
		app.errorResponse(w, r, http.StatusBadRequest, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}

	in := articleInput(values)
	v := validator.New()
	in.Validate(v)
	if !v.IsValid() {
		data := app.newTemplateData(r)
		data.Form = &form{Values: values, Errors: v.Errors}
		app.render(w, r, http.StatusUnprocessableEntity, "editor.tmpl", data)
		return
	}

	article, err := app.core.CreateArticle(r.Context(), app.auth.CurrentProfile(r), in)
	if err != nil {
		app.coreErrorResponse(w, r, err, "")
		return
	}

	http.Redirect(w, r, article.AbsoluteURL(), http.StatusSeeOther)
}

// ownedArticle resolves the article and checks that the current profile wrote it.
func (app *application) ownedArticle(w http.ResponseWriter, r *http.Request, forbidden string) (*models.Article, bool) {
	article, err := app.articleFromRequest(r)
	if err == nil {
		err = core.Authorize(app.auth.CurrentProfile(r), article)
	}
	if err != nil {
		app.coreErrorResponse(w, r, err, forbidden)
		return nil, false
	}
	return article, true
}

func (app *application) updateArticleForm(w http.ResponseWriter, r *http.Request) {
	article, ok := app.ownedArticle(w, r, forbiddenArticleUpdate)
	if !ok {
		return
	}

	data := app.newTemplateData(r)
	data.Article = article
	data.Form = newForm(url.Values{
		"title":       {article.Title},
		"description": {article.Description},
		"body":        {article.Body},
	})
	app.render(w, r, http.StatusOK, "editor.tmpl", data)
}

func (app *application) updateArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := app.ownedArticle(w, r, forbiddenArticleUpdate)
	if !ok {
		return
	}

	values, err := app.readForm(w, r)
	if err != nil {
		app.errorResponse(w, r, http.StatusBadRequest, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}

	in := articleInput(values)
	v := validator.New()
	in.Validate(v)
	if !v.IsValid() {
		data := app.newTemplateData(r)
		data.Article = article
		data.Form = &form{Values: values, Errors: v.Errors}
		app.render(w, r, http.StatusUnprocessableEntity, "editor.tmpl", data)
		return
	}

	updated, err := app.core.UpdateArticle(r.Context(), article, app.auth.CurrentProfile(r), in)
	if err != nil {
		app.coreErrorResponse(w, r, err, forbiddenArticleUpdate)
		return
	}

	http.Redirect(w, r, updated.AbsoluteURL(), http.StatusSeeOther)
}

// deleteArticleConfirm shows the article page. Deletion itself needs a POST.
func (app *application) deleteArticleConfirm(w http.ResponseWriter, r *http.Request) {
	article, ok := app.ownedArticle(w, r, forbiddenArticleDelete)
	if !ok {
		return
	}

	data, err := app.articleDetailData(r, article)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "article_detail.tmpl", data)
}

func (app *application) deleteArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := app.ownedArticle(w, r, forbiddenArticleDelete)
	if !ok {
		return
	}

	if err := app.core.DeleteArticle(r.Context(), article, app.auth.CurrentProfile(r)); err != nil {
		app.coreErrorResponse(w, r, err, forbiddenArticleDelete)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	article, err := app.articleFromRequest(r)
	if err != nil {
		app.coreErrorResponse(w, r, err, "")
		return
	}

	values, err := app.readForm(w, r)
	if err != nil {
		app.errorResponse(w, r, http.StatusBadRequest, &AppError{ErrorMessage: err.Error(), ErrorStack: err})
		return
	}

	if _, err := app.core.ToggleFavorite(r.Context(), app.auth.CurrentProfile(r), article); err != nil {
		app.coreErrorResponse(w, r, err, "")
		return
	}

	http.Redirect(w, r, safeRedirect(values.Get("next"), article.AbsoluteURL()), http.StatusSeeOther)
}
