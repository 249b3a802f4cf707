package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/core"
	"github.com/siahsang/conduit/internal/validator"
	"github.com/siahsang/conduit/models"
)

const forbiddenCommentDelete = "You've not the permission to delete this comment."

func (app *application) createComment(w http.ResponseWriter, r *http.Request) {
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

	in := core.CommentInput{Body: values.Get("body")}
	v := validator.New()
	in.Validate(v)
	if !v.IsValid() {
		data, err := app.articleDetailData(r, article)
		if err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
		data.Form = &form{Values: values, Errors: v.Errors}
		app.render(w, r, http.StatusUnprocessableEntity, "article_detail.tmpl", data)
		return
	}

	comment, err := app.core.CreateComment(r.Context(), article, app.auth.CurrentProfile(r), in)
	if err != nil {
		app.coreErrorResponse(w, r, err, "")
		return
	}

	http.Redirect(w, r, fmt.Sprintf("%s#comment-%d", article.AbsoluteURL(), comment.ID), http.StatusSeeOther)
}

// ownedComment resolves the article and the comment on it, and checks that
// the current profile wrote the comment.
func (app *application) ownedComment(w http.ResponseWriter, r *http.Request) (*models.Article, *models.Comment, bool) {
	article, err := app.articleFromRequest(r)
	if err != nil {
		app.coreErrorResponse(w, r, err, forbiddenCommentDelete)
		return nil, nil, false
	}

	id, err := strconv.ParseInt(httprouter.ParamsFromContext(r.Context()).ByName("id"), 10, 64)
	if err != nil || id < 1 {
		app.coreErrorResponse(w, r, xerrors.New(core.NoRecordFound), forbiddenCommentDelete)
		return nil, nil, false
	}

	comment, err := app.core.GetComment(r.Context(), article, id)
	if err == nil {
		err = core.Authorize(app.auth.CurrentProfile(r), comment)
	}
	if err != nil {
		app.coreErrorResponse(w, r, err, forbiddenCommentDelete)
		return nil, nil, false
	}
	return article, comment, true
}

// deleteCommentConfirm shows the article page. Deletion itself needs a POST.
func (app *application) deleteCommentConfirm(w http.ResponseWriter, r *http.Request) {
	article, _, ok := app.ownedComment(w, r)
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

func (app *application) deleteComment(w http.ResponseWriter, r *http.Request) {
	article, comment, ok := app.ownedComment(w, r)
	if !ok {
		return
	}

	if err := app.core.DeleteComment(r.Context(), comment, app.auth.CurrentProfile(r)); err != nil {
		app.coreErrorResponse(w, r, err, forbiddenCommentDelete)
		return
	}

	http.Redirect(w, r, article.AbsoluteURL()+"#comments", http.StatusSeeOther)
}
