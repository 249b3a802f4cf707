package main

import (
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/siahsang/conduit/internal/auth"
	"github.com/siahsang/conduit/internal/utils/collectionutils"
	"github.com/siahsang/conduit/models"
	"github.com/siahsang/conduit/ui"
)

// form carries submitted values and field errors back into a re-rendered page.
type form struct {
	Values url.Values
	Errors map[string]string
}

func newForm(values url.Values) *form {
	if values == nil {
		values = url.Values{}
	}
	return &form{Values: values}
}

func (f *form) Get(key string) string {
	if f == nil {
		return ""
	}
	return f.Values.Get(key)
}

type templateData struct {
	CurrentYear     int
	CurrentUser     *auth.User
	IsAuthenticated bool
	Next            string

	Form *form

	Article     *models.Article
	Comments    []*models.Comment
	Favorited   bool
	IsFollowing bool

	Articles      []*models.Article
	GlobalFeed    []*models.Article
	FollowsFeed   []*models.Article
	FavoritedByMe map[int64]bool
	Profile       *models.Profile
	ShowFavorites bool

	Status  int
	Message string
}

type previewData struct {
	Article         *models.Article
	Favorited       bool
	IsAuthenticated bool
	Next            string
}

type feedData struct {
	Data     *templateData
	Articles []*models.Article
}

func (app *application) newTemplateData(r *http.Request) *templateData {
	user, _ := app.auth.GetAuthenticatedUser(r)
	return &templateData{
		CurrentYear:     time.Now().Year(),
		CurrentUser:     user,
		IsAuthenticated: user != nil,
		Next:            r.URL.Path,
		Form:            newForm(nil),
		FavoritedByMe:   map[int64]bool{},
	}
}

func humanDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("January 2, 2006")
}

func (app *application) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"humanDate":  humanDate,
		"markdown":   app.markdown.Render,
		"statusText": http.StatusText,
		"feed": func(data *templateData, articles []*models.Article) feedData {
			return feedData{Data: data, Articles: articles}
		},
		"preview": func(data *templateData, article *models.Article) previewData {
			return previewData{
				Article:         article,
				Favorited:       collectionutils.GetOrDefault(data.FavoritedByMe, article.ID, false),
				IsAuthenticated: data.IsAuthenticated,
				Next:            data.Next,
			}
		},
	}
}

// newTemplateCache parses every page together with the base layout and partials.
func (app *application) newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(ui.Files, "html/pages/*.tmpl")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		patterns := []string{
			"html/base.tmpl",
			"html/partials/*.tmpl",
			page,
		}

		ts, err := template.New(name).Funcs(app.templateFuncs()).ParseFS(ui.Files, patterns...)
		if err != nil {
			return nil, err
		}
		cache[name] = ts
	}

	return cache, nil
}
