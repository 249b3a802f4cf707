// Package markdown renders user supplied article bodies to safe HTML.
package markdown

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

type Renderer struct {
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{policy: bluemonday.UGCPolicy()}
}

// Render converts body to HTML with scripts, event handlers and unsafe URLs stripped.
func (r *Renderer) Render(body string) template.HTML {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	unsafe := blackfriday.Run([]byte(body), blackfriday.WithExtensions(blackfriday.CommonExtensions))
	return template.HTML(r.policy.SanitizeBytes(unsafe))
}
