package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		body     string
		contains []string
		excludes []string
	}{
		{
			name:     "heading and emphasis",
			body:     "# Title\n\nsome *text*",
			contains: []string{"<h1>Title</h1>", "<em>text</em>"},
		},
		{
			name:     "script is stripped",
			body:     "hello <script>alert(1)</script>",
			contains: []string{"hello"},
			excludes: []string{"<script", "alert(1)"},
		},
		{
			name:     "javascript links are stripped",
			body:     `<a href="javascript:alert(1)">click</a>`,
			excludes: []string{"javascript:"},
		},
		{
			name:     "event handlers are stripped",
			body:     `<img src="/a.png" onerror="alert(1)">`,
			excludes: []string{"onerror"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(r.Render(tt.body))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderer_RenderBlank(t *testing.T) {
	assert.Empty(t, NewRenderer().Render("  \n"))
}
