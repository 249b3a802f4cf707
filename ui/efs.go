// Package ui holds the server rendered templates and static assets.
package ui

import "embed"

//go:embed "html" "static"
var Files embed.FS
