// Package jobboard embeds the HTML templates and static assets served by the
// web process.
package jobboard

import "embed"

// In dev mode templates and static files are read from disk instead, so
// edits show up without a rebuild.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
