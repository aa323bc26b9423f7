package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	corefuncs "github.com/target/jobboard/internal/http/templates/core"
)

// Template set entry points.
const (
	layoutTemplate      = "layout"
	errorLayoutTemplate = "error-layout"
)

// templateGlobs lists every file parsed into the template set.
var templateGlobs = []string{"*.tmpl", "pages/*.tmpl", "partials/*.tmpl"}

// TemplateRenderer executes the parsed template set. Output is buffered so a
// failing template never leaves a half-written page behind.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
	bufs   sync.Pool
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // required
	Logger     *slog.Logger // optional
}

// NewTemplateRenderer parses the layout, pages and partials in cfg.TemplateFS.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("template renderer: TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// renderSection reads the finished set through this pointer.
	var set *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{Template: &set, ContentTemplateFor: ContentTemplateFor})
	set, err := template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS, templateGlobs...)
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err))
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &TemplateRenderer{
		t:      set,
		logger: logger,
		bufs:   sync.Pool{New: func() any { return new(bytes.Buffer) }},
	}, nil
}

// RenderFull renders a page inside the main layout.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.execute(w, layoutTemplate, data)
}

// RenderError renders the standalone error layout. The caller sets the status.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.execute(w, errorLayoutTemplate, data)
}

func (r *TemplateRenderer) execute(w http.ResponseWriter, name string, data any) error {
	buf, _ := r.bufs.Get().(*bytes.Buffer)
	buf.Reset()
	defer r.bufs.Put(buf)

	if err := r.t.ExecuteTemplate(buf, name, data); err != nil {
		r.logger.Error("template execution failed", slog.String("template", name), slog.Any("error", err))
		return err
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Debug("write rendered template", slog.String("template", name), slog.Any("error", err))
		return err
	}
	return nil
}
