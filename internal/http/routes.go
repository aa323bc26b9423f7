package httpx

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/target/jobboard"
	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/observability/statsd"
	"github.com/target/jobboard/internal/ports"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth         AuthServiceInterface
	Jobs         JobsService
	Applications ApplicationsService
	Flashes      ports.FlashStore
	Store        Pinger
	Firebase     FirebaseWebConfig
	CookieDomain string
	IsDev        bool         // serve templates and static files from disk
	Metrics      statsd.Sink  // optional
	Logger       *slog.Logger // optional
}

// NewRouter creates the browser router and wraps it with the middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services.IsDev, logger),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	flashes := &FlashQueue{Store: services.Flashes, CookieDomain: services.CookieDomain, Logger: logger}
	ui := &UIHandlers{
		T:            tr,
		Jobs:         services.Jobs,
		Applications: services.Applications,
		Flash:        flashes,
		Firebase:     services.Firebase,
		IsDev:        services.IsDev,
		Metrics:      services.Metrics,
		Logger:       logger,
	}
	auth := &AuthHandlers{
		Svc:          services.Auth,
		Flash:        flashes,
		CookieDomain: services.CookieDomain,
		Metrics:      services.Metrics,
		Logger:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", ui.Index)
	health := healthHandler(services.Store, logger)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	mux.Handle("GET /static/", staticWithFallback(services.IsDev, logger))

	registerAuthRoutes(mux, auth, ui)
	registerManagerRoutes(mux, ui, RequireRole(flashes, domainauth.RoleManager))
	registerWorkerRoutes(mux, ui, RequireRole(flashes, domainauth.RoleWorker))

	var handler http.Handler = &notFoundHandler{mux: mux, uiHandlers: ui}
	handler = LoadSession(services.Auth)(handler)
	handler = flashes.Middleware()(handler)
	handler = CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain, Logger: logger})(handler)
	handler = Logging(logger)(handler)
	handler = Metrics(services.Metrics)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

func registerAuthRoutes(mux *http.ServeMux, auth *AuthHandlers, ui *UIHandlers) {
	for _, role := range []domainauth.Role{domainauth.RoleManager, domainauth.RoleWorker} {
		base := "/" + string(role)
		mux.Handle("GET "+base+"/login-register", ui.LoginRegister(role))
		mux.Handle("POST "+base+"/register", auth.Register(role))
		mux.Handle("POST "+base+"/login", auth.Login(role))
	}
	mux.HandleFunc("GET /logout", auth.Logout)
	mux.HandleFunc("POST /logout", auth.Logout)
}

func registerManagerRoutes(mux *http.ServeMux, ui *UIHandlers, gate func(http.Handler) http.Handler) {
	routes := map[string]http.HandlerFunc{
		"GET /manager/dashboard":                       ui.ManagerDashboard,
		"GET /manager/post-job":                        ui.PostJobForm,
		"POST /manager/post-job":                       ui.PostJob,
		"GET /manager/edit-job/{id}":                   ui.EditJob,
		"POST /manager/update-job/{id}":                ui.UpdateJob,
		"POST /manager/delete-job/{id}":                ui.DeleteJob,
		"GET /manager/job/{id}/applicants":             ui.Applicants,
		"POST /manager/update-application-status/{id}": ui.UpdateApplicationStatus,
	}
	for pattern, h := range routes {
		mux.Handle(pattern, gate(h))
	}
}

func registerWorkerRoutes(mux *http.ServeMux, ui *UIHandlers, gate func(http.Handler) http.Handler) {
	mux.Handle("GET /worker/dashboard", gate(http.HandlerFunc(ui.WorkerDashboard)))
	mux.Handle("GET /worker/jobs", gate(http.HandlerFunc(ui.WorkerJobs)))
	mux.Handle("POST /worker/apply-job/{id}", gate(http.HandlerFunc(ui.ApplyJob)))
	mux.Handle("GET /worker/my-applications", gate(http.HandlerFunc(ui.MyApplications)))
}

// templateFS picks templates from disk in dev mode for hot reloading and from
// the embedded filesystem otherwise.
func templateFS(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(jobboard.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		logger.Warn("embedded templates unavailable, falling back to disk", slog.Any("error", err))
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticWithFallback serves /static/* from disk in dev mode and from the
// embedded filesystem otherwise.
func staticWithFallback(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	sub, err := fs.Sub(jobboard.StaticFS, "frontend/static")
	if err != nil {
		logger.Warn("embedded static assets unavailable, falling back to disk", slog.Any("error", err))
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}

// hashedFilePattern matches content-hashed asset names such as app.abc12345.js.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches hashed assets for a year and disables caching
// for everything else.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and renders the HTML 404 page for
// unmatched routes.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)

	if cw.status == http.StatusNotFound && !strings.HasPrefix(r.URL.Path, "/static/") {
		h.uiHandlers.NotFound(w, r)
		return
	}
	cw.flushTo(w, h.uiHandlers.logger())
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter, logger *slog.Logger) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		logger.Debug("failed to write captured response", slog.Any("error", err))
	}
}
