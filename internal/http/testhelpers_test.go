package httpx

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/target/jobboard/internal/data/sqlstore"
	domainauth "github.com/target/jobboard/internal/domain/auth"
	authmocks "github.com/target/jobboard/internal/mocks/auth"
	"github.com/target/jobboard/internal/ports"
	"github.com/target/jobboard/internal/service"
)

// testApp runs the full router against a temporary SQLite database, the fake
// identity provider and in-memory session and flash stores.
type testApp struct {
	t        *testing.T
	srv      *httptest.Server
	store    *sqlstore.Store
	idp      *authmocks.FakeIdentityProvider
	sessions *authmocks.MemorySessionStore
	metrics  *recordingSink
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	idp := authmocks.NewFakeIdentityProvider()
	app := newTestAppWith(t, idp, authmocks.StaticRoleMapper{})
	app.idp = idp
	return app
}

// newTestAppWith runs the router against the given identity provider and
// role mapper.
func newTestAppWith(t *testing.T, idp ports.IdentityProvider, roles ports.RoleMapper) *testApp {
	t.Helper()

	store, err := sqlstore.Open(filepath.Join(t.TempDir(), "jobboard.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sessions := authmocks.NewMemorySessionStore()
	metrics := &recordingSink{}

	handler, err := NewRouter(RouterServices{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Provider: idp,
			Sessions: sessions,
			Policy:   service.AuthPolicy{Roles: roles},
		}),
		Jobs: service.NewJobService(service.JobServiceOptions{
			Jobs:         store.Jobs(),
			Applications: store.Applications(),
		}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Jobs:         store.Jobs(),
			Applications: store.Applications(),
			Identity:     idp,
		}),
		Flashes: authmocks.NewMemoryFlashStore(),
		Store:   store,
		Metrics: metrics,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testApp{t: t, srv: srv, store: store, sessions: sessions, metrics: metrics}
}

// browser is one user agent with its own cookie jar.
type browser struct {
	app    *testApp
	client *http.Client // follows redirects
	raw    *http.Client // stops at the first response
}

func (a *testApp) newBrowser() *browser {
	a.t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &browser{
		app:    a,
		client: &http.Client{Jar: jar, Timeout: 5 * time.Second},
		raw: &http.Client{
			Jar:     jar,
			Timeout: 5 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// page is a fetched response with its parsed document.
type page struct {
	Status int
	URL    string
	Header http.Header
	Doc    *goquery.Document
}

// Flashes returns the text of every flash shown on the page.
func (p *page) Flashes() []string {
	var out []string
	p.Doc.Find(".flashes .alert").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func (b *browser) do(c *http.Client, req *http.Request) *page {
	b.app.t.Helper()
	res, err := c.Do(req)
	require.NoError(b.app.t, err)
	defer res.Body.Close()
	doc, err := goquery.NewDocumentFromReader(res.Body)
	require.NoError(b.app.t, err)
	return &page{Status: res.StatusCode, URL: res.Request.URL.Path, Header: res.Header, Doc: doc}
}

func (b *browser) newRequest(method, path string, form url.Values) *http.Request {
	b.app.t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(context.Background(), method, b.app.srv.URL+path, body)
	require.NoError(b.app.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req
}

// Get fetches path, following redirects.
func (b *browser) Get(path string) *page {
	b.app.t.Helper()
	return b.do(b.client, b.newRequest(http.MethodGet, path, nil))
}

// GetRaw fetches path without following redirects.
func (b *browser) GetRaw(path string) *page {
	b.app.t.Helper()
	return b.do(b.raw, b.newRequest(http.MethodGet, path, nil))
}

// Post submits form to path with the browser's CSRF token and follows the
// redirect the way a browser does.
func (b *browser) Post(path string, form url.Values) *page {
	b.app.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFFieldName, b.csrfToken())
	return b.do(b.client, b.newRequest(http.MethodPost, path, form))
}

// PostRaw submits form without following the redirect.
func (b *browser) PostRaw(path string, form url.Values) *page {
	b.app.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFFieldName, b.csrfToken())
	return b.do(b.raw, b.newRequest(http.MethodPost, path, form))
}

// csrfToken returns the CSRF cookie, visiting the home page first if the
// browser has none yet.
func (b *browser) csrfToken() string {
	b.app.t.Helper()
	u, err := url.Parse(b.app.srv.URL)
	require.NoError(b.app.t, err)
	for attempt := 0; attempt < 2; attempt++ {
		for _, c := range b.client.Jar.Cookies(u) {
			if c.Name == DefaultCSRFCookieName {
				return c.Value
			}
		}
		b.GetRaw("/")
	}
	b.app.t.Fatal("no CSRF cookie issued")
	return ""
}

// signUp registers an account for role through the form and signs in.
func (b *browser) signUp(role domainauth.Role, name, email string) *page {
	b.app.t.Helper()
	base := "/" + string(role)
	b.Post(base+"/register", url.Values{
		"username": {name},
		"email":    {email},
		"password": {"secret123"},
	})
	p := b.Post(base+"/login", url.Values{"email": {email}, "password": {"secret123"}})
	require.Equal(b.app.t, role.DashboardPath(), p.URL, "login should land on the dashboard; flashes: %v", p.Flashes())
	return p
}

// postJob submits the job form and returns the new job's id from the dashboard.
func (b *browser) postJob(title, location string) string {
	b.app.t.Helper()
	p := b.Post("/manager/post-job", url.Values{
		"title":       {title},
		"location":    {location},
		"description": {"Description for " + title},
		"salary":      {"$20/hr"},
	})
	require.Equal(b.app.t, "/manager/dashboard", p.URL)
	var id string
	p.Doc.Find("tr.job-row").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Find(".job-title").Text()) == title {
			id, _ = s.Attr("data-job-id")
		}
	})
	require.NotEmpty(b.app.t, id, "posted job %q not on dashboard", title)
	return id
}
