package pubadmin

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubadmin/composer"
)

// testEnv runs the console against a fake content API.
type testEnv struct {
	t      *testing.T
	app    *App
	srv    *httptest.Server
	client *http.Client
	clock  *testClock

	mu    sync.Mutex
	calls []string
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

// newTestEnv starts the console. routes use ServeMux patterns such as
// "GET /blogs"; a login route accepting admin/secret is added unless one is
// given.
func newTestEnv(t *testing.T, routes map[string]http.HandlerFunc, opts ...func(*Config)) *testEnv {
	t.Helper()
	e := &testEnv{t: t, clock: &testClock{now: time.Now()}}

	mux := http.NewServeMux()
	if _, ok := routes["POST /admin/login"]; !ok {
		mux.HandleFunc("POST /admin/login", func(w http.ResponseWriter, r *http.Request) {
			var creds struct{ Username, Password string }
			_ = json.NewDecoder(r.Body).Decode(&creds)
			w.Header().Set("Content-Type", "application/json")
			if creds.Username != "admin" || creds.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"message":"invalid credentials"}`)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{
				"token":    signedToken(t, e.clock.Now().Add(time.Hour)),
				"username": "admin",
			})
		})
	}
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		e.calls = append(e.calls, r.Method+" "+r.URL.Path)
		e.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Close)

	cfg := Config{APIBaseURL: api.URL, SessionSecret: "test-secret", LogLevel: "off"}
	for _, o := range opts {
		o(&cfg)
	}
	app, err := New(cfg, WithClock(e.clock.Now))
	require.NoError(t, err)
	e.app = app
	e.srv = httptest.NewServer(app)
	t.Cleanup(func() {
		e.srv.Close()
		_ = app.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	e.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return e
}

// apiCalls returns the recorded API requests matching prefix.
func (e *testEnv) apiCalls(prefix string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, c := range e.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (e *testEnv) do(req *http.Request) (*http.Response, string) {
	e.t.Helper()
	resp, err := e.client.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, string(b)
}

func (e *testEnv) get(path string, header ...string) (*http.Response, string) {
	e.t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	require.NoError(e.t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return e.do(req)
}

// csrf returns the token of the CSRF cookie, fetching the login page first
// if no cookie is set yet.
func (e *testEnv) csrf() string {
	e.t.Helper()
	u, _ := url.Parse(e.srv.URL)
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == "_csrf" {
			return c.Value
		}
	}
	e.get("/admin/login/")
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == "_csrf" {
			return c.Value
		}
	}
	e.t.Fatal("no csrf cookie")
	return ""
}

func (e *testEnv) post(path string, form url.Values) (*http.Response, string) {
	e.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("_csrf", e.csrf())
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) postJSON(path string, body any) (*http.Response, string) {
	e.t.Helper()
	b, err := json.Marshal(body)
	require.NoError(e.t, err)
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, bytes.NewReader(b))
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", e.csrf())
	req.Header.Set("X-Requested-With", "fetch")
	return e.do(req)
}

func (e *testEnv) postMultipart(path string, fields map[string]string, fileField, fileName, contentType string, data []byte) (*http.Response, string) {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	require.NoError(e.t, mw.WriteField("_csrf", e.csrf()))
	if fileField != "" {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="` + fileField + `"; filename="` + fileName + `"`}
		h["Content-Type"] = []string{contentType}
		w, err := mw.CreatePart(h)
		require.NoError(e.t, err)
		_, err = w.Write(data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, &buf)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(req)
}

func (e *testEnv) login() {
	e.t.Helper()
	resp, _ := e.post("/admin/login/", url.Values{"username": {"admin"}, "password": {"secret"}})
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(e.t, "/admin/", resp.Header.Get("Location"))
}

func jsonReply(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

var reDraftID = regexp.MustCompile(`name="draft_id" value="([^"]+)"`)

func (e *testEnv) newDraft() string {
	e.t.Helper()
	resp, body := e.get("/admin/blogs/new/")
	require.Equal(e.t, http.StatusOK, resp.StatusCode)
	m := reDraftID.FindStringSubmatch(body)
	require.Len(e.t, m, 2, "draft id in form")
	return m[1]
}

func blogValues(draft string) url.Values {
	return url.Values{
		"draft_id":      {draft},
		"mainHeading":   {"Hello World"},
		"slug":          {"hello-world"},
		"status":        {"draft"},
		"tags":          {"go, web,"},
		"summaryPoints": {"first", " "},
		"content":       {`{"time":1,"blocks":[{"type":"paragraph","data":{"text":"Some words here"}},{"type":"image","data":{"file":{"url":"https://res.cloudinary.com/x/a.jpg"}}}],"version":"2.28"}`},
	}
}

func TestGuardRedirectsWithoutSession(t *testing.T) {
	e := newTestEnv(t, nil)

	resp, _ := e.get("/admin/blogs/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, loginPath, resp.Header.Get("Location"))

	resp, _ = e.get("/admin/", "HX-Request", "true")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, loginPath, resp.Header.Get("HX-Redirect"))

	resp, body := e.get("/admin/books/", "X-Requested-With", "fetch")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, `"success":0`)

	assert.Empty(t, e.apiCalls(""), "no API call without a session")
}

func TestLoginInvalidCredentials(t *testing.T) {
	e := newTestEnv(t, nil)

	resp, body := e.post("/admin/login/", url.Values{"username": {"admin"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "invalid credentials")
	assert.Contains(t, body, `value="admin"`)

	resp, _ = e.get("/admin/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "no session stored")
}

func TestLoginRequiresFields(t *testing.T) {
	e := newTestEnv(t, nil)
	resp, body := e.post("/admin/login/", url.Values{"username": {"admin"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Username and password are required")
	assert.Empty(t, e.apiCalls("POST /admin/login"))
}

func TestLoginRateLimited(t *testing.T) {
	e := newTestEnv(t, nil, func(c *Config) { c.LoginAttempts = 2 })
	bad := url.Values{"username": {"admin"}, "password": {"nope"}}
	for i := 0; i < 2; i++ {
		resp, _ := e.post("/admin/login/", bad)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, body := e.post("/admin/login/", url.Values{"username": {"admin"}, "password": {"secret"}})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, "Too many login attempts")
	assert.Len(t, e.apiCalls("POST /admin/login"), 2)
}

func TestLoginAndDashboard(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"GET /stats":      jsonReply(`{"blogs":7,"recommendedBooks":3,"topicSummaries":2,"examPreps":1}`),
		"GET /hero-image": jsonReply(`{"imageUrl":"https://res.cloudinary.com/hero.jpg"}`),
	})
	e.login()

	resp, body := e.get("/admin/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<span class="stat-value">7</span>`)
	assert.Contains(t, body, "https://res.cloudinary.com/hero.jpg")
	assert.Contains(t, body, "admin")

	e.get("/admin/")
	assert.Len(t, e.apiCalls("GET /stats"), 1, "stats are cached")
}

func TestDashboardShowsPartialFailure(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"GET /stats": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"db down"}`)
		},
		"GET /hero-image": jsonReply(`{"imageUrl":"https://res.cloudinary.com/hero.jpg"}`),
	})
	e.login()
	resp, body := e.get("/admin/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "db down")
	assert.Contains(t, body, "https://res.cloudinary.com/hero.jpg")
}

func TestExpiredTokenRedirects(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"GET /blogs": jsonReply(`{"blogs":[]}`),
	})
	e.login()
	resp, _ := e.get("/admin/blogs/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	e.clock.Advance(2 * time.Hour)
	resp, _ = e.get("/admin/blogs/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Len(t, e.apiCalls("GET /blogs"), 1)
}

func TestUnauthorizedResponseEndsSession(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"GET /blogs": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	})
	e.login()

	resp, _ := e.get("/admin/blogs/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, loginPath, resp.Header.Get("Location"))

	resp, body := e.get(loginPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "cookie was cleared")
	assert.Contains(t, body, "Your session has expired")
}

func TestBlogListRendersPosts(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"GET /blogs": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "all", r.URL.Query().Get("status"))
			assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
			jsonReply(`{"blogs":[{"slug":"first-post","mainHeading":"First Post","status":"published"}]}`)(w, r)
		},
	})
	e.login()
	resp, body := e.get("/admin/blogs/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "First Post")
	assert.Contains(t, body, "/admin/blogs/first-post/edit/")
}

func TestBlogCreateRequiresHeading(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login()
	form := blogValues(e.newDraft())
	form.Set("mainHeading", "")

	resp, body := e.post("/admin/blogs/", form)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Main heading is required")
	assert.Contains(t, body, `value="hello-world"`, "form values are kept")
	assert.Empty(t, e.apiCalls("POST /blogs"))
}

func TestBlogCreateRequiresContent(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login()
	form := blogValues(e.newDraft())
	form.Set("content", `{"blocks":[]}`)

	resp, body := e.post("/admin/blogs/", form)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, composer.ErrNoContent.Error())
	assert.Empty(t, e.apiCalls("POST /blogs"))
}

func TestBlogCreateWithoutSummaryPoints(t *testing.T) {
	var (
		mu   sync.Mutex
		sent []map[string]any
	)
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"POST /blogs": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			sent = append(sent, body)
			mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"slug":"hello-world"}`)
		},
		"GET /blogs": jsonReply(`{"blogs":[]}`),
	})
	e.login()

	form := blogValues(e.newDraft())
	form.Set("summaryPoints", "")
	resp, _ := e.post("/admin/blogs/", form)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	form = blogValues(e.newDraft())
	form.Del("summaryPoints")
	resp, _ = e.post("/admin/blogs/", form)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	assert.Len(t, e.apiCalls("POST /blogs"), 2)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 2)
	for _, body := range sent {
		assert.Equal(t, []any{""}, body["summaryPoints"])
	}
}

func TestBlogCreateBlockedWhileUploading(t *testing.T) {
	var (
		mu   sync.Mutex
		sent map[string]any
	)
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"POST /blogs": func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			_ = json.NewDecoder(r.Body).Decode(&sent)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"slug":"hello-world"}`)
		},
		"GET /blogs": jsonReply(`{"blogs":[]}`),
	})
	e.login()
	id := e.newDraft()
	draft, err := e.app.Drafts.Get(id)
	require.NoError(t, err)

	upload := draft.Tracker().Begin()
	resp, body := e.post("/admin/blogs/", blogValues(id))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Image uploads are still in progress")
	assert.Empty(t, e.apiCalls("POST /blogs"))

	upload.Release()
	resp, _ = e.post("/admin/blogs/", blogValues(id))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, blogsPath, resp.Header.Get("Location"))
	assert.Len(t, e.apiCalls("POST /blogs"), 1)

	_, err = e.app.Drafts.Get(id)
	assert.ErrorIs(t, err, composer.ErrUnknownDraft, "draft is released after submit")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []any{"go", "web"}, sent["tags"])
	assert.Equal(t, []any{"first"}, sent["summaryPoints"])
	assert.EqualValues(t, 1, sent["readingTime"])
	meta, _ := sent["imageMetadata"].(map[string]any)
	assert.EqualValues(t, 1, meta["totalImages"])

	_, body = e.get(blogsPath)
	assert.Contains(t, body, "Blog created successfully")
}

func TestComposerUploadByURL(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login()
	id := e.newDraft()

	var res composer.WidgetResult
	resp, body := e.postJSON("/admin/composer/"+id+"/upload-url/", map[string]string{"url": "https://example.com/a.png"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Equal(t, 1, res.Success)
	require.NotNil(t, res.File)
	assert.Equal(t, "https://example.com/a.png", res.File.URL)

	_, body = e.postJSON("/admin/composer/"+id+"/upload-url/", map[string]string{"url": "C:\\Users\\me\\a.png"})
	res = composer.WidgetResult{}
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Equal(t, 0, res.Success)
	assert.Equal(t, composer.ErrLocalFile.Error(), res.Message)

	resp, _ = e.postJSON("/admin/composer/unknown/upload-url/", map[string]string{"url": "https://example.com/a.png"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestComposerUploadFile(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"POST /blogs/upload": jsonReply(`{"url":"https://res.cloudinary.com/up/a.png"}`),
	})
	e.login()
	id := e.newDraft()

	resp, body := e.postMultipart("/admin/composer/"+id+"/upload-file/", nil, "image", "a.png", "image/png", []byte("not really a png"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res composer.WidgetResult
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	assert.Equal(t, 1, res.Success)
	require.NotNil(t, res.File)
	assert.Equal(t, "https://res.cloudinary.com/up/a.png", res.File.URL)

	draft, err := e.app.Drafts.Get(id)
	require.NoError(t, err)
	assert.False(t, draft.InProgress())
}

func TestBookMoveIsLocal(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"GET /books/all": jsonReply(`[{"_id":"a","title":"Alpha","order":1},{"_id":"b","title":"Beta","order":2}]`),
	})
	e.login()
	resp, body := e.post("/admin/books/b/move/", url.Values{"dir": {"up"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "not saved")
	assert.Less(t, strings.Index(body, "Beta"), strings.Index(body, "Alpha"))
	assert.Empty(t, e.apiCalls("PUT /books"))
}

func TestBookMovesAccumulate(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"GET /books/all": jsonReply(`[{"_id":"a","title":"Alpha","order":1},{"_id":"b","title":"Beta","order":2},{"_id":"c","title":"Gamma","order":3}]`),
	})
	e.login()

	resp, body := e.post("/admin/books/c/move/", url.Values{"dir": {"up"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, strings.Count(body, `name="arrangement" value="a"`), "every move form carries the order")
	assert.Less(t, strings.Index(body, "Gamma"), strings.Index(body, "Beta"))

	resp, body = e.post("/admin/books/a/move/", url.Values{
		"dir":         {"down"},
		"arrangement": {"a", "c", "b"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	gamma, alpha, beta := strings.Index(body, "Gamma"), strings.Index(body, "Alpha"), strings.Index(body, "Beta")
	assert.Less(t, gamma, alpha)
	assert.Less(t, alpha, beta)
	assert.Empty(t, e.apiCalls("PUT /books"))
}

func TestBookToggle(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"GET /books/all": jsonReply(`[{"_id":"a","title":"Alpha","isActive":false}]`),
		"PATCH /books/a/toggle-active": func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				IsActive bool `json:"isActive"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)
			assert.True(t, in.IsActive)
			jsonReply(`{"message":"ok","isActive":true}`)(w, r)
		},
	})
	e.login()
	resp, _ := e.post("/admin/books/a/toggle/", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Len(t, e.apiCalls("PATCH /books/a/toggle-active"), 1)
}

func TestBookCreateValidation(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"GET /books/all": jsonReply(`[]`),
	})
	e.login()
	resp, body := e.post("/admin/books/", url.Values{"title": {"Go"}, "tags": {"a, b"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Please fill all required fields.")
	assert.Contains(t, body, `value="a, b"`)
	assert.Empty(t, e.apiCalls("POST /books"))
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"DELETE /exampreps/e1": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})
	e.login()

	resp, _ := e.post("/admin/exam-prep/e1/delete/", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, e.apiCalls("DELETE"))

	resp, _ = e.post("/admin/exam-prep/e1/delete/", url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Len(t, e.apiCalls("DELETE /exampreps/e1"), 1)
}

func TestTopicSummaryRejectsWrongType(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login()
	resp, body := e.postMultipart("/admin/topic-summaries/", map[string]string{
		"title":       "Cells",
		"description": "Cell biology",
	}, "file", "cells.png", "image/png", []byte("png bytes"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Only PDF or DOCX files are allowed.")
	assert.Contains(t, body, `value="Cells"`)
	assert.Empty(t, e.apiCalls("POST /topicsummaries"))
}

func TestTopicSummaryUpload(t *testing.T) {
	e := newTestEnv(t, map[string]http.HandlerFunc{
		"POST /topicsummaries": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Cells", r.FormValue("title"))
			assert.Equal(t, "bio, cells", r.FormValue("tags"))
			w.WriteHeader(http.StatusCreated)
		},
	})
	e.login()
	resp, _ := e.postMultipart("/admin/topic-summaries/", map[string]string{
		"title":       "Cells",
		"description": "Cell biology",
		"tags":        "bio,, cells",
	}, "file", "cells.pdf", "application/octet-stream", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Len(t, e.apiCalls("POST /topicsummaries"), 1)
}

func TestAssetsAreServed(t *testing.T) {
	e := newTestEnv(t, nil)
	resp, body := e.get("/admin/assets/admin.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
	assert.NotEmpty(t, body)

	resp, _ = e.get("/admin/assets/missing.js")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCSRFRequired(t *testing.T) {
	e := newTestEnv(t, nil)
	resp, err := e.client.PostForm(e.srv.URL+"/admin/login/", url.Values{"username": {"admin"}, "password": {"secret"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, e.apiCalls(""))
}
