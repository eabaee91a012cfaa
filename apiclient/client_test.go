package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubadmin/model"
	"github.com/eringen/pubadmin/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *session.Memory) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	store := session.NewMemory(model.Session{Token: "tok", Username: "admin"})
	return New(ts.URL + "/api").WithSession(store), store
}

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType, text string
		want              bodyKind
	}{
		{"application/json", "", bodyEmpty},
		{"", "   \n", bodyEmpty},
		{"application/json; charset=utf-8", "oops", bodyJSON},
		{"application/problem+json", `{"error":"x"}`, bodyJSON},
		{"text/html", ` {"a":1}`, bodyJSON},
		{"", "[1,2]", bodyJSON},
		{"text/plain", "Internal Server Error", bodyText},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.contentType, tt.text), "%q %q", tt.contentType, tt.text)
	}
}

func TestCallAttachesBearerToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/books/all", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"_id":"1","title":"Go"},{"_id":"2","title":"Rust"}]`)
	})
	books, err := c.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Go", books[0].Title)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"token expired"}`)
	})
	_, err := c.ListBooks(context.Background())
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, ok := store.Load()
	assert.False(t, ok, "401 should clear the session")
}

func TestErrorMessagePrecedence(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
		want        string
	}{
		{"error field", "application/json", `{"error":"slug taken","message":"ignored"}`, 409, "slug taken"},
		{"message field", "application/json", `{"message":"bad input"}`, 400, "bad input"},
		{"raw text", "text/plain", "gateway exploded", 502, "gateway exploded"},
		{"json without fields", "application/json", `{"code":7}`, 400, `{"code":7}`},
		{"empty body", "", "", 500, "request failed with status 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			err := c.DeleteBook(context.Background(), "1")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestEmptySuccessBodyIsEmptyResult(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.DeleteBlog(context.Background(), "hello-world"))
}

func TestMalformedSuccessBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"blogs": [`)
	})
	_, err := c.ListBlogs(context.Background(), "all")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestMalformedBodyWithoutResult(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"deleted": tru`)
	})
	ctx := context.Background()

	assert.ErrorIs(t, c.DeleteBlog(ctx, "a"), ErrMalformedResponse)
	assert.ErrorIs(t, c.DeleteBook(ctx, "1"), ErrMalformedResponse)
	assert.ErrorIs(t, c.DeleteExamPrep(ctx, "1"), ErrMalformedResponse)
	err := c.CreateTopicSummary(ctx, model.TopicSummary{
		Title: "Cells",
		File:  model.Attachment{Name: "cells.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
	})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestTextBodyWithoutResult(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "deleted")
	})
	assert.NoError(t, c.DeleteBook(context.Background(), "1"))
}

func TestListBlogsRequiresEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"slug":"a"}]`)
	})
	_, err := c.ListBlogs(context.Background(), "all")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url).ListExamPreps(context.Background())
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.True(t, strings.HasPrefix(err.Error(), "network error: "))
}

func TestLoginWrongPassword(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"), "login must not send a bearer token")
		var creds model.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin", creds.Username)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"invalid credentials"}`)
	})
	_, err := c.Login(context.Background(), model.Credentials{Username: "admin", Password: "wrong"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.False(t, errors.Is(err, ErrUnauthenticated))
}

func TestLoginSuccess(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"token":"a.b.c","username":"root"}`)
	})
	sess, err := c.Login(context.Background(), model.Credentials{Username: "admin", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, model.Session{Token: "a.b.c", Username: "root"}, sess)
}

func TestUploadEmptyBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	_, err := c.UploadBlogImage(context.Background(), model.Attachment{Name: "a.jpg", Data: []byte("x")})
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, "server returned an empty response", err.Error())
}

func TestUploadSendsMultipartFile(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cover.jpg", hdr.Filename)
		assert.Equal(t, "image/jpeg", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "jpegbytes", string(data))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"url":"https://res.cloudinary.com/demo/cover.jpg"}`)
	})
	u, err := c.UploadBlogImage(context.Background(), model.Attachment{Name: "cover.jpg", ContentType: "image/jpeg", Data: []byte("jpegbytes")})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/cover.jpg", u)
}

func TestExtractUploadURL(t *testing.T) {
	tests := []struct {
		name, contentType, body, want string
		err                           error
	}{
		{"json url", "application/json", `{"url":"https://x/y.jpg"}`, "https://x/y.jpg", nil},
		{"json without url", "application/json", `{"ok":true}`, "", ErrMalformedResponse},
		{"broken json", "application/json", `{"url":`, "", ErrMalformedResponse},
		{"text with url", "text/plain", "stored at https://cdn.example.com/a.png ok", "https://cdn.example.com/a.png", nil},
		{"text without url", "text/plain", "done", "", ErrMalformedResponse},
		{"empty", "application/json", "", "", ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractUploadURL(tt.contentType, tt.body)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToggleBookActiveReturnsServerValue(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/books/42/toggle-active", r.URL.Path)
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.False(t, body["isActive"])
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":"updated","isActive":true}`)
	})
	got, err := c.ToggleBookActive(context.Background(), "42", false)
	require.NoError(t, err)
	assert.True(t, got, "the server's value wins over the requested one")
}

func TestTopicSummaryMultipart(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Cells", r.FormValue("title"))
		assert.Equal(t, "biology, cells", r.FormValue("tags"))
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", hdr.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
	})
	err := c.CreateTopicSummary(context.Background(), model.TopicSummary{
		Title:       "Cells",
		Description: "Intro",
		Tags:        "biology, cells",
		File:        model.Attachment{Name: "cells.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
	})
	assert.NoError(t, err)
}

func TestStatsAggregateEndpoint(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"blogs":3,"recommendedBooks":2,"topicSummaries":1,"examPreps":4}`)
	})
	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{Blogs: 3, RecommendedBooks: 2, TopicSummaries: 1, ExamPreps: 4}, stats)
}

func TestStatsFallsBackToCounts(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/stats":
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"not found"}`)
		case "/api/blogs/count":
			io.WriteString(w, `{"count":7}`)
		case "/api/books/count":
			io.WriteString(w, `[{},{}]`)
		case "/api/topicsummaries/count":
			io.WriteString(w, `{"count":0}`)
		case "/api/exampreps/count":
			io.WriteString(w, `[{}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{Blogs: 7, RecommendedBooks: 2, TopicSummaries: 0, ExamPreps: 1}, stats)
	assert.Equal(t, int32(5), hits.Load())
}
