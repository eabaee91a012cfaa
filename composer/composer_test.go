package composer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubadmin/apiclient"
	"github.com/eringen/pubadmin/model"
	"github.com/eringen/pubadmin/session"
)

// gatedUploader blocks UploadFile until its gate is closed.
type gatedUploader struct {
	gate    chan struct{}
	started chan struct{}
	url     string
	err     error
}

func (g *gatedUploader) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.gate != nil {
		<-g.gate
	}
	return g.url, g.err
}

func (g *gatedUploader) UploadURL(ctx context.Context, raw string) (string, error) {
	return CheckURL(raw)
}

func TestExtract(t *testing.T) {
	doc, err := Extract(`{"time":1,"blocks":[{"type":"paragraph","data":{"text":"hi"}}],"version":"2.28"}`)
	require.NoError(t, err)
	assert.Len(t, doc.Blocks, 1)

	_, err = Extract(`{"blocks":[]}`)
	require.ErrorIs(t, err, ErrNoContent)
	assert.Equal(t, "Please add some content to your blog post", err.Error())

	_, err = Extract("")
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = Extract("{not json")
	assert.Error(t, err)
}

func TestScanImages(t *testing.T) {
	doc, err := Extract(`{"blocks":[
		{"type":"header","data":{"text":"Title","level":2}},
		{"type":"image","data":{"file":{"url":"https://res.cloudinary.com/demo/a.jpg"}}},
		{"type":"image","data":{"file":{"url":"https://example.com/b.jpg"}}},
		{"type":"image","data":{"file":{}}}
	]}`)
	require.NoError(t, err)

	scan := ScanImages(doc, "res.cloudinary.com")
	assert.Equal(t, []string{"https://res.cloudinary.com/demo/a.jpg", "https://example.com/b.jpg"}, scan.URLs)
	assert.Equal(t, []string{
		"Block 3: Image may not be stored on res.cloudinary.com",
		"Block 4: Image block missing URL",
	}, scan.Issues)

	md := Metadata("https://res.cloudinary.com/demo/hero.jpg", scan)
	require.NotNil(t, md.HeroImageURL)
	assert.Equal(t, 3, md.TotalImages)

	empty := Metadata("", ImageScan{})
	assert.Nil(t, empty.HeroImageURL)
	assert.Equal(t, []string{}, empty.ContentImageURLs)
	assert.Zero(t, empty.TotalImages)
}

func TestPlainText(t *testing.T) {
	doc, err := Extract(`{"blocks":[
		{"type":"paragraph","data":{"text":"Hello <b>bold</b> world"}},
		{"type":"list","data":{"style":"unordered","items":["one",{"content":"two","items":[{"content":"three"}]}]}}
	]}`)
	require.NoError(t, err)
	assert.Equal(t, "Hello bold world\none\ntwo\nthree\n", PlainText(doc))
}

func TestCheckURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"https://example.com/a.png", "https://example.com/a.png", nil},
		{"http://example.com/a.png", "http://example.com/a.png", nil},
		{"file:///home/me/a.png", "", ErrLocalFile},
		{"C:/Users/me/AppData/Local/Temp/a.png", "", ErrLocalFile},
		{"/tmp/paste.png", "", ErrLocalFile},
		{"data:image/png;base64,AAAA", "", ErrInvalidURL},
		{"example.com/a.png", "", ErrInvalidURL},
	}
	for _, tt := range tests {
		got, err := CheckURL(tt.in)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestTrackerReleaseIsIdempotent(t *testing.T) {
	var tr Tracker
	a := tr.Begin()
	b := tr.Begin()
	assert.True(t, tr.InProgress())

	a.Release()
	a.Release()
	assert.True(t, tr.InProgress(), "releasing one upload twice must not settle another")
	assert.Equal(t, 1, tr.Pending())

	b.Release()
	assert.False(t, tr.InProgress())
	assert.NoError(t, tr.CheckSubmit())
}

func TestSubmitRejectedWhileUploading(t *testing.T) {
	reg := NewRegistry(time.Hour)
	d, err := reg.Mount("")
	require.NoError(t, err)

	up := &gatedUploader{gate: make(chan struct{}), started: make(chan struct{}, 1), url: "https://res.cloudinary.com/x.jpg"}
	var wg sync.WaitGroup
	var res WidgetResult
	wg.Add(1)
	go func() {
		defer wg.Done()
		res = d.UploadByFile(context.Background(), up, "x.jpg", []byte("x"))
	}()
	<-up.started

	err = d.CheckSubmit()
	require.ErrorIs(t, err, ErrUploadsInProgress)
	assert.Equal(t, "Image uploads are still in progress. Please wait for them to finish before submitting.", err.Error())

	close(up.gate)
	wg.Wait()
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, "https://res.cloudinary.com/x.jpg", res.File.URL)
	assert.NoError(t, d.CheckSubmit())
}

func TestHeroAndContentShareTracker(t *testing.T) {
	d, err := NewRegistry(time.Hour).Mount("")
	require.NoError(t, err)

	hero := &gatedUploader{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	content := &gatedUploader{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); d.UploadHero(context.Background(), hero, "h.jpg", nil) }()
	go func() { defer wg.Done(); d.UploadByFile(context.Background(), content, "c.jpg", nil) }()
	<-hero.started
	<-content.started

	close(hero.gate)
	require.Eventually(t, func() bool { return d.Tracker().Pending() == 1 }, time.Second, time.Millisecond)
	assert.True(t, d.InProgress(), "content upload is still running")

	close(content.gate)
	wg.Wait()
	assert.False(t, d.InProgress())
}

func TestUploadFailureIsWidgetResult(t *testing.T) {
	d, err := NewRegistry(time.Hour).Mount("")
	require.NoError(t, err)

	res := d.UploadByFile(context.Background(), &gatedUploader{err: errors.New("network error: refused")}, "a.jpg", nil)
	assert.Equal(t, 0, res.Success)
	assert.Nil(t, res.File)
	assert.Equal(t, "network error: refused", res.Message)
	assert.False(t, d.InProgress())

	res = d.UploadByURL(context.Background(), &gatedUploader{}, "file:///tmp/a.png")
	assert.Equal(t, 0, res.Success)
	assert.Equal(t, ErrLocalFile.Error(), res.Message)

	res = d.UploadByURL(context.Background(), &gatedUploader{}, "https://example.com/a.png")
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, "https://example.com/a.png", res.File.URL)
}

func TestRegistryMount(t *testing.T) {
	reg := NewRegistry(time.Hour)
	d, err := reg.Mount("")
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)

	_, err = reg.Mount(d.ID)
	assert.ErrorIs(t, err, ErrAlreadyMounted)

	got, err := reg.Get(d.ID)
	require.NoError(t, err)
	assert.Same(t, d, got)

	reg.Unmount(d.ID)
	_, err = reg.Get(d.ID)
	assert.ErrorIs(t, err, ErrUnknownDraft)

	_, err = reg.Mount(d.ID)
	assert.NoError(t, err, "an unmounted id can be mounted again")
}

func TestRegistrySweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(time.Hour)
	reg.now = func() time.Time { return now }

	idle, _ := reg.Mount("idle")
	busy, _ := reg.Mount("busy")
	_, _ = reg.Mount("fresh")
	h := busy.Tracker().Begin()

	now = now.Add(30 * time.Minute)
	_, _ = reg.Get("fresh")
	now = now.Add(45 * time.Minute)

	assert.Equal(t, 1, reg.Sweep())
	_, err := reg.Get(idle.ID)
	assert.ErrorIs(t, err, ErrUnknownDraft)
	assert.Equal(t, 2, reg.Len())

	h.Release()
	now = now.Add(2 * time.Hour)
	assert.Equal(t, 2, reg.Sweep())
	assert.Zero(t, reg.Len())
}

func TestAPIUploaderFallsBackToOriginal(t *testing.T) {
	var got []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got, _ = io.ReadAll(f)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"url":"https://res.cloudinary.com/demo/raw.bin"}`)
	}))
	defer ts.Close()

	api := apiclient.New(ts.URL).WithSession(session.NewMemory(model.Session{Token: "t"}))
	up := APIUploader{API: api}
	u, err := up.UploadFile(context.Background(), "raw.bin", []byte("not an image"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/raw.bin", u)
	assert.Equal(t, "not an image", string(got))
}
