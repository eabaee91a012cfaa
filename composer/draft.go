package composer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadyMounted is returned when mounting a draft id that is still live.
var ErrAlreadyMounted = errors.New("composer: draft is already mounted")

// ErrUnknownDraft is returned for ids that were never mounted, or that have
// been unmounted or swept.
var ErrUnknownDraft = errors.New("composer: unknown draft")

// WidgetResult is the reply the editor's image tool expects from an upload.
type WidgetResult struct {
	Success int         `json:"success"`
	File    *WidgetFile `json:"file,omitempty"`
	Message string      `json:"message,omitempty"`
}

// WidgetFile carries the URL of an uploaded image.
type WidgetFile struct {
	URL string `json:"url"`
}

func ok(url string) WidgetResult {
	return WidgetResult{Success: 1, File: &WidgetFile{URL: url}}
}

func failed(err error, fallback string) WidgetResult {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return WidgetResult{Success: 0, Message: msg}
}

// Draft is one mounted editor instance.
type Draft struct {
	ID      string
	tracker Tracker

	mu       sync.Mutex
	lastSeen time.Time
}

func (d *Draft) touch(now time.Time) {
	d.mu.Lock()
	d.lastSeen = now
	d.mu.Unlock()
}

func (d *Draft) idleSince() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSeen
}

// InProgress reports whether any upload of this draft is unsettled.
func (d *Draft) InProgress() bool {
	return d.tracker.InProgress()
}

// CheckSubmit returns ErrUploadsInProgress while any upload is unsettled.
func (d *Draft) CheckSubmit() error {
	return d.tracker.CheckSubmit()
}

// Tracker exposes the draft's upload tracker.
func (d *Draft) Tracker() *Tracker {
	return &d.tracker
}

// UploadByFile uploads an image picked or dropped into the editor. Failures
// are reported in the result, never as an error.
func (d *Draft) UploadByFile(ctx context.Context, up Uploader, name string, data []byte) WidgetResult {
	h := d.tracker.Begin()
	defer h.Release()
	u, err := up.UploadFile(ctx, name, data)
	if err != nil {
		logger.Warnf("draft %s: upload %s: %v", d.ID, name, err)
		return failed(err, "Image upload failed")
	}
	return ok(u)
}

// UploadByURL handles an image pasted into the editor by URL.
func (d *Draft) UploadByURL(ctx context.Context, up Uploader, rawURL string) WidgetResult {
	h := d.tracker.Begin()
	defer h.Release()
	u, err := up.UploadURL(ctx, rawURL)
	if err != nil {
		logger.Debugf("draft %s: url upload %q: %v", d.ID, rawURL, err)
		return failed(err, "URL upload failed")
	}
	return ok(u)
}

// UploadHero uploads the post's hero image. It is tracked like content
// uploads but reports errors directly.
func (d *Draft) UploadHero(ctx context.Context, up Uploader, name string, data []byte) (string, error) {
	h := d.tracker.Begin()
	defer h.Release()
	return up.UploadFile(ctx, name, data)
}

// Registry holds the live drafts.
type Registry struct {
	mu     sync.Mutex
	drafts map[string]*Draft
	ttl    time.Duration
	now    func() time.Time
}

// NewRegistry creates a Registry whose drafts expire after ttl without
// activity.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		drafts: make(map[string]*Draft),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Mount creates a draft. An empty id gets a fresh one; an id that is still
// live fails with ErrAlreadyMounted.
func (r *Registry) Mount(id string) (*Draft, error) {
	if id == "" {
		id = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, live := r.drafts[id]; live {
		return nil, ErrAlreadyMounted
	}
	d := &Draft{ID: id, lastSeen: r.now()}
	r.drafts[id] = d
	logger.Debugf("mounted draft %s", id)
	return d, nil
}

// Get returns the live draft with the given id and marks it active.
func (r *Registry) Get(id string) (*Draft, error) {
	r.mu.Lock()
	d, live := r.drafts[id]
	r.mu.Unlock()
	if !live {
		return nil, ErrUnknownDraft
	}
	d.touch(r.now())
	return d, nil
}

// Unmount tears a draft down. Unmounting an unknown id is a no-op.
func (r *Registry) Unmount(id string) {
	r.mu.Lock()
	delete(r.drafts, id)
	r.mu.Unlock()
}

// Len returns the number of live drafts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

// Sweep unmounts drafts idle for longer than the TTL and without pending
// uploads. It returns the number removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, d := range r.drafts {
		if d.idleSince().Before(cutoff) && !d.InProgress() {
			delete(r.drafts, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				logger.Debugf("swept %d idle drafts", n)
			}
		}
	}
}
