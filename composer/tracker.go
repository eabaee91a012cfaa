package composer

import (
	"errors"
	"sync"
)

// ErrUploadsInProgress rejects a submission while uploads are unsettled.
var ErrUploadsInProgress = errors.New("Image uploads are still in progress. Please wait for them to finish before submitting.")

// Tracker counts uploads that have started but not settled. Hero and content
// uploads share one Tracker.
type Tracker struct {
	mu      sync.Mutex
	pending int
}

// Begin registers an upload. The returned handle must be released once the
// upload settles, whatever its outcome.
func (t *Tracker) Begin() *Upload {
	t.mu.Lock()
	t.pending++
	t.mu.Unlock()
	return &Upload{t: t}
}

// InProgress reports whether at least one upload is unsettled.
func (t *Tracker) InProgress() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending > 0
}

// Pending returns the number of unsettled uploads.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// CheckSubmit returns ErrUploadsInProgress while any upload is unsettled.
func (t *Tracker) CheckSubmit() error {
	if t.InProgress() {
		return ErrUploadsInProgress
	}
	return nil
}

// Upload is the handle of one tracked upload.
type Upload struct {
	t    *Tracker
	once sync.Once
}

// Release settles the upload. Only the first call has an effect.
func (u *Upload) Release() {
	u.once.Do(func() {
		u.t.mu.Lock()
		u.t.pending--
		u.t.mu.Unlock()
	})
}
