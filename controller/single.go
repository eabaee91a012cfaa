package controller

import (
	"context"
	"path"
	"strings"

	"github.com/eringen/pubadmin/apiclient"
	"github.com/eringen/pubadmin/model"
)

// Single drives a resource that is one record rather than a collection, such
// as the hero image or the dashboard counts.
type Single[T any] struct {
	value      T
	state      State
	message    string
	needsLogin bool
}

// Value returns the last fetched or stored record.
func (s *Single[T]) Value() T { return s.value }

func (s *Single[T]) State() State { return s.state }

func (s *Single[T]) Message() string { return s.message }

func (s *Single[T]) NeedsLogin() bool { return s.needsLogin }

// Load fetches the record. On failure the previous value is kept.
func (s *Single[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) error {
	s.state = Loading
	v, err := fetch(ctx)
	if err != nil {
		s.fail(Error, err)
		return err
	}
	s.value = v
	s.state = Idle
	s.message = ""
	return nil
}

// Submit sends a change and keeps the record the API returns.
func (s *Single[T]) Submit(ctx context.Context, send func(context.Context) (T, error)) error {
	s.state = Submitting
	v, err := send(ctx)
	if err != nil {
		s.fail(Idle, err)
		return err
	}
	s.value = v
	s.state = Idle
	s.message = ""
	return nil
}

// Fail records err as the outcome of the current operation.
func (s *Single[T]) Fail(err error) {
	s.fail(Idle, err)
}

func (s *Single[T]) fail(next State, err error) {
	s.state = next
	s.message = Message(err)
	if isUnauthenticated(err) {
		s.needsLogin = true
	}
}

// Document media types accepted for topic summaries.
const (
	MediaPDF  = "application/pdf"
	MediaDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ValidateTopicSummary checks a topic summary before upload. The file is
// accepted by its declared media type; a generic declared type falls back to
// the file extension.
func ValidateTopicSummary(ts model.TopicSummary) error {
	if err := requireFields(
		field{"title", "Title", ts.Title},
		field{"description", "Description", ts.Description},
	); err != nil {
		return err
	}
	if len(ts.File.Data) == 0 {
		return Invalid("file", "Please select a PDF or DOCX file to upload.")
	}
	if DocumentType(ts.File) == "" {
		return Invalid("file", "Only PDF or DOCX files are allowed.")
	}
	return nil
}

// DocumentType returns the accepted media type of f, or "" when f is neither
// a PDF nor a DOCX document.
func DocumentType(f model.Attachment) string {
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case MediaPDF, MediaDOCX:
		return ct
	case "", "application/octet-stream":
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".pdf":
			return MediaPDF
		case ".docx":
			return MediaDOCX
		}
	}
	return ""
}

// TopicSummaries submits topic summary uploads. The API offers no listing,
// so there is nothing to load.
type TopicSummaries struct {
	Single[model.TopicSummary]
	API *apiclient.Client
}

// Create validates ts and uploads it. On failure the caller keeps the form
// values; on success the stored value is reset.
func (t *TopicSummaries) Create(ctx context.Context, ts model.TopicSummary) error {
	if err := ValidateTopicSummary(ts); err != nil {
		t.Fail(err)
		return err
	}
	if ct := DocumentType(ts.File); ct != ts.File.ContentType {
		ts.File.ContentType = ct
	}
	return t.Submit(ctx, func(ctx context.Context) (model.TopicSummary, error) {
		return model.TopicSummary{}, t.API.CreateTopicSummary(ctx, ts)
	})
}
