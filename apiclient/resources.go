package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/eringen/pubadmin/model"
)

// ListBooks returns every recommended book, active or not.
func (c *Client) ListBooks(ctx context.Context) ([]model.RecommendedBook, error) {
	var out []model.RecommendedBook
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/books/all"})
	if err != nil {
		return nil, err
	}
	if resp.kind == bodyEmpty {
		return []model.RecommendedBook{}, nil
	}
	if err := resp.decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBook adds a recommended book.
func (c *Client) CreateBook(ctx context.Context, book model.RecommendedBook) (model.RecommendedBook, error) {
	out := book
	if err := c.Call(ctx, http.MethodPost, "/books", book, &out); err != nil {
		return model.RecommendedBook{}, err
	}
	return out, nil
}

// UpdateBook replaces the book identified by id.
func (c *Client) UpdateBook(ctx context.Context, id string, book model.RecommendedBook) (model.RecommendedBook, error) {
	out := book
	if err := c.Call(ctx, http.MethodPut, "/books/"+url.PathEscape(id), book, &out); err != nil {
		return model.RecommendedBook{}, err
	}
	return out, nil
}

// DeleteBook removes the book identified by id.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.Call(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil)
}

// ToggleBookActive asks the API to set the book's active flag and returns the
// value the API actually stored.
func (c *Client) ToggleBookActive(ctx context.Context, id string, active bool) (bool, error) {
	in := struct {
		IsActive bool `json:"isActive"`
	}{active}
	var out struct {
		Message  string `json:"message"`
		IsActive *bool  `json:"isActive"`
	}
	resp, err := c.sendJSON(ctx, request{method: http.MethodPatch, path: "/books/" + url.PathEscape(id) + "/toggle-active"}, in)
	if err != nil {
		return false, err
	}
	if resp.kind == bodyEmpty {
		return false, ErrEmptyResponse
	}
	if err := resp.decode(&out); err != nil {
		return false, err
	}
	if out.IsActive == nil {
		return false, fmt.Errorf("%w: toggle response has no isActive", ErrMalformedResponse)
	}
	return *out.IsActive, nil
}

// ListExamPreps returns every exam prep resource.
func (c *Client) ListExamPreps(ctx context.Context) ([]model.ExamPrep, error) {
	var out struct {
		Data *[]model.ExamPrep `json:"data"`
	}
	if err := c.Call(ctx, http.MethodGet, "/exampreps", nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("%w: exam prep list has no data array", ErrMalformedResponse)
	}
	return *out.Data, nil
}

// CreateExamPrep adds an exam prep resource.
func (c *Client) CreateExamPrep(ctx context.Context, ep model.ExamPrep) (model.ExamPrep, error) {
	out := ep
	if err := c.Call(ctx, http.MethodPost, "/exampreps", ep, &out); err != nil {
		return model.ExamPrep{}, err
	}
	return out, nil
}

// UpdateExamPrep replaces the exam prep identified by id.
func (c *Client) UpdateExamPrep(ctx context.Context, id string, ep model.ExamPrep) (model.ExamPrep, error) {
	out := ep
	if err := c.Call(ctx, http.MethodPut, "/exampreps/"+url.PathEscape(id), ep, &out); err != nil {
		return model.ExamPrep{}, err
	}
	return out, nil
}

// DeleteExamPrep removes the exam prep identified by id.
func (c *Client) DeleteExamPrep(ctx context.Context, id string) error {
	return c.Call(ctx, http.MethodDelete, "/exampreps/"+url.PathEscape(id), nil, nil)
}

// CreateTopicSummary uploads a topic summary document with its metadata.
func (c *Client) CreateTopicSummary(ctx context.Context, ts model.TopicSummary) error {
	fields := []formField{
		{"title", ts.Title},
		{"description", ts.Description},
		{"tags", ts.Tags},
	}
	resp, err := c.sendMultipart(ctx, http.MethodPost, "/topicsummaries", fields, "file", ts.File)
	if err != nil {
		return err
	}
	return resp.decode(nil)
}

// GetHeroImage returns the current hero image.
func (c *Client) GetHeroImage(ctx context.Context) (model.HeroImage, error) {
	var out model.HeroImage
	err := c.Call(ctx, http.MethodGet, "/hero-image", nil, &out)
	return out, err
}

// ReplaceHeroImage uploads a new hero image and returns the stored record.
func (c *Client) ReplaceHeroImage(ctx context.Context, img model.Attachment) (model.HeroImage, error) {
	var out model.HeroImage
	resp, err := c.sendMultipart(ctx, http.MethodPut, "/hero-image", nil, "image", img)
	if err != nil {
		return out, err
	}
	if resp.kind == bodyEmpty {
		return out, ErrEmptyResponse
	}
	if err := resp.decode(&out); err != nil {
		return out, err
	}
	if out.ImageURL == "" {
		return out, fmt.Errorf("%w: hero image response has no imageUrl", ErrMalformedResponse)
	}
	return out, nil
}
