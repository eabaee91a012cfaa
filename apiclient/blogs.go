package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/eringen/pubadmin/model"
)

// ListBlogs returns every post. status "all" includes drafts.
func (c *Client) ListBlogs(ctx context.Context, status string) ([]model.BlogPost, error) {
	path := "/blogs"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out struct {
		Blogs *[]model.BlogPost `json:"blogs"`
	}
	if err := c.Call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Blogs == nil {
		return nil, fmt.Errorf("%w: blog list has no blogs array", ErrMalformedResponse)
	}
	return *out.Blogs, nil
}

// GetBlog fetches one post by slug.
func (c *Client) GetBlog(ctx context.Context, slug string) (model.BlogPost, error) {
	var out model.BlogPost
	resp, err := c.send(ctx, request{method: http.MethodGet, path: blogPath(slug)})
	if err != nil {
		return out, err
	}
	if resp.kind == bodyEmpty {
		return out, ErrEmptyResponse
	}
	if err := resp.decode(&out); err != nil {
		return out, err
	}
	if out.Slug == "" {
		out.Slug = slug
	}
	return out, nil
}

// CreateBlog creates a post. The created record is returned when the API
// echoes it, otherwise post itself.
func (c *Client) CreateBlog(ctx context.Context, post model.BlogPost) (model.BlogPost, error) {
	out := post
	if err := c.Call(ctx, http.MethodPost, "/blogs", post, &out); err != nil {
		return model.BlogPost{}, err
	}
	return out, nil
}

// UpdateBlog fully replaces the post identified by slug.
func (c *Client) UpdateBlog(ctx context.Context, slug string, post model.BlogPost) (model.BlogPost, error) {
	out := post
	if err := c.Call(ctx, http.MethodPut, blogPath(slug), post, &out); err != nil {
		return model.BlogPost{}, err
	}
	return out, nil
}

// DeleteBlog removes the post identified by slug.
func (c *Client) DeleteBlog(ctx context.Context, slug string) error {
	return c.Call(ctx, http.MethodDelete, blogPath(slug), nil, nil)
}

// UploadBlogImage stores an image used by a post and returns its URL.
func (c *Client) UploadBlogImage(ctx context.Context, file model.Attachment) (string, error) {
	resp, err := c.sendMultipart(ctx, http.MethodPost, "/blogs/upload", nil, "file", file)
	if err != nil {
		return "", err
	}
	return ExtractUploadURL(resp.contentType, resp.text)
}

func blogPath(slug string) string {
	return "/blogs/" + url.PathEscape(slug)
}
