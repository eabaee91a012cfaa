package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/pubadmin/model"
	"github.com/eringen/pubadmin/session"
)

// countPaths are the per-resource count endpoints used when the API has no
// aggregate stats endpoint.
var countPaths = struct {
	blogs, books, topics, examPreps string
}{
	blogs:     "/blogs/count",
	books:     "/books/count",
	topics:    "/topicsummaries/count",
	examPreps: "/exampreps/count",
}

// Stats returns the dashboard counts. It asks the aggregate /stats endpoint
// first and falls back to the per-resource count endpoints, queried
// concurrently, when that endpoint does not exist.
func (c *Client) Stats(ctx context.Context) (model.DashboardStats, error) {
	var out model.DashboardStats
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/stats"})
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
		logger.Debugf("no /stats endpoint, counting per resource")
		return c.countEach(ctx)
	case err != nil:
		return out, err
	case resp.kind == bodyEmpty:
		return out, ErrEmptyResponse
	}
	if err := resp.decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) countEach(ctx context.Context) (model.DashboardStats, error) {
	var out model.DashboardStats
	if c.session != nil {
		c = c.WithSession(session.Synchronized(c.session))
	}
	g, ctx := errgroup.WithContext(ctx)
	count := func(path string, dst *int) {
		g.Go(func() error {
			var raw json.RawMessage
			resp, err := c.send(ctx, request{method: http.MethodGet, path: path})
			if err != nil {
				return err
			}
			if resp.kind == bodyEmpty {
				return fmt.Errorf("%s: %w", path, ErrEmptyResponse)
			}
			if err := resp.decode(&raw); err != nil {
				return err
			}
			n, err := decodeCount(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			*dst = n
			return nil
		})
	}
	count(countPaths.blogs, &out.Blogs)
	count(countPaths.books, &out.RecommendedBooks)
	count(countPaths.topics, &out.TopicSummaries)
	count(countPaths.examPreps, &out.ExamPreps)
	if err := g.Wait(); err != nil {
		return model.DashboardStats{}, err
	}
	return out, nil
}
