package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eringen/pubadmin/model"
)

// Login exchanges credentials for a session. A 401 here means wrong
// credentials and is returned as *APIError with the server's message.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	var out model.Session
	resp, err := c.sendJSON(ctx, request{method: http.MethodPost, path: "/admin/login", anonymous: true}, creds)
	if err != nil {
		return model.Session{}, err
	}
	if resp.kind == bodyEmpty {
		return model.Session{}, ErrEmptyResponse
	}
	if err := resp.decode(&out); err != nil {
		return model.Session{}, err
	}
	if out.Token == "" {
		return model.Session{}, fmt.Errorf("%w: login response has no token", ErrMalformedResponse)
	}
	if out.Username == "" {
		out.Username = creds.Username
	}
	return out, nil
}
