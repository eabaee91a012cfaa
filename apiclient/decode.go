package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"regexp"
	"strings"
)

// Response classification errors.
var (
	ErrUnauthenticated   = errors.New("your session has expired, please login again")
	ErrMalformedResponse = errors.New("server returned invalid data")
	ErrEmptyResponse     = errors.New("server returned an empty response")
)

// APIError is a non-success response from the content API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError wraps a failure to reach the content API at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type bodyKind int

const (
	bodyEmpty bodyKind = iota
	bodyJSON
	bodyText
)

func (k bodyKind) String() string {
	switch k {
	case bodyEmpty:
		return "empty"
	case bodyJSON:
		return "json"
	default:
		return "text"
	}
}

// classify decides how a response body is interpreted: an empty body is
// empty regardless of its declared type; a declared JSON media type or a body
// starting with { or [ is JSON; anything else is plain text.
func classify(contentType, text string) bodyKind {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return bodyEmpty
	}
	if isJSONMediaType(contentType) {
		return bodyJSON
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return bodyJSON
	}
	return bodyText
}

func isJSONMediaType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// errorFromResponse builds the error for a non-success status. The server's
// error or message field wins, then the raw text, then a generic message.
func errorFromResponse(status int, kind bodyKind, text string) *APIError {
	msg := ""
	if kind == bodyJSON {
		var body struct {
			Error   any `json:"error"`
			Message any `json:"message"`
		}
		if err := json.Unmarshal([]byte(text), &body); err == nil {
			msg = firstString(body.Error, body.Message)
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(text)
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{Status: status, Message: msg}
}

func firstString(vals ...any) string {
	for _, v := range vals {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// decodeJSON unmarshals a success body into out. A body that is not JSON at
// all, or JSON that does not parse, is a malformed response.
func decodeJSON(kind bodyKind, text string, out any) error {
	if kind != bodyJSON {
		return fmt.Errorf("%w: expected JSON, got %s body", ErrMalformedResponse, kind)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

var reAbsoluteURL = regexp.MustCompile(`https?://[^\s"'<>]+`)

// ExtractUploadURL pulls the stored file URL out of an upload response.
//
//	empty body      -> ErrEmptyResponse
//	JSON body       -> its "url" field, ErrMalformedResponse if absent
//	plain text body -> the first absolute http(s) URL, ErrMalformedResponse if none
func ExtractUploadURL(contentType, text string) (string, error) {
	kind := classify(contentType, text)
	switch kind {
	case bodyEmpty:
		return "", ErrEmptyResponse
	case bodyJSON:
		var body struct {
			URL string `json:"url"`
		}
		if err := decodeJSON(kind, text, &body); err != nil {
			return "", err
		}
		if strings.TrimSpace(body.URL) == "" {
			return "", fmt.Errorf("%w: upload response has no url", ErrMalformedResponse)
		}
		return body.URL, nil
	default:
		if u := reAbsoluteURL.FindString(text); u != "" {
			return u, nil
		}
		return "", fmt.Errorf("%w: upload response has no url", ErrMalformedResponse)
	}
}

// decodeCount reads either a JSON array (its length) or an object with a
// numeric count field.
func decodeCount(raw json.RawMessage) (int, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return len(items), nil
	}
	var body struct {
		Count *int `json:"count"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.Count == nil {
		return 0, fmt.Errorf("%w: missing count", ErrMalformedResponse)
	}
	return *body.Count, nil
}
