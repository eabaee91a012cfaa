package apiclient

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/gommon/log"
)

// LoggingTransport is an http.RoundTripper that logs outbound requests and
// responses when the package logger is at debug level. The Authorization
// header is never logged and multipart bodies are summarized.
type LoggingTransport struct {
	Base http.RoundTripper
}

func (t *LoggingTransport) base() http.RoundTripper {
	if t.Base == nil {
		return http.DefaultTransport
	}
	return t.Base
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if logger.Level() > log.DEBUG {
		return t.base().RoundTrip(req)
	}

	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	logger.Debugf("outbound request: [%s] %s", req.Method, req.URL.String())
	if len(reqBody) > 0 {
		if strings.Contains(req.Header.Get("Content-Type"), "multipart/form-data") {
			logger.Debugf("outbound request body: <multipart/form-data, length=%d>", len(reqBody))
		} else if !strings.HasSuffix(req.URL.Path, "/login") {
			logger.Debugf("outbound request body: %s", string(reqBody))
		}
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		logger.Debugf("outbound request failed: %s: %v", req.URL.String(), err)
		return resp, err
	}

	logger.Debugf("outbound response: %d %s", resp.StatusCode, req.URL.String())
	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(respBody))
	if len(respBody) > 0 {
		logger.Debugf("outbound response body: %s", string(respBody))
	}
	return resp, nil
}
