package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/eringen/pubadmin/model"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type formField struct {
	name, value string
}

// multipartBody encodes fields followed by one file part. The file keeps its
// declared content type; the backend filters on it.
func multipartBody(fields []formField, fileField string, file model.Attachment) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write %s field: %w", f.name, err)
		}
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fileField), quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

// sendMultipart posts a multipart form and returns the raw success response.
func (c *Client) sendMultipart(ctx context.Context, method, path string, fields []formField, fileField string, file model.Attachment) (response, error) {
	body, contentType, err := multipartBody(fields, fileField, file)
	if err != nil {
		return response{}, err
	}
	return c.send(ctx, request{method: method, path: path, body: body, contentType: contentType})
}
