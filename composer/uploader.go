package composer

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/eringen/pubadmin/apiclient"
	"github.com/eringen/pubadmin/imaging"
	"github.com/eringen/pubadmin/model"
)

// Uploader stores images for the editor and returns their public URL.
type Uploader interface {
	UploadFile(ctx context.Context, name string, data []byte) (string, error)
	UploadURL(ctx context.Context, rawURL string) (string, error)
}

// URL upload errors.
var (
	ErrLocalFile  = errors.New("Local files cannot be uploaded. Please use drag & drop or file selection.")
	ErrInvalidURL = errors.New("Invalid URL format")
)

var reDrivePath = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// CheckURL applies the rules for images added by URL: local files are
// refused, absolute http(s) URLs are used as they are and anything else is
// invalid.
func CheckURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	lower := strings.ToLower(u)
	switch {
	case strings.HasPrefix(lower, "file://"),
		strings.Contains(u, "AppData/Local/Temp"),
		strings.Contains(u, `AppData\Local\Temp`),
		strings.HasPrefix(u, "/tmp/"),
		reDrivePath.MatchString(u):
		return "", ErrLocalFile
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return u, nil
	}
	return "", ErrInvalidURL
}

// APIUploader uploads through the content API, compressing images first.
type APIUploader struct {
	API      *apiclient.Client
	Compress imaging.Options
}

// UploadFile compresses data and uploads it. When compression fails, or does
// not make the file smaller, the original bytes are sent instead.
func (u APIUploader) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	file := model.Attachment{Name: name, ContentType: http.DetectContentType(data), Data: data}
	res, err := imaging.Compress(data, name, u.Compress)
	switch {
	case err != nil:
		logger.Warnf("compress %s failed, uploading original: %v", name, err)
	case len(res.Data) < len(data):
		file = model.Attachment{Name: res.Name, ContentType: res.ContentType, Data: res.Data}
	}
	return u.API.UploadBlogImage(ctx, file)
}

// UploadURL does not fetch remote images; valid web URLs are kept as is.
func (u APIUploader) UploadURL(ctx context.Context, rawURL string) (string, error) {
	return CheckURL(rawURL)
}
