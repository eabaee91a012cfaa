package pubadmin

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/model"
)

func (a *App) handleAsset(c echo.Context) error {
	name := path.Clean("/" + c.Param("*"))[1:]
	data, err := EmbeddedAssets.ReadFile("embedded/" + name)
	if err != nil {
		return echo.ErrNotFound
	}
	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return c.Blob(http.StatusOK, ct, data)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// errFileTooLarge is returned by readUpload when a file exceeds its limit.
var errFileTooLarge = errors.New("file is too large")

// readUpload reads the multipart file field of the request. A missing field
// yields an empty attachment and no error.
func readUpload(c echo.Context, field string, limit int64) (model.Attachment, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return model.Attachment{}, nil
	}
	if err != nil {
		return model.Attachment{}, fmt.Errorf("read %s: %w", field, err)
	}
	if fh.Size > limit {
		return model.Attachment{}, errFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return model.Attachment{}, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return model.Attachment{}, fmt.Errorf("read %s: %w", field, err)
	}
	if int64(len(data)) > limit {
		return model.Attachment{}, errFileTooLarge
	}
	return model.Attachment{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// seeOther redirects after a successful form post.
func seeOther(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

// toLogin ends a request whose API call lost the session. The client has
// already cleared the cookie.
func toLogin(c echo.Context) error {
	setFlashError(c, "Your session has expired. Please sign in again.")
	return redirectToLogin(c)
}

// confirmed reports whether a deletion form carried the confirmation.
func confirmed(c echo.Context) bool {
	return c.FormValue("confirm") == "yes"
}
