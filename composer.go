package pubadmin

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/apiclient"
	"github.com/eringen/pubadmin/composer"
	"github.com/eringen/pubadmin/controller"
	"github.com/eringen/pubadmin/imaging"
)

// uploader returns the image uploader for the request's session.
func (a *App) uploader(c echo.Context) composer.Uploader {
	return composer.APIUploader{API: a.client(c), Compress: imaging.Options{}}
}

// draft resolves the :draft parameter. Unknown drafts answer with a widget
// failure, since only the editor calls these endpoints.
func (a *App) draft(c echo.Context) (*composer.Draft, error) {
	d, err := a.Drafts.Get(c.Param("draft"))
	if err != nil {
		return nil, c.JSON(http.StatusNotFound, composer.WidgetResult{
			Message: "This editor is no longer active. Please reload the page.",
		})
	}
	return d, nil
}

// widget writes an upload result. A result caused by a lost session sends
// the editor to the login page.
func widget(c echo.Context, res composer.WidgetResult, lost bool) error {
	if lost {
		c.Response().Header().Set("HX-Redirect", loginPath)
		return c.JSON(http.StatusUnauthorized, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (a *App) handleComposerFile(c echo.Context) error {
	d, err := a.draft(c)
	if d == nil {
		return err
	}
	file, err := readUpload(c, "image", a.Config.MaxUploadSize)
	if err != nil {
		return widget(c, composer.WidgetResult{Message: uploadError(err)}, false)
	}
	if len(file.Data) == 0 {
		return widget(c, composer.WidgetResult{Message: "No file received"}, false)
	}
	up := &sessionAware{Uploader: a.uploader(c)}
	res := d.UploadByFile(c.Request().Context(), up, file.Name, file.Data)
	return widget(c, res, up.lost)
}

func (a *App) handleComposerURL(c echo.Context) error {
	d, err := a.draft(c)
	if d == nil {
		return err
	}
	var body struct {
		URL string `json:"url" form:"url"`
	}
	if err := c.Bind(&body); err != nil {
		return widget(c, composer.WidgetResult{Message: composer.ErrInvalidURL.Error()}, false)
	}
	up := &sessionAware{Uploader: a.uploader(c)}
	res := d.UploadByURL(c.Request().Context(), up, body.URL)
	return widget(c, res, up.lost)
}

// handleComposerHero uploads the hero image of the post being edited. The
// editor script puts the returned URL into the form.
func (a *App) handleComposerHero(c echo.Context) error {
	d, err := a.draft(c)
	if d == nil {
		return err
	}
	file, err := readUpload(c, "image", a.Config.MaxUploadSize)
	if err != nil {
		return widget(c, composer.WidgetResult{Message: uploadError(err)}, false)
	}
	if len(file.Data) == 0 {
		return widget(c, composer.WidgetResult{Message: "No file received"}, false)
	}
	up := &sessionAware{Uploader: a.uploader(c)}
	url, err := d.UploadHero(c.Request().Context(), up, file.Name, file.Data)
	if err != nil {
		return widget(c, composer.WidgetResult{Message: controller.Message(err)}, up.lost)
	}
	return widget(c, composer.WidgetResult{Success: 1, File: &composer.WidgetFile{URL: url}}, false)
}

// handleComposerUnmount is called when the editor page goes away.
func (a *App) handleComposerUnmount(c echo.Context) error {
	a.Drafts.Unmount(c.Param("draft"))
	return c.NoContent(http.StatusNoContent)
}

func uploadError(err error) string {
	if errors.Is(err, errFileTooLarge) {
		return "Image is too large"
	}
	return "Image upload failed"
}

// sessionAware records whether an upload failed because the session is gone.
type sessionAware struct {
	composer.Uploader
	lost bool
}

func (s *sessionAware) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	u, err := s.Uploader.UploadFile(ctx, name, data)
	if errors.Is(err, apiclient.ErrUnauthenticated) {
		s.lost = true
	}
	return u, err
}
