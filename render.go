package pubadmin

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// pageFor fills the layout data shared by every admin page.
func (a *App) pageFor(c echo.Context) views.Page {
	notice, failure := takeFlash(c)
	return views.Page{
		Username: currentSession(c).Username,
		CSRF:     CsrfToken(c),
		Flash:    notice,
		Error:    failure,
	}
}

// pageWithError is pageFor with an error notice.
func (a *App) pageWithError(c echo.Context, msg string) views.Page {
	p := a.pageFor(c)
	if msg != "" {
		p.Error = msg
	}
	return p
}
