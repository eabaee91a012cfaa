package pubadmin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/apiclient"
	"github.com/eringen/pubadmin/controller"
	"github.com/eringen/pubadmin/model"
	"github.com/eringen/pubadmin/session"
	"github.com/eringen/pubadmin/views"
)

const errTooManyAttempts = "Too many login attempts. Please try again later."

func (a *App) loginPage(c echo.Context, code int, username, errMsg string) error {
	notice, failure := takeFlash(c)
	if errMsg == "" {
		errMsg = failure
	}
	p := views.Page{CSRF: CsrfToken(c), Flash: notice, Error: errMsg}
	return RenderStatus(c, code, a.Views.Login(p, views.LoginForm{Username: username}))
}

func (a *App) handleLoginForm(c echo.Context) error {
	if _, ok := session.Current(sessionStore(c), a.now()); ok {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.loginPage(c, http.StatusOK, "", "")
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	if !a.loginLimiter.Check(ip) {
		return a.loginPage(c, http.StatusTooManyRequests, username, errTooManyAttempts)
	}
	if username == "" || password == "" {
		return a.loginPage(c, http.StatusBadRequest, username, "Username and password are required")
	}

	store := sessionStore(c)
	sess, err := a.API.Login(c.Request().Context(), model.Credentials{Username: username, Password: password})
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			a.loginLimiter.Record(ip)
		}
		c.Logger().Warnf("login %q from %s: %v", username, ip, err)
		return a.loginPage(c, http.StatusUnauthorized, username, controller.Message(err))
	}
	if err := store.Save(sess); err != nil {
		return err
	}
	a.loginLimiter.Reset(ip)
	c.Logger().Infof("admin %q signed in", sess.Username)
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleLogout(c echo.Context) error {
	if err := sessionStore(c).Clear(); err != nil {
		c.Logger().Warnf("logout: %v", err)
	}
	return c.Redirect(http.StatusSeeOther, loginPath)
}
