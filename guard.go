package pubadmin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/apiclient"
	"github.com/eringen/pubadmin/controller"
	"github.com/eringen/pubadmin/model"
	"github.com/eringen/pubadmin/session"
)

const (
	ctxSession = "pubadmin.session"
	ctxStore   = "pubadmin.store"

	loginPath = "/admin/login/"
)

// requireSession lets a request through only with a present, well-formed and
// unexpired token. Anything else clears the cookie and sends the browser to
// the login page.
func (a *App) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		store := session.Synchronized(sessionStore(c))
		sess, ok := session.Current(store, a.now())
		if !ok {
			return redirectToLogin(c)
		}
		c.Set(ctxSession, sess)
		c.Set(ctxStore, store)
		return next(c)
	}
}

// redirectToLogin sends the browser to the login page in the form the
// request can follow.
func redirectToLogin(c echo.Context) error {
	req := c.Request()
	switch {
	case req.Header.Get("HX-Request") == "true":
		c.Response().Header().Set("HX-Redirect", loginPath)
		return c.NoContent(http.StatusUnauthorized)
	case req.Header.Get("X-Requested-With") == "fetch":
		c.Response().Header().Set("HX-Redirect", loginPath)
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success": 0,
			"message": apiclient.ErrUnauthenticated.Error(),
		})
	}
	return c.Redirect(http.StatusSeeOther, loginPath)
}

// currentSession returns the session the guard admitted.
func currentSession(c echo.Context) model.Session {
	sess, _ := c.Get(ctxSession).(model.Session)
	return sess
}

// client returns the API client bound to the request's session, so a 401
// from any call clears the cookie.
func (a *App) client(c echo.Context) *apiclient.Client {
	store, ok := c.Get(ctxStore).(session.Store)
	if !ok {
		store = sessionStore(c)
	}
	return a.API.WithSession(store)
}

// needsLogin is implemented by the controllers.
type needsLogin interface {
	NeedsLogin() bool
	State() controller.State
}

// loggedOut reports whether an operation lost the session, in which case
// the handler must redirect instead of rendering.
func loggedOut(ctl needsLogin) bool {
	return ctl.NeedsLogin()
}

// saved reports whether a create or update went through. The controller
// refetches its list afterwards; a failed refetch leaves it in the Error
// state while a failed mutation leaves it Idle.
func saved(ctl needsLogin, err error) bool {
	return err == nil || ctl.State() == controller.Error
}
