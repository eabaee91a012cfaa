package pubadmin

import (
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const flashName = "admin_flash"

const errorFlash = "error"

// setFlash queues a one-time notice shown on the next rendered page, which
// is usually the target of a post-redirect-get.
func setFlash(c echo.Context, msg string) {
	addFlash(c, msg)
}

// setFlashError queues a one-time error notice.
func setFlashError(c echo.Context, msg string) {
	addFlash(c, msg, errorFlash)
}

func addFlash(c echo.Context, msg string, key ...string) {
	sess, err := echosession.Get(flashName, c)
	if err != nil {
		c.Logger().Warnf("flash session: %v", err)
		return
	}
	sess.AddFlash(msg, key...)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		c.Logger().Warnf("save flash: %v", err)
	}
}

// takeFlash returns and clears the queued notice and error notice.
func takeFlash(c echo.Context) (notice, failure string) {
	sess, err := echosession.Get(flashName, c)
	if err != nil {
		return "", ""
	}
	notices, failures := sess.Flashes(), sess.Flashes(errorFlash)
	if len(notices) == 0 && len(failures) == 0 {
		return "", ""
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		c.Logger().Warnf("save flash: %v", err)
	}
	return last(notices), last(failures)
}

func last(flashes []any) string {
	if len(flashes) == 0 {
		return ""
	}
	s, _ := flashes[len(flashes)-1].(string)
	return s
}
