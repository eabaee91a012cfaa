package pubadmin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/controller"
	"github.com/eringen/pubadmin/model"
	"github.com/eringen/pubadmin/views"
)

const topicsPath = "/admin/topic-summaries/"

func (a *App) handleTopicForm(c echo.Context) error {
	return Render(c, a.Views.TopicSummary(a.pageFor(c), views.TopicForm{}))
}

// handleTopicCreate uploads a summary document. On failure the text fields
// are redisplayed; the file has to be picked again.
func (a *App) handleTopicCreate(c echo.Context) error {
	form := views.TopicForm{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Tags:        c.FormValue("tags"),
	}
	ctl := &controller.TopicSummaries{API: a.client(c)}

	file, err := readUpload(c, "file", a.Config.MaxDocumentSize)
	if errors.Is(err, errFileTooLarge) {
		ctl.Fail(controller.Invalid("file", "The file is too large."))
		return RenderStatus(c, http.StatusRequestEntityTooLarge, a.Views.TopicSummary(a.pageWithError(c, ctl.Message()), form))
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	}

	err = ctl.Create(c.Request().Context(), model.TopicSummary{
		Title:       form.Title,
		Description: form.Description,
		Tags:        controller.JoinList(controller.SplitList(form.Tags)),
		File:        file,
	})
	if err != nil {
		if loggedOut(ctl) {
			return toLogin(c)
		}
		code := http.StatusBadGateway
		var ve *controller.ValidationError
		if errors.As(err, &ve) {
			code = http.StatusUnprocessableEntity
		}
		return RenderStatus(c, code, a.Views.TopicSummary(a.pageWithError(c, ctl.Message()), form))
	}
	a.Stats.Invalidate()
	setFlash(c, "Topic summary created successfully!")
	return seeOther(c, topicsPath)
}
