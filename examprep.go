package pubadmin

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/controller"
	"github.com/eringen/pubadmin/model"
	"github.com/eringen/pubadmin/views"
)

const examPrepPath = "/admin/exam-prep/"

type examPrepController = controller.Controller[model.ExamPrep, string]

func (a *App) examPreps(c echo.Context) *examPrepController {
	ctl := controller.New[model.ExamPrep, string](controller.ExamPreps{API: a.client(c)})
	ctl.OnMutate = a.Stats.Invalidate
	return ctl
}

func (a *App) renderExamPreps(c echo.Context, ctl *examPrepController, code int, d views.ExamPrepData) error {
	if ctl.Items() == nil && ctl.State() != controller.Error {
		if err := ctl.Load(c.Request().Context()); err != nil {
			if loggedOut(ctl) {
				return toLogin(c)
			}
			if code == http.StatusOK {
				code = http.StatusBadGateway
			}
		}
	}
	d.Items = ctl.Items()
	return RenderStatus(c, code, a.Views.ExamPreps(a.pageWithError(c, ctl.Message()), d))
}

func (a *App) handleExamPreps(c echo.Context) error {
	return a.renderExamPreps(c, a.examPreps(c), http.StatusOK, views.ExamPrepData{})
}

func (a *App) handleExamPrepEdit(c echo.Context) error {
	id := c.Param("id")
	ctl := a.examPreps(c)
	ep, err := ctl.Edit(c.Request().Context(), id)
	if err != nil {
		if loggedOut(ctl) {
			return toLogin(c)
		}
		if err == controller.ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return a.renderExamPreps(c, ctl, http.StatusBadGateway, views.ExamPrepData{})
	}
	return a.renderExamPreps(c, ctl, http.StatusOK, views.ExamPrepData{Form: ep, EditingID: id})
}

func (a *App) handleExamPrepCreate(c echo.Context) error {
	return a.submitExamPrep(c, "")
}

func (a *App) handleExamPrepUpdate(c echo.Context) error {
	return a.submitExamPrep(c, c.Param("id"))
}

func (a *App) submitExamPrep(c echo.Context, id string) error {
	ep := model.ExamPrep{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		DownloadURL: strings.TrimSpace(c.FormValue("downloadUrl")),
		AnswersNote: strings.TrimSpace(c.FormValue("answersNote")),
	}
	ctl := a.examPreps(c)
	ctx := c.Request().Context()

	var err error
	if id == "" {
		err = ctl.Create(ctx, ep)
	} else {
		err = ctl.Update(ctx, id, ep)
	}
	if loggedOut(ctl) {
		return toLogin(c)
	}
	if !saved(ctl, err) {
		return a.renderExamPreps(c, ctl, http.StatusUnprocessableEntity, views.ExamPrepData{Form: ep, EditingID: id})
	}
	if id == "" {
		setFlash(c, "Exam prep created successfully")
	} else {
		setFlash(c, "Exam prep updated successfully")
	}
	return seeOther(c, examPrepPath)
}

func (a *App) handleExamPrepConfirmDelete(c echo.Context) error {
	id := c.Param("id")
	ctl := a.examPreps(c)
	name := id
	if ep, err := ctl.Edit(c.Request().Context(), id); err == nil {
		name = ep.Name
	} else if loggedOut(ctl) {
		return toLogin(c)
	}
	return Render(c, a.Views.ConfirmDelete(a.pageFor(c), views.Confirm{
		What:   "exam prep",
		Name:   name,
		Action: examPrepPath + views.PathEscape(id) + "/delete/",
		Cancel: examPrepPath,
	}))
}

func (a *App) handleExamPrepDelete(c echo.Context) error {
	ctl := a.examPreps(c)
	if err := ctl.Delete(c.Request().Context(), c.Param("id"), confirmed(c)); err != nil {
		if loggedOut(ctl) {
			return toLogin(c)
		}
		return a.renderExamPreps(c, ctl, http.StatusBadGateway, views.ExamPrepData{})
	}
	if confirmed(c) {
		setFlash(c, "Exam prep deleted successfully")
	}
	return seeOther(c, examPrepPath)
}
