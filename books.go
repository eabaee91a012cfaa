package pubadmin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/controller"
	"github.com/eringen/pubadmin/model"
	"github.com/eringen/pubadmin/views"
)

const booksPath = "/admin/books/"

func (a *App) books(c echo.Context) *controller.BookController {
	ctl := controller.NewBooks(a.client(c))
	ctl.OnMutate = a.Stats.Invalidate
	return ctl
}

// renderBooks loads the list unless it was loaded, or failed to, already and
// shows it with the given form.
func (a *App) renderBooks(c echo.Context, ctl *controller.BookController, code int, d views.BooksData) error {
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
	d.Search = strings.TrimSpace(c.QueryParam("q"))
	d.Books = ctl.Filter(d.Search)
	d.Total = len(ctl.Items())
	if d.Reordered {
		for _, book := range ctl.Items() {
			d.Arrangement = append(d.Arrangement, book.ID)
		}
	}
	if d.FormTags == "" {
		d.FormTags = controller.JoinList(d.Form.Tags)
	}
	return RenderStatus(c, code, a.Views.Books(a.pageWithError(c, ctl.Message()), d))
}

func (a *App) handleBooks(c echo.Context) error {
	return a.renderBooks(c, a.books(c), http.StatusOK, views.BooksData{
		Form: model.RecommendedBook{IsActive: true},
	})
}

func (a *App) handleBookEdit(c echo.Context) error {
	ctl := a.books(c)
	book, err := ctl.Edit(c.Request().Context(), c.Param("id"))
	if err != nil {
		if loggedOut(ctl) {
			return toLogin(c)
		}
		if err == controller.ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return a.renderBooks(c, ctl, http.StatusBadGateway, views.BooksData{})
	}
	return a.renderBooks(c, ctl, http.StatusOK, views.BooksData{Form: book, Editing: true})
}

func (a *App) handleBookCreate(c echo.Context) error {
	return a.submitBook(c, "")
}

func (a *App) handleBookUpdate(c echo.Context) error {
	return a.submitBook(c, c.Param("id"))
}

func (a *App) submitBook(c echo.Context, id string) error {
	book, tags := parseBookForm(c)
	book.ID = id
	ctl := a.books(c)
	ctx := c.Request().Context()

	var err error
	if id == "" {
		err = ctl.Create(ctx, book)
	} else {
		err = ctl.Update(ctx, id, book)
	}
	if loggedOut(ctl) {
		return toLogin(c)
	}
	if !saved(ctl, err) {
		return a.renderBooks(c, ctl, http.StatusUnprocessableEntity, views.BooksData{
			Form:     book,
			FormTags: tags,
			Editing:  id != "",
		})
	}
	if id == "" {
		setFlash(c, "Book added successfully")
	} else {
		setFlash(c, "Book updated successfully")
	}
	return seeOther(c, booksPath)
}

func (a *App) handleBookToggle(c echo.Context) error {
	ctl := a.books(c)
	ctx := c.Request().Context()
	if err := ctl.Load(ctx); err != nil {
		if loggedOut(ctl) {
			return toLogin(c)
		}
		return a.renderBooks(c, ctl, http.StatusBadGateway, views.BooksData{})
	}
	if err := ctl.Toggle(ctx, c.Param("id")); err != nil {
		if loggedOut(ctl) {
			return toLogin(c)
		}
		return a.renderBooks(c, ctl, http.StatusBadGateway, views.BooksData{})
	}
	return seeOther(c, booksPath)
}

// handleBookMove shows the list with one book shifted. The order is not
// persisted, so the page is rendered directly rather than redirected to, and
// each move form carries the order shown so the next move builds on it.
func (a *App) handleBookMove(c echo.Context) error {
	ctl := a.books(c)
	if err := ctl.Load(c.Request().Context()); err != nil {
		if loggedOut(ctl) {
			return toLogin(c)
		}
		return a.renderBooks(c, ctl, http.StatusBadGateway, views.BooksData{})
	}
	if params, err := c.FormParams(); err == nil {
		ctl.Arrange(params["arrangement"])
	}
	dir := controller.Up
	if c.FormValue("dir") == "down" {
		dir = controller.Down
	}
	moved := ctl.Move(c.Param("id"), dir)
	return a.renderBooks(c, ctl, http.StatusOK, views.BooksData{
		Form:      model.RecommendedBook{IsActive: true},
		Reordered: moved,
	})
}

func (a *App) handleBookConfirmDelete(c echo.Context) error {
	id := c.Param("id")
	ctl := a.books(c)
	name := id
	if book, err := ctl.Edit(c.Request().Context(), id); err == nil {
		name = book.Title
	} else if loggedOut(ctl) {
		return toLogin(c)
	}
	return Render(c, a.Views.ConfirmDelete(a.pageFor(c), views.Confirm{
		What:   "book",
		Name:   name,
		Action: booksPath + views.PathEscape(id) + "/delete/",
		Cancel: booksPath,
	}))
}

func (a *App) handleBookDelete(c echo.Context) error {
	ctl := a.books(c)
	if err := ctl.Delete(c.Request().Context(), c.Param("id"), confirmed(c)); err != nil {
		if loggedOut(ctl) {
			return toLogin(c)
		}
		return a.renderBooks(c, ctl, http.StatusBadGateway, views.BooksData{})
	}
	if confirmed(c) {
		setFlash(c, "Book deleted successfully")
	}
	return seeOther(c, booksPath)
}

func parseBookForm(c echo.Context) (model.RecommendedBook, string) {
	tags := c.FormValue("tags")
	order, _ := strconv.Atoi(c.FormValue("order"))
	return model.RecommendedBook{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Author:      strings.TrimSpace(c.FormValue("author")),
		Description: strings.TrimSpace(c.FormValue("description")),
		CoverImage:  strings.TrimSpace(c.FormValue("coverImage")),
		EbookLink:   strings.TrimSpace(c.FormValue("ebookLink")),
		BuyLink:     strings.TrimSpace(c.FormValue("buyLink")),
		Tags:        nonNil(controller.SplitList(tags)),
		IsActive:    c.FormValue("isActive") == "true",
		Order:       order,
	}, tags
}
