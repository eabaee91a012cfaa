package pubadmin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/apiclient"
	"github.com/eringen/pubadmin/composer"
	"github.com/eringen/pubadmin/controller"
	"github.com/eringen/pubadmin/model"
	"github.com/eringen/pubadmin/views"
)

const blogsPath = "/admin/blogs/"

func (a *App) blogs(c echo.Context) *controller.Controller[model.BlogPost, string] {
	ctl := controller.New[model.BlogPost, string](controller.Blogs{API: a.client(c)})
	ctl.OnMutate = a.Stats.Invalidate
	return ctl
}

func (a *App) handleBlogList(c echo.Context) error {
	ctl := a.blogs(c)
	code := http.StatusOK
	if err := ctl.Load(c.Request().Context()); err != nil {
		if loggedOut(ctl) {
			return toLogin(c)
		}
		code = http.StatusBadGateway
	}
	return RenderStatus(c, code, a.Views.BlogList(a.pageWithError(c, ctl.Message()), views.BlogListData{
		Posts:     ctl.Items(),
		PublicURL: a.Config.PublicURL,
	}))
}

func (a *App) handleBlogNew(c echo.Context) error {
	draft, err := a.Drafts.Mount("")
	if err != nil {
		return err
	}
	return Render(c, a.Views.BlogEditor(a.pageFor(c), views.BlogForm{
		DraftID: draft.ID,
		Status:  model.StatusDraft,
	}))
}

func (a *App) handleBlogEdit(c echo.Context) error {
	slug := c.Param("slug")
	ctl := a.blogs(c)
	post, err := ctl.Edit(c.Request().Context(), slug)
	if err != nil {
		return a.blogLoadFailed(c, ctl, err)
	}
	draft, err := a.Drafts.Mount("")
	if err != nil {
		return err
	}
	f := blogFormFromPost(post)
	f.Edit = true
	f.OriginalSlug = slug
	f.DraftID = draft.ID
	return Render(c, a.Views.BlogEditor(a.pageFor(c), f))
}

func (a *App) handleBlogCreate(c echo.Context) error {
	return a.submitBlog(c, "")
}

func (a *App) handleBlogUpdate(c echo.Context) error {
	return a.submitBlog(c, c.Param("slug"))
}

// submitBlog creates a post, or updates the post at originalSlug when it is
// set. Nothing is sent while an upload of the form's draft is unsettled or
// a required field is missing.
func (a *App) submitBlog(c echo.Context, originalSlug string) error {
	f, err := parseBlogForm(c)
	if err != nil {
		return err
	}
	f.Edit = originalSlug != ""
	f.OriginalSlug = originalSlug
	post := f.post()

	ctl := a.blogs(c)
	fail := func(err error) error {
		ctl.Fail(err)
		if loggedOut(ctl) {
			return toLogin(c)
		}
		code := http.StatusUnprocessableEntity
		var ve *controller.ValidationError
		if !errors.As(err, &ve) && !errors.Is(err, composer.ErrNoContent) && !errors.Is(err, composer.ErrUploadsInProgress) {
			code = http.StatusBadGateway
		}
		return RenderStatus(c, code, a.Views.BlogEditor(a.pageWithError(c, ctl.Message()), f.BlogForm))
	}

	draft, derr := a.Drafts.Get(f.DraftID)
	if derr == nil {
		if err := draft.CheckSubmit(); err != nil {
			return fail(err)
		}
	}
	if err := (controller.Blogs{}).Validate(post); err != nil {
		return fail(err)
	}
	doc, err := composer.Extract(f.Content)
	if err != nil {
		return fail(err)
	}
	scan := composer.ScanImages(doc, a.Config.AssetHost)
	f.Issues = scan.Issues
	post.ImageMetadata = composer.Metadata(post.HeroImage, scan)
	if post.ReadingTime == 0 {
		post.ReadingTime = controller.ReadingTime(composer.PlainText(doc))
	}
	for _, issue := range scan.Issues {
		c.Logger().Warnf("blog %s: %s", post.Slug, issue)
	}

	ctx := c.Request().Context()
	if f.Edit {
		err = ctl.Update(ctx, originalSlug, post)
	} else {
		err = ctl.Create(ctx, post)
	}
	if loggedOut(ctl) {
		return toLogin(c)
	}
	if !saved(ctl, err) {
		return fail(err)
	}
	if derr == nil {
		a.Drafts.Unmount(draft.ID)
	}
	if f.Edit {
		setFlash(c, "Blog updated successfully")
	} else {
		setFlash(c, "Blog created successfully")
	}
	return seeOther(c, blogsPath)
}

func (a *App) handleBlogPreview(c echo.Context) error {
	ctl := a.blogs(c)
	post, err := ctl.Edit(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return a.blogLoadFailed(c, ctl, err)
	}
	doc, err := composer.Extract(post.Content)
	if err != nil {
		c.Logger().Warnf("preview %s: %v", post.Slug, err)
	}
	return Render(c, a.Views.BlogPreview(a.pageFor(c), views.PreviewData{Post: post, Doc: doc}))
}

func (a *App) handleBlogConfirmDelete(c echo.Context) error {
	slug := c.Param("slug")
	return Render(c, a.Views.ConfirmDelete(a.pageFor(c), views.Confirm{
		What:   "blog post",
		Name:   slug,
		Action: blogsPath + views.PathEscape(slug) + "/delete/",
		Cancel: blogsPath,
	}))
}

func (a *App) handleBlogDelete(c echo.Context) error {
	ctl := a.blogs(c)
	if !confirmed(c) {
		return seeOther(c, blogsPath)
	}
	if err := ctl.Delete(c.Request().Context(), c.Param("slug"), true); err != nil {
		if loggedOut(ctl) {
			return toLogin(c)
		}
		return a.blogListWithError(c, ctl.Message())
	}
	setFlash(c, "Blog deleted successfully")
	return seeOther(c, blogsPath)
}

// blogLoadFailed answers a request for a single post that could not be
// fetched.
func (a *App) blogLoadFailed(c echo.Context, ctl *controller.Controller[model.BlogPost, string], err error) error {
	if loggedOut(ctl) {
		return toLogin(c)
	}
	var apiErr *apiclient.APIError
	if errors.Is(err, controller.ErrNotFound) || (errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	return a.blogListWithError(c, controller.Message(err))
}

// blogListWithError shows the listing with msg. The listing is refetched so
// the admin sees the current state.
func (a *App) blogListWithError(c echo.Context, msg string) error {
	ctl := a.blogs(c)
	if err := ctl.Load(c.Request().Context()); err != nil && loggedOut(ctl) {
		return toLogin(c)
	}
	return RenderStatus(c, http.StatusBadGateway, a.Views.BlogList(a.pageWithError(c, msg), views.BlogListData{
		Posts:     ctl.Items(),
		PublicURL: a.Config.PublicURL,
	}))
}

// blogForm wraps the view's form data with the conversion to a post.
type blogForm struct {
	views.BlogForm
}

func parseBlogForm(c echo.Context) (blogForm, error) {
	params, err := c.FormParams()
	if err != nil {
		return blogForm{}, echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	f := views.BlogForm{
		DraftID:          params.Get("draft_id"),
		Slug:             strings.TrimSpace(params.Get("slug")),
		MainHeading:      strings.TrimSpace(params.Get("mainHeading")),
		SubHeading:       strings.TrimSpace(params.Get("subHeading")),
		Category:         strings.TrimSpace(params.Get("category")),
		Tags:             params.Get("tags"),
		Status:           params.Get("status"),
		ReadingTime:      strings.TrimSpace(params.Get("readingTime")),
		Keywords:         params.Get("keywords"),
		SummaryPoints:    params["summaryPoints"],
		Author:           strings.TrimSpace(params.Get("author")),
		HeroImage:        strings.TrimSpace(params.Get("heroImage")),
		ShortDescription: strings.TrimSpace(params.Get("shortDescription")),
		Citations:        params["citations"],
		Content:          params.Get("content"),
	}
	if f.Status == "" {
		f.Status = model.StatusDraft
	}
	return blogForm{f}, nil
}

func (f blogForm) post() model.BlogPost {
	minutes, _ := strconv.Atoi(f.ReadingTime)
	if minutes < 0 {
		minutes = 0
	}
	return model.BlogPost{
		Slug:             f.Slug,
		MainHeading:      f.MainHeading,
		SubHeading:       f.SubHeading,
		Category:         f.Category,
		Tags:             nonNil(controller.SplitList(f.Tags)),
		Status:           f.Status,
		ReadingTime:      minutes,
		Keywords:         nonNil(controller.SplitList(f.Keywords)),
		SummaryPoints:    summaryPoints(f.SummaryPoints),
		Author:           f.Author,
		HeroImage:        f.HeroImage,
		ShortDescription: f.ShortDescription,
		Citations:        nonNil(trimmed(f.Citations)),
		Content:          f.Content,
	}
}

func blogFormFromPost(p model.BlogPost) views.BlogForm {
	rt := ""
	if p.ReadingTime > 0 {
		rt = strconv.Itoa(p.ReadingTime)
	}
	return views.BlogForm{
		Slug:             p.Slug,
		MainHeading:      p.MainHeading,
		SubHeading:       p.SubHeading,
		Category:         p.Category,
		Tags:             controller.JoinList(p.Tags),
		Status:           p.Status,
		ReadingTime:      rt,
		Keywords:         controller.JoinList(p.Keywords),
		SummaryPoints:    p.SummaryPoints,
		Author:           p.Author,
		HeroImage:        p.HeroImage,
		ShortDescription: p.ShortDescription,
		Citations:        p.Citations,
		Content:          p.Content,
	}
}

// trimmed drops blank entries of a repeated form field.
func trimmed(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// summaryPoints keeps the non-blank points, or a single empty point when
// none were filled in.
func summaryPoints(vals []string) []string {
	if out := trimmed(vals); len(out) > 0 {
		return out
	}
	return []string{""}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
