package pubadmin

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/pubadmin/controller"
	"github.com/eringen/pubadmin/imaging"
	"github.com/eringen/pubadmin/model"
	"github.com/eringen/pubadmin/views"
)

// handleDashboard shows the counts and the hero image. Both are fetched
// concurrently; one failing does not hide the other.
func (a *App) handleDashboard(c echo.Context) error {
	api := a.client(c)
	var (
		stats controller.Single[model.DashboardStats]
		hero  controller.Single[model.HeroImage]
	)
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		_ = stats.Load(ctx, func(ctx context.Context) (model.DashboardStats, error) {
			return a.Stats.Get(ctx, api.Stats)
		})
		return nil
	})
	g.Go(func() error {
		_ = hero.Load(ctx, api.GetHeroImage)
		return nil
	})
	_ = g.Wait()

	if stats.NeedsLogin() || hero.NeedsLogin() {
		return toLogin(c)
	}
	return Render(c, a.Views.Dashboard(a.pageFor(c), views.DashboardData{
		Stats:      stats.Value(),
		StatsError: stats.Message(),
		Hero:       hero.Value(),
		HeroError:  hero.Message(),
	}))
}

// handleHeroUpload replaces the home page hero image. The image is
// compressed first when that makes it smaller.
func (a *App) handleHeroUpload(c echo.Context) error {
	var hero controller.Single[model.HeroImage]
	file, err := readUpload(c, "image", a.Config.MaxUploadSize)
	switch {
	case errors.Is(err, errFileTooLarge):
		hero.Fail(controller.Invalid("image", "Image is too large"))
	case err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	case len(file.Data) == 0:
		hero.Fail(controller.Invalid("image", "Please select an image to upload"))
	}
	if hero.Message() != "" {
		setFlashError(c, hero.Message())
		return seeOther(c, "/admin/")
	}

	if res, err := imaging.Compress(file.Data, file.Name, imaging.Options{}); err == nil && len(res.Data) < len(file.Data) {
		file = model.Attachment{Name: res.Name, ContentType: res.ContentType, Data: res.Data}
	} else if err != nil {
		c.Logger().Warnf("hero compress %s: %v", file.Name, err)
	}
	if file.ContentType == "" {
		file.ContentType = http.DetectContentType(file.Data)
	}

	api := a.client(c)
	err = hero.Submit(c.Request().Context(), func(ctx context.Context) (model.HeroImage, error) {
		return api.ReplaceHeroImage(ctx, file)
	})
	if hero.NeedsLogin() {
		return toLogin(c)
	}
	if err != nil {
		setFlashError(c, "Hero image update failed: "+hero.Message())
	} else {
		setFlash(c, "Hero image updated successfully")
	}
	return seeOther(c, "/admin/")
}
