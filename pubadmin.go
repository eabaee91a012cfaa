// Package pubadmin is the admin console of a content API. It signs the admin
// in against the API, keeps the bearer token in a signed cookie and renders
// the forms and tables used to manage blog posts, recommended books, exam
// preps, topic summaries and the home page hero image.
//
// Page templates are provided via the ViewFuncs struct; DefaultViews wires
// the ones shipped in package views.
package pubadmin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/pubadmin/apiclient"
	"github.com/eringen/pubadmin/composer"
	"github.com/eringen/pubadmin/controller"
	"github.com/eringen/pubadmin/session"
	"github.com/eringen/pubadmin/views"
)

// ViewFuncs holds the components the handlers render.
type ViewFuncs struct {
	Login         func(p views.Page, f views.LoginForm) templ.Component
	Dashboard     func(p views.Page, d views.DashboardData) templ.Component
	BlogList      func(p views.Page, d views.BlogListData) templ.Component
	BlogEditor    func(p views.Page, f views.BlogForm) templ.Component
	BlogPreview   func(p views.Page, d views.PreviewData) templ.Component
	ConfirmDelete func(p views.Page, c views.Confirm) templ.Component
	Books         func(p views.Page, d views.BooksData) templ.Component
	ExamPreps     func(p views.Page, d views.ExamPrepData) templ.Component
	TopicSummary  func(p views.Page, f views.TopicForm) templ.Component
	NotFound      func() templ.Component
	ServerError   func() templ.Component
}

// DefaultViews returns the templates shipped with the console.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Login:         views.Login,
		Dashboard:     views.Dashboard,
		BlogList:      views.BlogList,
		BlogEditor:    views.BlogEditor,
		BlogPreview:   views.BlogPreview,
		ConfirmDelete: views.ConfirmDelete,
		Books:         views.Books,
		ExamPreps:     views.ExamPreps,
		TopicSummary:  views.TopicSummary,
		NotFound:      views.NotFound,
		ServerError:   views.ServerError,
	}
}

// App wires the API client, session cookies, handlers and templates.
type App struct {
	Config Config
	Echo   *echo.Echo
	API    *apiclient.Client
	Stats  *StatsCache
	Drafts *composer.Registry
	Views  ViewFuncs

	sessions     sessions.Store
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	now          func() time.Time
	stop         context.CancelFunc
}

// New creates an App. Routes and middleware are installed immediately so the
// App can be served by Start or used directly as an http.Handler in tests.
func New(cfg Config, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pubadmin: %w", err)
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  DefaultViews(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.setupLogging()
	a.API = apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.RequestTimeout))
	a.Stats = NewStatsCache(cfg.StatsTTL)
	a.Drafts = composer.NewRegistry(cfg.DraftTTL)
	a.loginLimiter = NewLoginLimiter(cfg.LoginAttempts, cfg.LoginWindow)
	a.sessions = a.newSessionStore()

	ctx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	go a.Drafts.Run(ctx, sweepInterval(cfg.DraftTTL))
	go a.loginLimiter.cleanup(ctx)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	if d := ttl / 4; d > time.Minute {
		return d
	}
	return time.Minute
}

func (a *App) setupLogging() {
	lvl, _ := parseLevel(a.Config.LogLevel)
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(lvl)
	for _, l := range []*log.Logger{apiclient.Logger(), session.Logger(), composer.Logger(), controller.Logger()} {
		l.SetLevel(lvl)
	}
}

// Start serves the console until the server is shut down.
func (a *App) Start() error {
	a.Echo.Logger.Infof("pubadmin listening on %s, content API %s", a.Config.Addr, a.API.BaseURL())
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	a.Close()
	return a.Echo.Shutdown(ctx)
}

// Close stops the background sweepers.
func (a *App) Close() error {
	if a.stop != nil {
		a.stop()
	}
	return nil
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.Echo.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/admin/")
	})
	e.GET("/admin/assets/*", a.handleAsset)

	e.GET("/admin/login/", a.handleLoginForm)
	e.POST("/admin/login/", a.handleLogin)
	e.POST("/admin/logout/", a.handleLogout)

	g := e.Group("/admin", a.requireSession)
	g.GET("/", a.handleDashboard)
	g.POST("/hero-image/", a.handleHeroUpload)

	g.GET("/blogs/", a.handleBlogList)
	g.GET("/blogs/new/", a.handleBlogNew)
	g.POST("/blogs/", a.handleBlogCreate)
	g.GET("/blogs/:slug/edit/", a.handleBlogEdit)
	g.POST("/blogs/:slug/", a.handleBlogUpdate)
	g.GET("/blogs/:slug/preview/", a.handleBlogPreview)
	g.GET("/blogs/:slug/delete/", a.handleBlogConfirmDelete)
	g.POST("/blogs/:slug/delete/", a.handleBlogDelete)

	g.POST("/composer/:draft/upload-file/", a.handleComposerFile)
	g.POST("/composer/:draft/upload-url/", a.handleComposerURL)
	g.POST("/composer/:draft/hero/", a.handleComposerHero)
	g.POST("/composer/:draft/unmount/", a.handleComposerUnmount)

	g.GET("/books/", a.handleBooks)
	g.POST("/books/", a.handleBookCreate)
	g.GET("/books/:id/edit/", a.handleBookEdit)
	g.POST("/books/:id/", a.handleBookUpdate)
	g.POST("/books/:id/toggle/", a.handleBookToggle)
	g.POST("/books/:id/move/", a.handleBookMove)
	g.GET("/books/:id/delete/", a.handleBookConfirmDelete)
	g.POST("/books/:id/delete/", a.handleBookDelete)

	g.GET("/exam-prep/", a.handleExamPreps)
	g.POST("/exam-prep/", a.handleExamPrepCreate)
	g.GET("/exam-prep/:id/edit/", a.handleExamPrepEdit)
	g.POST("/exam-prep/:id/", a.handleExamPrepUpdate)
	g.GET("/exam-prep/:id/delete/", a.handleExamPrepConfirmDelete)
	g.POST("/exam-prep/:id/delete/", a.handleExamPrepDelete)

	g.GET("/topic-summaries/", a.handleTopicForm)
	g.POST("/topic-summaries/", a.handleTopicCreate)
}
