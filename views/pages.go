package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/pubadmin/composer"
	"github.com/eringen/pubadmin/model"
)

// LoginForm is the data of the login page.
type LoginForm struct {
	Username string
}

// Login renders the sign-in form. p.Error carries a failed attempt's message.
func Login(p Page, f LoginForm) templ.Component {
	p.Title = "Admin Login"
	return loginPage(p, f)
}

// DashboardData is the data of the dashboard.
type DashboardData struct {
	Stats      model.DashboardStats
	StatsError string
	Hero       model.HeroImage
	HeroError  string
}

func Dashboard(p Page, d DashboardData) templ.Component {
	p.Title, p.Section = "Dashboard", "dashboard"
	return dashboardPage(p, d)
}

// BlogListData is the data of the post listing.
type BlogListData struct {
	Posts     []model.BlogPost
	PublicURL string // public site root for "View" links, may be empty
}

func BlogList(p Page, d BlogListData) templ.Component {
	p.Title, p.Section = "Manage Blogs", "blogs"
	return blogListPage(p, d)
}

// BlogForm is the data of the create and edit forms. List fields hold the
// text the admin typed so a failed submit can redisplay it unchanged.
type BlogForm struct {
	Edit             bool
	OriginalSlug     string
	DraftID          string
	Slug             string
	MainHeading      string
	SubHeading       string
	Category         string
	Tags             string
	Status           string
	ReadingTime      string
	Keywords         string
	SummaryPoints    []string
	Author           string
	HeroImage        string
	ShortDescription string
	Citations        []string
	Content          string // serialized block document
	Issues           []string
}

// Action returns the URL the form posts to.
func (f BlogForm) Action() string {
	if f.Edit {
		return itemPath(blogsPath, f.OriginalSlug, "")
	}
	return blogsPath
}

func BlogEditor(p Page, f BlogForm) templ.Component {
	p.Section = "blogs"
	if f.Edit {
		p.Title = "Edit Blog"
	} else {
		p.Title = "Add Blog"
	}
	if len(f.SummaryPoints) == 0 {
		f.SummaryPoints = []string{""}
	}
	if len(f.Citations) == 0 {
		f.Citations = []string{""}
	}
	return blogEditorPage(p, f)
}

// PreviewData is the data of the read-only post preview.
type PreviewData struct {
	Post model.BlogPost
	Doc  composer.Document
}

func BlogPreview(p Page, d PreviewData) templ.Component {
	p.Title, p.Section = d.Post.MainHeading, "blogs"
	return blogPreviewPage(p, d)
}

// Confirm asks the admin to confirm a deletion.
type Confirm struct {
	What   string // "blog post", "book", ...
	Name   string
	Action string // URL the confirmation posts to
	Cancel string
}

func ConfirmDelete(p Page, c Confirm) templ.Component {
	p.Title = "Delete " + c.What
	return confirmPage(p, c)
}

// BooksData is the data of the recommended books page.
type BooksData struct {
	Books     []model.RecommendedBook
	Total     int
	Search    string
	Form      model.RecommendedBook
	FormTags  string
	Editing   bool
	Reordered bool

	// Arrangement is the unsaved order of every book id after a move.
	Arrangement []string
}

// FormAction returns the URL the book form posts to.
func (d BooksData) FormAction() string {
	if d.Editing {
		return itemPath(booksPath, d.Form.ID, "")
	}
	return booksPath
}

func Books(p Page, d BooksData) templ.Component {
	p.Title, p.Section = "Recommended Books", "books"
	return booksPage(p, d)
}

// ExamPrepData is the data of the exam prep page.
type ExamPrepData struct {
	Items     []model.ExamPrep
	Form      model.ExamPrep
	EditingID string
}

// FormAction returns the URL the exam prep form posts to.
func (d ExamPrepData) FormAction() string {
	if d.EditingID != "" {
		return itemPath(examPrepPath, d.EditingID, "")
	}
	return examPrepPath
}

func ExamPreps(p Page, d ExamPrepData) templ.Component {
	p.Title, p.Section = "Exam Prep", "exam-prep"
	return examPrepPage(p, d)
}

// TopicForm is the data of the topic summary upload form.
type TopicForm struct {
	Title       string
	Description string
	Tags        string
}

func TopicSummary(p Page, f TopicForm) templ.Component {
	p.Title, p.Section = "Add Topic Summary", "topics"
	return topicSummaryPage(p, f)
}

func NotFound() templ.Component {
	return errorPage(Page{Title: "Not Found"}, errorData{
		Code:    404,
		Heading: "Page not found",
		Text:    "The page you are looking for does not exist.",
	})
}

func ServerError() templ.Component {
	return errorPage(Page{Title: "Server Error"}, errorData{
		Code:    500,
		Heading: "Something went wrong",
		Text:    "The server could not complete the request. Please try again.",
	})
}

type errorData struct {
	Code    int
	Heading string
	Text    string
}
