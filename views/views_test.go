package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/pubadmin/composer"
	"github.com/eringen/pubadmin/model"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func mustDoc(t *testing.T, raw string) composer.Document {
	t.Helper()
	doc, err := composer.Extract(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return doc
}

func TestEveryPageRenders(t *testing.T) {
	p := Page{Username: "admin", CSRF: "tok123"}
	post := model.BlogPost{
		Slug: "hello", MainHeading: "Hello", Status: model.StatusPublished,
		CreatedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	pages := map[string]templ.Component{
		"login":     Login(Page{CSRF: "tok123", Error: "invalid credentials"}, LoginForm{Username: "admin"}),
		"dashboard": Dashboard(p, DashboardData{Stats: model.DashboardStats{Blogs: 4}, Hero: model.HeroImage{ImageURL: "https://res.cloudinary.com/h.jpg"}}),
		"blogs":     BlogList(p, BlogListData{Posts: []model.BlogPost{post}, PublicURL: "https://example.com"}),
		"new blog":  BlogEditor(p, BlogForm{DraftID: "d1", Status: model.StatusDraft}),
		"edit blog": BlogEditor(p, BlogForm{Edit: true, OriginalSlug: "hello", Slug: "hello", Issues: []string{"Block 1: Image block missing URL"}}),
		"preview":   BlogPreview(p, PreviewData{Post: post, Doc: mustDoc(t, `{"blocks":[{"type":"paragraph","data":{"text":"body"}}]}`)}),
		"confirm":   ConfirmDelete(p, Confirm{What: "book", Name: "Go", Action: "/admin/books/1/delete/", Cancel: "/admin/books/"}),
		"books":     Books(p, BooksData{Books: []model.RecommendedBook{{ID: "1", Title: "Go", Tags: []string{"lang"}, IsActive: true}}, Total: 1, Reordered: true}),
		"exam prep": ExamPreps(p, ExamPrepData{Items: []model.ExamPrep{{ID: "e1", Name: "Mock", DownloadURL: "https://x/y.pdf"}}}),
		"topics":    TopicSummary(p, TopicForm{Title: "Cells"}),
		"404":       NotFound(),
		"500":       ServerError(),
	}
	for name, c := range pages {
		out := render(t, c)
		if !strings.Contains(out, "</html>") {
			t.Errorf("%s: incomplete document", name)
		}
	}
}

func TestLoginShowsErrorAndCSRF(t *testing.T) {
	out := render(t, Login(Page{CSRF: "tok123", Error: "invalid credentials"}, LoginForm{Username: "root"}))
	for _, want := range []string{"invalid credentials", `value="tok123"`, `value="root"`} {
		if !strings.Contains(out, want) {
			t.Errorf("login page missing %q", want)
		}
	}
}

func TestBlogListLinks(t *testing.T) {
	out := render(t, BlogList(Page{}, BlogListData{
		Posts:     []model.BlogPost{{Slug: "a b", MainHeading: "A", Status: model.StatusDraft}},
		PublicURL: "https://example.com/",
	}))
	if !strings.Contains(out, "/admin/blogs/a%20b/edit/") {
		t.Errorf("edit link not escaped: %s", out)
	}
	if !strings.Contains(out, "https://example.com/blog/a%20b/") {
		t.Errorf("missing public link")
	}
	if !strings.Contains(out, "badge-draft") {
		t.Errorf("missing status badge")
	}
}

func TestBlocksRendering(t *testing.T) {
	doc := mustDoc(t, `{"blocks":[
		{"type":"header","data":{"text":"Intro","level":2}},
		{"type":"paragraph","data":{"text":"Some <b>bold</b> and <a href=\"https://go.dev\">link</a><script>x</script>"}},
		{"type":"list","data":{"style":"ordered","items":["one","two"]}},
		{"type":"image","data":{"file":{"url":"https://res.cloudinary.com/a.jpg"},"caption":"Cap"}},
		{"type":"image","data":{"file":{"url":"javascript:alert(1)"}}},
		{"type":"quote","data":{"text":"Q","caption":"Who"}},
		{"type":"table","data":{"withHeadings":true,"content":[["h1","h2"],["a","b"]]}}
	]}`)
	out := string(blocksHTML(doc))
	for _, want := range []string{
		"<h2>Intro</h2>",
		"<b>bold</b>",
		`<a href="https://go.dev" target="_blank" rel="noopener noreferrer">link</a>`,
		"&lt;script&gt;",
		"<ol><li>one</li><li>two</li></ol>",
		`src="https://res.cloudinary.com/a.jpg"`,
		"<figcaption>Cap</figcaption>",
		"<blockquote><p>Q</p><cite>Who</cite></blockquote>",
		"<thead><tr><th>h1</th><th>h2</th></tr></thead>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
	if strings.Contains(out, "javascript:") {
		t.Errorf("unsafe image url rendered")
	}
}

func TestFormatInlineDropsUnsafeLinks(t *testing.T) {
	got := formatInline(`<a href="javascript:alert(1)">x</a>`)
	if got != "<a>x</a>" {
		t.Errorf("formatInline = %q", got)
	}
}

func TestBlogFormKeepsValues(t *testing.T) {
	out := render(t, BlogEditor(Page{}, BlogForm{
		MainHeading:   "Draft <title>",
		SummaryPoints: []string{"first", "second"},
		Content:       `{"blocks":[]}`,
	}))
	if !strings.Contains(out, "Draft &lt;title&gt;") {
		t.Errorf("heading not escaped")
	}
	if n := strings.Count(out, `<input type="text" name="summaryPoints"`); n != 2 {
		t.Errorf("expected two summary point inputs, got %d", n)
	}
	if !strings.Contains(out, "Create Blog") {
		t.Errorf("expected create button")
	}
}

func TestBlogFormStartsWithOneSummaryPoint(t *testing.T) {
	out := render(t, BlogEditor(Page{}, BlogForm{}))
	if n := strings.Count(out, `<input type="text" name="summaryPoints"`); n != 1 {
		t.Errorf("expected one blank summary point input, got %d", n)
	}
}

func TestExamPrepDownloadLinkSanitized(t *testing.T) {
	out := render(t, ExamPreps(Page{}, ExamPrepData{Items: []model.ExamPrep{
		{ID: "e1", Name: "Mock", DownloadURL: "javascript:alert(1)"},
		{ID: "e2", Name: "Final", DownloadURL: "https://cdn.example.com/final.pdf"},
	}}))
	if strings.Contains(out, "javascript:") {
		t.Errorf("unsafe download url rendered")
	}
	if !strings.Contains(out, `href="https://cdn.example.com/final.pdf"`) {
		t.Errorf("missing download link")
	}
}

func TestBlogEditorSelectsStatus(t *testing.T) {
	out := render(t, BlogEditor(Page{}, BlogForm{Status: model.StatusPublished}))
	if !strings.Contains(out, `<option value="published" selected>`) {
		t.Errorf("published option not selected")
	}
	if strings.Contains(out, `<option value="draft" selected>`) {
		t.Errorf("draft option selected")
	}
}

func TestPreviewSkipsBlankSummaryPoints(t *testing.T) {
	post := model.BlogPost{Slug: "s", MainHeading: "S", Status: model.StatusDraft, SummaryPoints: []string{""}}
	out := render(t, BlogPreview(Page{}, PreviewData{Post: post, Doc: mustDoc(t, `{"blocks":[{"type":"paragraph","data":{"text":"body"}}]}`)}))
	if strings.Contains(out, `class="summary"`) {
		t.Errorf("blank summary points rendered a list")
	}
	if !strings.Contains(out, "<p>body</p>") {
		t.Errorf("missing block content")
	}
}

func TestBookRowsCarryArrangement(t *testing.T) {
	out := render(t, Books(Page{CSRF: "tok"}, BooksData{
		Books:       []model.RecommendedBook{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}},
		Total:       2,
		Reordered:   true,
		Arrangement: []string{"b", "a"},
	}))
	if n := strings.Count(out, `name="arrangement" value="b"`); n != 2 {
		t.Errorf("expected the arrangement in both move forms, got %d", n)
	}
	if !strings.Contains(out, `action="/admin/books/a/move/"`) {
		t.Errorf("missing move form action")
	}
	if !strings.Contains(out, "Showing 2 of 2 books.") {
		t.Errorf("missing book count")
	}
}
