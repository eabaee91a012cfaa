package controller

import (
	"context"
	"strings"

	"github.com/eringen/pubadmin/apiclient"
	"github.com/eringen/pubadmin/model"
)

// Blogs is the blog post collection, keyed by slug. Listing includes drafts.
type Blogs struct {
	API *apiclient.Client
}

func (r Blogs) List(ctx context.Context) ([]model.BlogPost, error) {
	return r.API.ListBlogs(ctx, "all")
}

func (r Blogs) Get(ctx context.Context, slug string) (model.BlogPost, error) {
	return r.API.GetBlog(ctx, slug)
}

func (r Blogs) Create(ctx context.Context, p model.BlogPost) (model.BlogPost, error) {
	return r.API.CreateBlog(ctx, p)
}

func (r Blogs) Update(ctx context.Context, slug string, p model.BlogPost) (model.BlogPost, error) {
	return r.API.UpdateBlog(ctx, slug, p)
}

func (r Blogs) Delete(ctx context.Context, slug string) error {
	return r.API.DeleteBlog(ctx, slug)
}

func (Blogs) Key(p model.BlogPost) string { return p.Slug }

// Validate checks the fields a post cannot be saved without. The content
// document is checked separately when it is extracted.
func (Blogs) Validate(p model.BlogPost) error {
	if err := requireFields(
		field{"mainHeading", "Main heading", p.MainHeading},
		field{"slug", "Slug", p.Slug},
	); err != nil {
		return err
	}
	if p.Slug != Slugify(p.Slug) {
		return Invalid("slug", "Slug may only contain lowercase letters, digits and dashes")
	}
	switch p.Status {
	case model.StatusDraft, model.StatusPublished:
	default:
		return Invalid("status", "Status must be draft or published")
	}
	return nil
}

// Books is the recommended book collection, keyed by id.
type Books struct {
	API *apiclient.Client
}

func (r Books) List(ctx context.Context) ([]model.RecommendedBook, error) {
	return r.API.ListBooks(ctx)
}

func (r Books) Create(ctx context.Context, b model.RecommendedBook) (model.RecommendedBook, error) {
	return r.API.CreateBook(ctx, b)
}

func (r Books) Update(ctx context.Context, id string, b model.RecommendedBook) (model.RecommendedBook, error) {
	return r.API.UpdateBook(ctx, id, b)
}

func (r Books) Delete(ctx context.Context, id string) error {
	return r.API.DeleteBook(ctx, id)
}

func (Books) Key(b model.RecommendedBook) string { return b.ID }

func (Books) Validate(b model.RecommendedBook) error {
	for _, v := range []string{b.Title, b.Author, b.Description, b.CoverImage} {
		if strings.TrimSpace(v) == "" {
			return Invalid("", "Please fill all required fields.")
		}
	}
	return nil
}

// ExamPreps is the exam prep collection, keyed by id.
type ExamPreps struct {
	API *apiclient.Client
}

func (r ExamPreps) List(ctx context.Context) ([]model.ExamPrep, error) {
	return r.API.ListExamPreps(ctx)
}

func (r ExamPreps) Create(ctx context.Context, e model.ExamPrep) (model.ExamPrep, error) {
	return r.API.CreateExamPrep(ctx, e)
}

func (r ExamPreps) Update(ctx context.Context, id string, e model.ExamPrep) (model.ExamPrep, error) {
	return r.API.UpdateExamPrep(ctx, id, e)
}

func (r ExamPreps) Delete(ctx context.Context, id string) error {
	return r.API.DeleteExamPrep(ctx, id)
}

func (ExamPreps) Key(e model.ExamPrep) string { return e.ID }

func (ExamPreps) Validate(e model.ExamPrep) error {
	return requireFields(
		field{"name", "Name", e.Name},
		field{"description", "Description", e.Description},
		field{"downloadUrl", "Download URL", e.DownloadURL},
	)
}
