// Package model holds the records exchanged with the content API.
package model

import "time"

// Blog post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// BlogPost is a blog article as stored by the content API. It is identified
// externally by Slug.
type BlogPost struct {
	Slug             string        `json:"slug"`
	MainHeading      string        `json:"mainHeading"`
	SubHeading       string        `json:"subHeading"`
	Category         string        `json:"category"`
	Tags             []string      `json:"tags"`
	Status           string        `json:"status"`
	ReadingTime      int           `json:"readingTime"`
	Keywords         []string      `json:"keywords"`
	SummaryPoints    []string      `json:"summaryPoints"`
	Author           string        `json:"author"`
	HeroImage        string        `json:"heroImage"`
	ShortDescription string        `json:"shortDescription"`
	Citations        []string      `json:"citations"`
	Content          string        `json:"content"` // serialized block document
	ImageMetadata    ImageMetadata `json:"imageMetadata"`
	CreatedAt        time.Time     `json:"createdAt,omitzero"`
}

// Published reports whether the post is publicly visible.
func (p BlogPost) Published() bool {
	return p.Status == StatusPublished
}

// ImageMetadata summarizes the images referenced by a post. It is derived on
// submit and sent alongside the post for the backend's reference.
type ImageMetadata struct {
	HeroImageURL     *string  `json:"heroImageUrl"`
	ContentImageURLs []string `json:"contentImageUrls"`
	TotalImages      int      `json:"totalImages"`
	Issues           []string `json:"issues,omitempty"`
}

// RecommendedBook is an entry of the recommended reading list.
type RecommendedBook struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	CoverImage  string   `json:"coverImage"`
	EbookLink   string   `json:"ebookLink,omitempty"`
	BuyLink     string   `json:"buyLink,omitempty"`
	Tags        []string `json:"tags"`
	IsActive    bool     `json:"isActive"`
	Order       int      `json:"order"`
}

// ExamPrep is a downloadable exam preparation resource.
type ExamPrep struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DownloadURL string `json:"downloadUrl"`
	AnswersNote string `json:"answersNote,omitempty"`
}

// TopicSummary is a summary document upload. Tags is the comma-joined form
// sent as a multipart field.
type TopicSummary struct {
	Title       string
	Description string
	Tags        string
	File        Attachment
}

// Attachment is a file carried in a multipart request.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// HeroImage is the singleton home page hero image.
type HeroImage struct {
	ImageURL string `json:"imageUrl"`
}

// DashboardStats are the aggregate counts shown on the dashboard.
type DashboardStats struct {
	Blogs            int `json:"blogs"`
	RecommendedBooks int `json:"recommendedBooks"`
	TopicSummaries   int `json:"topicSummaries"`
	ExamPreps        int `json:"examPreps"`
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the admin's authenticated identity.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
