package board

import (
	"time"

	"github.com/schoolmate/backend/core"
)

// Board categories.
const (
	CategoryFree    = "free"
	CategorySecret  = "secret"
	CategoryStudy   = "study"
	CategoryCareer  = "career"
	CategorySchool  = "school"
	CategoryGrade   = "grade"
	CategoryPromo   = "promo"
	CategoryCounsel = "counsel"
)

var Categories = []string{
	CategoryFree, CategorySecret, CategoryStudy, CategoryCareer,
	CategorySchool, CategoryGrade, CategoryPromo, CategoryCounsel,
}

type Post struct {
	ID         string    `json:"id"`
	AuthorID   int       `json:"-"`
	AuthorName string    `json:"author_name"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Anonymous  bool      `json:"anonymous"`
	VoteCount  int       `json:"vote_count"`
	ScrapCount int       `json:"scrap_count"`
	Comments   []Comment `json:"comments,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"-"`
	AuthorID   int       `json:"-"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	Anonymous  bool      `json:"anonymous"`
	CreatedAt  time.Time `json:"created_at"`
}

// DisplayName is the name shown on the board: anonymous posts hide the
// author behind a fixed label.
func (p Post) DisplayName() string {
	if p.Anonymous {
		return "익명"
	}
	return p.AuthorName
}

func (c Comment) DisplayName() string {
	if c.Anonymous {
		return "익명"
	}
	return c.AuthorName
}

// NewPost contains information needed to create a new post.
type NewPost struct {
	Category  string `json:"category" validate:"required,category"`
	Title     string `json:"title" validate:"required,max=120"`
	Body      string `json:"body" validate:"required"`
	Anonymous bool   `json:"anonymous"`
}

func (np *NewPost) Validate() error {
	np.Category = core.CleanString(np.Category, true /* lower */)
	np.Title = core.CleanString(np.Title)
	np.Body = core.CleanString(np.Body)
	return core.Validate.Struct(np)
}

// UpdatePost contains information needed to edit an existing post.
// Category is immutable after creation.
type UpdatePost struct {
	Title string `json:"title" validate:"required,max=120"`
	Body  string `json:"body" validate:"required"`
}

func (up *UpdatePost) Validate() error {
	up.Title = core.CleanString(up.Title)
	up.Body = core.CleanString(up.Body)
	return core.Validate.Struct(up)
}

// NewComment contains information needed to comment on a post.
type NewComment struct {
	Body      string `json:"body" validate:"required"`
	Anonymous bool   `json:"anonymous"`
}

func (nc *NewComment) Validate() error {
	nc.Body = core.CleanString(nc.Body)
	return core.Validate.Struct(nc)
}

// QueryFilter filters the post listing. AuthorID restricts to the user's
// own posts, ScrappedBy to the posts the user has scrapped.
type QueryFilter struct {
	Category   string `query:"category"`
	Search     string `query:"search"`
	AuthorID   int    `query:"-"`
	ScrappedBy int    `query:"-"`
}
