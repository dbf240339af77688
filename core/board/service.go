package board

import (
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrPostNotFound    = stderrors.New("post not found")
	ErrCommentNotFound = stderrors.New("comment not found")
	ErrNotOwner        = stderrors.New("not the author")
)

type (
	Repository interface {
		CreatePost(post Post) error
		GetPost(id string) (Post, error)
		QueryPosts(filter QueryFilter) ([]Post, error)
		UpdatePost(post Post) error
		DeletePost(id string) error

		CreateComment(comment Comment) error
		GetComment(id string) (Comment, error)
		QueryComments(postID string) ([]Comment, error)
		DeleteComment(id string) error

		HasVote(userID int, postID string) (bool, error)
		SetVote(userID int, postID string) error
		DeleteVote(userID int, postID string) error
		CountVotes(postID string) (int, error)

		HasScrap(userID int, postID string) (bool, error)
		SetScrap(userID int, postID string) error
		DeleteScrap(userID int, postID string) error
		CountScraps(postID string) (int, error)
	}

	Service interface {
		CreatePost(authorID int, authorName string, np NewPost) (Post, error)
		GetPost(id string) (Post, error)
		QueryPosts(filter QueryFilter) ([]Post, error)
		UpdatePost(authorID int, id string, up UpdatePost) (Post, error)
		DeletePost(authorID int, isAdmin bool, id string) error

		CreateComment(authorID int, authorName, postID string, nc NewComment) (Comment, error)
		DeleteComment(authorID int, isAdmin bool, id string) error

		ToggleVote(userID int, postID string) (voted bool, count int, err error)
		ToggleScrap(userID int, postID string) (scrapped bool, count int, err error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CreatePost(authorID int, authorName string, np NewPost) (Post, error) {
	if err := np.Validate(); err != nil {
		return Post{}, err
	}
	post := Post{
		ID:         uuid.New().String(),
		AuthorID:   authorID,
		AuthorName: authorName,
		Category:   np.Category,
		Title:      np.Title,
		Body:       np.Body,
		Anonymous:  np.Anonymous,
		CreatedAt:  time.Now().UTC(),
	}
	if err := svc.repo.CreatePost(post); err != nil {
		return Post{}, errors.Wrap(err, "creating post")
	}
	post.AuthorName = post.DisplayName()
	return post, nil
}

// GetPost returns the post with its comments and current vote/scrap counts.
func (svc *service) GetPost(id string) (Post, error) {
	post, err := svc.repo.GetPost(id)
	if err != nil {
		return Post{}, err
	}
	return svc.decorate(post)
}

func (svc *service) QueryPosts(filter QueryFilter) ([]Post, error) {
	posts, err := svc.repo.QueryPosts(filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	for i, post := range posts {
		if posts[i], err = svc.decorate(post); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (svc *service) UpdatePost(authorID int, id string, up UpdatePost) (Post, error) {
	if err := up.Validate(); err != nil {
		return Post{}, err
	}
	post, err := svc.repo.GetPost(id)
	if err != nil {
		return Post{}, err
	}
	if post.AuthorID != authorID {
		return Post{}, ErrNotOwner
	}

	post.Title = up.Title
	post.Body = up.Body
	post.UpdatedAt = time.Now().UTC()
	if err := svc.repo.UpdatePost(post); err != nil {
		return Post{}, errors.Wrap(err, "updating post")
	}
	return svc.decorate(post)
}

// DeletePost removes the post. Admins may delete any post, authors only
// their own.
func (svc *service) DeletePost(authorID int, isAdmin bool, id string) error {
	post, err := svc.repo.GetPost(id)
	if err != nil {
		return err
	}
	if !isAdmin && post.AuthorID != authorID {
		return ErrNotOwner
	}
	return svc.repo.DeletePost(id)
}

func (svc *service) CreateComment(authorID int, authorName, postID string, nc NewComment) (Comment, error) {
	if err := nc.Validate(); err != nil {
		return Comment{}, err
	}
	if _, err := svc.repo.GetPost(postID); err != nil {
		return Comment{}, err
	}
	comment := Comment{
		ID:         uuid.New().String(),
		PostID:     postID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Body:       nc.Body,
		Anonymous:  nc.Anonymous,
		CreatedAt:  time.Now().UTC(),
	}
	if err := svc.repo.CreateComment(comment); err != nil {
		return Comment{}, errors.Wrap(err, "creating comment")
	}
	comment.AuthorName = comment.DisplayName()
	return comment, nil
}

func (svc *service) DeleteComment(authorID int, isAdmin bool, id string) error {
	comment, err := svc.repo.GetComment(id)
	if err != nil {
		return err
	}
	if !isAdmin && comment.AuthorID != authorID {
		return ErrNotOwner
	}
	return svc.repo.DeleteComment(id)
}

// ToggleVote flips the user's vote on the post and returns the new state
// and count. At most one vote per (user, post).
func (svc *service) ToggleVote(userID int, postID string) (bool, int, error) {
	if _, err := svc.repo.GetPost(postID); err != nil {
		return false, 0, err
	}
	has, err := svc.repo.HasVote(userID, postID)
	if err != nil {
		return false, 0, err
	}
	if has {
		err = svc.repo.DeleteVote(userID, postID)
	} else {
		err = svc.repo.SetVote(userID, postID)
	}
	if err != nil {
		return false, 0, errors.Wrap(err, "toggling vote")
	}
	count, err := svc.repo.CountVotes(postID)
	return !has, count, err
}

func (svc *service) ToggleScrap(userID int, postID string) (bool, int, error) {
	if _, err := svc.repo.GetPost(postID); err != nil {
		return false, 0, err
	}
	has, err := svc.repo.HasScrap(userID, postID)
	if err != nil {
		return false, 0, err
	}
	if has {
		err = svc.repo.DeleteScrap(userID, postID)
	} else {
		err = svc.repo.SetScrap(userID, postID)
	}
	if err != nil {
		return false, 0, errors.Wrap(err, "toggling scrap")
	}
	count, err := svc.repo.CountScraps(postID)
	return !has, count, err
}

// decorate completes an outgoing post: comments, vote/scrap counts, and the
// anonymous-author mask. The stored record keeps the real name.
func (svc *service) decorate(post Post) (Post, error) {
	comments, err := svc.repo.QueryComments(post.ID)
	if err != nil {
		return Post{}, err
	}
	post.Comments = comments
	if post.VoteCount, err = svc.repo.CountVotes(post.ID); err != nil {
		return Post{}, err
	}
	if post.ScrapCount, err = svc.repo.CountScraps(post.ID); err != nil {
		return Post{}, err
	}
	post.AuthorName = post.DisplayName()
	for i := range post.Comments {
		post.Comments[i].AuthorName = post.Comments[i].DisplayName()
	}
	return post, nil
}
