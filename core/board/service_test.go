package board_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolmate/backend/core/board"
	inmemdb "github.com/schoolmate/backend/storage/database/inmem"
)

func newSvc(t *testing.T) board.Service {
	t.Helper()
	db, err := inmemdb.Open()
	require.NoError(t, err)
	return board.NewService(inmemdb.NewBoardRepository(db))
}

func TestCreateAndGetPost(t *testing.T) {
	svc := newSvc(t)

	post, err := svc.CreatePost(1, "김철수", board.NewPost{
		Category: "Free", // cleaned to lower case
		Title:    "  첫 글  ",
		Body:     "안녕하세요",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, board.CategoryFree, post.Category)
	assert.Equal(t, "첫 글", post.Title)
	assert.Equal(t, "김철수", post.DisplayName())

	got, err := svc.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Empty(t, got.Comments)
	assert.Zero(t, got.VoteCount)
}

func TestCreatePostValidation(t *testing.T) {
	svc := newSvc(t)

	tests := []struct {
		name string
		np   board.NewPost
	}{
		{"empty title", board.NewPost{Category: board.CategoryFree, Body: "b"}},
		{"empty body", board.NewPost{Category: board.CategoryFree, Title: "t"}},
		{"unknown category", board.NewPost{Category: "nope", Title: "t", Body: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(1, "u", tt.np)
			assert.Error(t, err)
		})
	}
}

func TestAnonymousPostHidesAuthor(t *testing.T) {
	svc := newSvc(t)

	post, err := svc.CreatePost(1, "김철수", board.NewPost{
		Category: board.CategorySecret, Title: "t", Body: "b", Anonymous: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "익명", post.AuthorName)

	comment, err := svc.CreateComment(2, "이영희", post.ID, board.NewComment{Body: "c", Anonymous: true})
	require.NoError(t, err)
	assert.Equal(t, "익명", comment.AuthorName)

	// the real names never leave the service
	got, err := svc.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "익명", got.AuthorName)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "익명", got.Comments[0].AuthorName)
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	svc := newSvc(t)

	post, err := svc.CreatePost(1, "u", board.NewPost{Category: board.CategoryFree, Title: "t", Body: "b"})
	require.NoError(t, err)

	_, err = svc.UpdatePost(2, post.ID, board.UpdatePost{Title: "hacked", Body: "b"})
	assert.Equal(t, board.ErrNotOwner, errors.Cause(err))

	updated, err := svc.UpdatePost(1, post.ID, board.UpdatePost{Title: "edited", Body: "b2"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)
	assert.False(t, updated.UpdatedAt.IsZero())
}

func TestDeletePost(t *testing.T) {
	svc := newSvc(t)

	post, err := svc.CreatePost(1, "u", board.NewPost{Category: board.CategoryFree, Title: "t", Body: "b"})
	require.NoError(t, err)

	assert.Equal(t, board.ErrNotOwner, errors.Cause(svc.DeletePost(2, false, post.ID)))
	assert.NoError(t, svc.DeletePost(2, true, post.ID)) // admin may delete any post

	_, err = svc.GetPost(post.ID)
	assert.Equal(t, board.ErrPostNotFound, errors.Cause(err))
}

func TestQueryPostsFilter(t *testing.T) {
	svc := newSvc(t)

	_, err := svc.CreatePost(1, "u", board.NewPost{Category: board.CategoryFree, Title: "수학 질문", Body: "b"})
	require.NoError(t, err)
	_, err = svc.CreatePost(1, "u", board.NewPost{Category: board.CategoryStudy, Title: "스터디 모집", Body: "b"})
	require.NoError(t, err)

	posts, err := svc.QueryPosts(board.QueryFilter{Category: board.CategoryStudy})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "스터디 모집", posts[0].Title)

	posts, err = svc.QueryPosts(board.QueryFilter{Search: "수학"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "수학 질문", posts[0].Title)
}

func TestComments(t *testing.T) {
	svc := newSvc(t)

	post, err := svc.CreatePost(1, "u", board.NewPost{Category: board.CategoryFree, Title: "t", Body: "b"})
	require.NoError(t, err)

	comment, err := svc.CreateComment(2, "이영희", post.ID, board.NewComment{Body: "첫 댓글"})
	require.NoError(t, err)
	assert.Equal(t, "이영희", comment.DisplayName())

	_, err = svc.CreateComment(2, "이영희", "missing", board.NewComment{Body: "x"})
	assert.Equal(t, board.ErrPostNotFound, errors.Cause(err))

	got, err := svc.GetPost(post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "첫 댓글", got.Comments[0].Body)

	assert.Equal(t, board.ErrNotOwner, errors.Cause(svc.DeleteComment(1, false, comment.ID)))
	assert.NoError(t, svc.DeleteComment(2, false, comment.ID))

	got, err = svc.GetPost(post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)
}

func TestToggleVote(t *testing.T) {
	svc := newSvc(t)

	post, err := svc.CreatePost(1, "u", board.NewPost{Category: board.CategoryFree, Title: "t", Body: "b"})
	require.NoError(t, err)

	voted, count, err := svc.ToggleVote(2, post.ID)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, 1, count)

	// a second user's vote stacks; the same user's vote toggles off
	_, count, err = svc.ToggleVote(3, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	voted, count, err = svc.ToggleVote(2, post.ID)
	require.NoError(t, err)
	assert.False(t, voted)
	assert.Equal(t, 1, count)
}

func TestToggleScrapAndScrappedFilter(t *testing.T) {
	svc := newSvc(t)

	post, err := svc.CreatePost(1, "u", board.NewPost{Category: board.CategoryFree, Title: "t", Body: "b"})
	require.NoError(t, err)

	scrapped, count, err := svc.ToggleScrap(2, post.ID)
	require.NoError(t, err)
	assert.True(t, scrapped)
	assert.Equal(t, 1, count)

	posts, err := svc.QueryPosts(board.QueryFilter{ScrappedBy: 2})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	posts, err = svc.QueryPosts(board.QueryFilter{ScrappedBy: 3})
	require.NoError(t, err)
	assert.Empty(t, posts)

	scrapped, _, err = svc.ToggleScrap(2, post.ID)
	require.NoError(t, err)
	assert.False(t, scrapped)
}
