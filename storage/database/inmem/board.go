package inmemdb

import (
	"sort"
	"strings"

	"github.com/schoolmate/backend/core/board"
)

type boardRepository struct {
	db *boardTable
}

var _ board.Repository = (*boardRepository)(nil) // interface compliance check

func NewBoardRepository(db *DB) board.Repository {
	return &boardRepository{db: db.board}
}

func (repo *boardRepository) CreatePost(post board.Post) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.posts[post.ID] = &post
	return nil
}

func (repo *boardRepository) GetPost(id string) (board.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.posts[id]; ok {
		return *p, nil
	}
	return board.Post{}, board.ErrPostNotFound
}

func (repo *boardRepository) QueryPosts(filter board.QueryFilter) ([]board.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	posts := make([]board.Post, 0)
	for _, p := range repo.db.posts {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.AuthorID != 0 && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.ScrappedBy != 0 {
			if _, ok := repo.db.scraps[voteKey{filter.ScrappedBy, p.ID}]; !ok {
				continue
			}
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Title), s) &&
				!strings.Contains(strings.ToLower(p.Body), s) {
				continue
			}
		}
		posts = append(posts, *p)
	}
	// newest first
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (repo *boardRepository) UpdatePost(post board.Post) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.posts[post.ID]; !ok {
		return board.ErrPostNotFound
	}
	repo.db.posts[post.ID] = &post
	return nil
}

func (repo *boardRepository) DeletePost(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.posts, id)
	for cid, c := range repo.db.comments {
		if c.PostID == id {
			delete(repo.db.comments, cid)
		}
	}
	for k := range repo.db.votes {
		if k.postID == id {
			delete(repo.db.votes, k)
		}
	}
	for k := range repo.db.scraps {
		if k.postID == id {
			delete(repo.db.scraps, k)
		}
	}
	return nil
}

func (repo *boardRepository) CreateComment(comment board.Comment) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.comments[comment.ID] = &comment
	return nil
}

func (repo *boardRepository) GetComment(id string) (board.Comment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.comments[id]; ok {
		return *c, nil
	}
	return board.Comment{}, board.ErrCommentNotFound
}

func (repo *boardRepository) QueryComments(postID string) ([]board.Comment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	comments := make([]board.Comment, 0)
	for _, c := range repo.db.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	// oldest first
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (repo *boardRepository) DeleteComment(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.comments, id)
	return nil
}

func (repo *boardRepository) HasVote(userID int, postID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	_, ok := repo.db.votes[voteKey{userID, postID}]
	return ok, nil
}

func (repo *boardRepository) SetVote(userID int, postID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.votes[voteKey{userID, postID}] = struct{}{}
	return nil
}

func (repo *boardRepository) DeleteVote(userID int, postID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.votes, voteKey{userID, postID})
	return nil
}

func (repo *boardRepository) CountVotes(postID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var n int
	for k := range repo.db.votes {
		if k.postID == postID {
			n++
		}
	}
	return n, nil
}

func (repo *boardRepository) HasScrap(userID int, postID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	_, ok := repo.db.scraps[voteKey{userID, postID}]
	return ok, nil
}

func (repo *boardRepository) SetScrap(userID int, postID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.scraps[voteKey{userID, postID}] = struct{}{}
	return nil
}

func (repo *boardRepository) DeleteScrap(userID int, postID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.scraps, voteKey{userID, postID})
	return nil
}

func (repo *boardRepository) CountScraps(postID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var n int
	for k := range repo.db.scraps {
		if k.postID == postID {
			n++
		}
	}
	return n, nil
}
