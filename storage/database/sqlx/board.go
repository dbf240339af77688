package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core/board"
)

type boardRepository struct {
	db *sqlx.DB
}

var _ board.Repository = (*boardRepository)(nil) // interface compliance check

func NewBoardRepository(db *sql.DB) board.Repository {
	return &boardRepository{db: sqlx.NewDb(db, "postgres")}
}

// postRow maps the posts table; vote/scrap counts and comments are loaded
// separately by the service.
type postRow struct {
	ID         string       `db:"id"`
	AuthorID   int          `db:"author_id"`
	AuthorName string       `db:"author_name"`
	Category   string       `db:"category"`
	Title      string       `db:"title"`
	Body       string       `db:"body"`
	Anonymous  bool         `db:"anonymous"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  sql.NullTime `db:"updated_at"`
}

func (r postRow) post() board.Post {
	p := board.Post{
		ID:         r.ID,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		Category:   r.Category,
		Title:      r.Title,
		Body:       r.Body,
		Anonymous:  r.Anonymous,
		CreatedAt:  r.CreatedAt,
	}
	if r.UpdatedAt.Valid {
		p.UpdatedAt = r.UpdatedAt.Time
	}
	return p
}

const postColumns = `id, author_id, author_name, category, title, body, anonymous, created_at, updated_at`

func (repo *boardRepository) CreatePost(post board.Post) error {
	_, err := repo.db.Exec(
		`INSERT INTO posts (id, author_id, author_name, category, title, body, anonymous, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		post.ID, post.AuthorID, post.AuthorName, post.Category,
		post.Title, post.Body, post.Anonymous, post.CreatedAt,
	)
	return errors.Wrap(err, "inserting post")
}

func (repo *boardRepository) GetPost(id string) (board.Post, error) {
	var r postRow
	err := repo.db.Get(&r, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return board.Post{}, board.ErrPostNotFound
	}
	if err != nil {
		return board.Post{}, errors.Wrap(err, "querying post")
	}
	return r.post(), nil
}

func (repo *boardRepository) QueryPosts(filter board.QueryFilter) ([]board.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE 1=1`
	var args []interface{}

	if filter.Category != "" {
		q += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.AuthorID != 0 {
		q += ` AND author_id = ?`
		args = append(args, filter.AuthorID)
	}
	if filter.ScrappedBy != 0 {
		q += ` AND EXISTS (SELECT 1 FROM post_scraps s WHERE s.post_id = posts.id AND s.user_id = ?)`
		args = append(args, filter.ScrappedBy)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q += ` AND (title ILIKE ? OR body ILIKE ?)`
		args = append(args, pattern, pattern)
	}
	q += ` ORDER BY created_at DESC, id`

	var rows []postRow
	if err := repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	posts := make([]board.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.post())
	}
	return posts, nil
}

func (repo *boardRepository) UpdatePost(post board.Post) error {
	res, err := repo.db.Exec(
		`UPDATE posts SET title = $1, body = $2, updated_at = $3 WHERE id = $4`,
		post.Title, post.Body, post.UpdatedAt, post.ID,
	)
	if err != nil {
		return errors.Wrap(err, "updating post")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return board.ErrPostNotFound
	}
	return nil
}

func (repo *boardRepository) DeletePost(id string) error {
	// comments, votes and scraps cascade
	res, err := repo.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting post")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return board.ErrPostNotFound
	}
	return nil
}

func (repo *boardRepository) CreateComment(comment board.Comment) error {
	_, err := repo.db.Exec(
		`INSERT INTO comments (id, post_id, author_id, author_name, body, anonymous, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		comment.ID, comment.PostID, comment.AuthorID, comment.AuthorName,
		comment.Body, comment.Anonymous, comment.CreatedAt,
	)
	return errors.Wrap(err, "inserting comment")
}

func (repo *boardRepository) GetComment(id string) (board.Comment, error) {
	var c board.Comment
	err := repo.db.QueryRow(
		`SELECT id, post_id, author_id, author_name, body, anonymous, created_at
		 FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Body, &c.Anonymous, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return board.Comment{}, board.ErrCommentNotFound
	}
	if err != nil {
		return board.Comment{}, errors.Wrap(err, "querying comment")
	}
	return c, nil
}

func (repo *boardRepository) QueryComments(postID string) ([]board.Comment, error) {
	rows, err := repo.db.Query(
		`SELECT id, post_id, author_id, author_name, body, anonymous, created_at
		 FROM comments WHERE post_id = $1 ORDER BY created_at, id`, postID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying comments")
	}
	defer rows.Close()

	comments := make([]board.Comment, 0)
	for rows.Next() {
		var c board.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Body, &c.Anonymous, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning comment")
		}
		comments = append(comments, c)
	}
	return comments, errors.Wrap(rows.Err(), "querying comments")
}

func (repo *boardRepository) DeleteComment(id string) error {
	res, err := repo.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting comment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return board.ErrCommentNotFound
	}
	return nil
}

func (repo *boardRepository) HasVote(userID int, postID string) (bool, error) {
	return repo.has(`post_votes`, userID, postID)
}

func (repo *boardRepository) SetVote(userID int, postID string) error {
	_, err := repo.db.Exec(
		`INSERT INTO post_votes (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, postID,
	)
	return errors.Wrap(err, "inserting vote")
}

func (repo *boardRepository) DeleteVote(userID int, postID string) error {
	_, err := repo.db.Exec(`DELETE FROM post_votes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	return errors.Wrap(err, "deleting vote")
}

func (repo *boardRepository) CountVotes(postID string) (int, error) {
	return repo.count(`post_votes`, postID)
}

func (repo *boardRepository) HasScrap(userID int, postID string) (bool, error) {
	return repo.has(`post_scraps`, userID, postID)
}

func (repo *boardRepository) SetScrap(userID int, postID string) error {
	_, err := repo.db.Exec(
		`INSERT INTO post_scraps (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, postID,
	)
	return errors.Wrap(err, "inserting scrap")
}

func (repo *boardRepository) DeleteScrap(userID int, postID string) error {
	_, err := repo.db.Exec(`DELETE FROM post_scraps WHERE user_id = $1 AND post_id = $2`, userID, postID)
	return errors.Wrap(err, "deleting scrap")
}

func (repo *boardRepository) CountScraps(postID string) (int, error) {
	return repo.count(`post_scraps`, postID)
}

func (repo *boardRepository) has(table string, userID int, postID string) (bool, error) {
	var exists bool
	err := repo.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE user_id = $1 AND post_id = $2)`,
		userID, postID,
	).Scan(&exists)
	return exists, errors.Wrapf(err, "querying %s", table)
}

func (repo *boardRepository) count(table, postID string) (int, error) {
	var n int
	err := repo.db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE post_id = $1`, postID).Scan(&n)
	return n, errors.Wrapf(err, "counting %s", table)
}
