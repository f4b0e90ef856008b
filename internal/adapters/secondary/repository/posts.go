package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

const (
	postColumns    = `id, user_id, content, images, likes_count, shares_count, created_at, updated_at`
	commentColumns = `id, post_id, user_id, content, images, created_at, updated_at`
)

func (r *PostgresRepo) SavePost(ctx context.Context, post *domain.Post) error {
	q := `
		INSERT INTO posts (id, user_id, content, images, likes_count, shares_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, $5, $6)
	`
	if _, err := r.db.Exec(ctx, q, post.ID, post.UserID, post.Content, post.Images, post.CreatedAt, post.UpdatedAt); err != nil {
		return r.handleError("save post", err)
	}
	return nil
}

func (r *PostgresRepo) FindPost(ctx context.Context, postID string) (*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	p, err := scanPost(r.db.QueryRow(ctx, q, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, domain.NewStorageError("find post", err)
	}
	return p, nil
}

// ListPosts : pagination offset/limit, plus récents d'abord.
func (r *PostgresRepo) ListPosts(ctx context.Context, page domain.Page) ([]*domain.Post, error) {
	q := `
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, q, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.NewStorageError("list posts", err)
	}
	posts, err := collectPosts(rows)
	if err != nil {
		return nil, domain.NewStorageError("list posts", err)
	}
	return posts, nil
}

func (r *PostgresRepo) ListPostsByAuthor(ctx context.Context, userID string, page domain.Page) ([]*domain.Post, error) {
	q := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, q, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.NewStorageError("list posts by author", err)
	}
	posts, err := collectPosts(rows)
	if err != nil {
		return nil, domain.NewStorageError("list posts by author", err)
	}
	return posts, nil
}

// --- COMMENTS ---

func (r *PostgresRepo) SaveComment(ctx context.Context, c *domain.Comment) error {
	q := `
		INSERT INTO comments (id, post_id, user_id, content, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.Exec(ctx, q, c.ID, c.PostID, c.UserID, c.Content, c.Images, c.CreatedAt, c.UpdatedAt); err != nil {
		return r.handleError("save comment", err)
	}
	return nil
}

// ListComments : ordre chronologique (les plus anciens d'abord)
func (r *PostgresRepo) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, q, postID)
	if err != nil {
		return nil, domain.NewStorageError("list comments", err)
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.Images, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, domain.NewStorageError("list comments", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list comments", err)
	}
	return comments, nil
}

// --- Helpers pour éviter la duplication de code ---

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.Images, &p.LikesCount, &p.SharesCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]*domain.Post, error) {
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
