package repositories

import (
	"context"
	"database/sql"
	"errors"

	"shapagatBack/internal/models"
)

type BlogRepository struct {
	DB *sql.DB
}

func (r *BlogRepository) CreatePost(ctx context.Context, post models.BlogPost) (models.BlogPost, error) {
	query := `INSERT INTO blog_posts (title, slug, content, image_url, author_id, published, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, post.Title, post.Slug, post.Content, post.ImageURL, post.AuthorID, post.Published)
	if err != nil {
		return models.BlogPost{}, err
	}
	id, _ := res.LastInsertId()
	post.ID = int(id)
	return post, nil
}

func (r *BlogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM blog_posts WHERE slug = ?`, slug).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *BlogRepository) GetPostBySlug(ctx context.Context, slug string) (models.BlogPost, error) {
	var post models.BlogPost
	query := `SELECT id, title, slug, content, image_url, author_id, published, created_at, updated_at
	          FROM blog_posts WHERE slug = ?`
	err := r.DB.QueryRowContext(ctx, query, slug).Scan(
		&post.ID, &post.Title, &post.Slug, &post.Content, &post.ImageURL, &post.AuthorID, &post.Published, &post.CreatedAt, &post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BlogPost{}, models.ErrBlogPostNotFound
	}
	return post, err
}

func (r *BlogRepository) GetPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	query := `SELECT id, title, slug, content, image_url, author_id, published, created_at, updated_at FROM blog_posts`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		var post models.BlogPost
		if err := rows.Scan(&post.ID, &post.Title, &post.Slug, &post.Content, &post.ImageURL, &post.AuthorID, &post.Published, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *BlogRepository) UpdatePost(ctx context.Context, post models.BlogPost) (models.BlogPost, error) {
	query := `UPDATE blog_posts SET title = ?, content = ?, image_url = ?, published = ?, updated_at = NOW() WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, query, post.Title, post.Content, post.ImageURL, post.Published, post.ID)
	if err != nil {
		return models.BlogPost{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM blog_posts WHERE id = ?`, post.ID).Scan(&one); errors.Is(err, sql.ErrNoRows) {
			return models.BlogPost{}, models.ErrBlogPostNotFound
		}
	}
	return post, nil
}

func (r *BlogRepository) DeletePost(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrBlogPostNotFound
	}
	return nil
}
