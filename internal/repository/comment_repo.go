package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"babydiary/internal/database"
	"babydiary/internal/models"
)

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db database.DBTX
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db database.DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentSelect = `
	SELECT c.id, c.content, c.post_id, c.author_id, c.created_at, c.updated_at, u.name, u.profile_image
	FROM comments c
	INNER JOIN users u ON u.id = c.author_id
`

// CreateComment inserts a comment on a post
func (r *CommentRepository) CreateComment(ctx context.Context, postID, authorID int64, content string) (int64, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO comments (content, post_id, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, content, postID, authorID, now, now)
	if database.IsForeignKeyViolation(r.db.GetDialect(), err) {
		return 0, fmt.Errorf("failed to create comment: %w", ErrParentNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create comment: %w", err)
	}
	return id, nil
}

// GetCommentByID retrieves a comment with its author
func (r *CommentRepository) GetCommentByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+" WHERE c.id = ?", commentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// ListComments returns a page of a post's comments, oldest first
func (r *CommentRepository) ListComments(ctx context.Context, postID int64, limit, offset int) ([]models.Comment, error) {
	query := commentSelect + " WHERE c.post_id = ? ORDER BY c.created_at ASC, c.id ASC LIMIT ? OFFSET ?"
	return r.queryComments(ctx, query, postID, limit, offset)
}

// ListAllComments returns every comment of a post, oldest first
func (r *CommentRepository) ListAllComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := commentSelect + " WHERE c.post_id = ? ORDER BY c.created_at ASC, c.id ASC"
	return r.queryComments(ctx, query, postID)
}

// CountComments returns the number of comments on a post
func (r *CommentRepository) CountComments(ctx context.Context, postID int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments WHERE post_id = ?", postID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

// UpdateComment replaces the content of a comment
func (r *CommentRepository) UpdateComment(ctx context.Context, commentID int64, content string) error {
	query := "UPDATE comments SET content = ?, updated_at = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, content, time.Now().UTC(), commentID); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// DeleteComment removes a comment
func (r *CommentRepository) DeleteComment(ctx context.Context, commentID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) queryComments(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

func scanComment(row rowScanner) (*models.Comment, error) {
	comment := &models.Comment{Author: &models.UserSummary{}}
	var profileImage sql.NullString
	err := row.Scan(
		&comment.ID,
		&comment.Content,
		&comment.PostID,
		&comment.AuthorID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.Author.Name,
		&profileImage,
	)
	if err != nil {
		return nil, err
	}
	comment.Author.ID = comment.AuthorID
	comment.Author.ProfileImage = stringPtr(profileImage)
	return comment, nil
}
