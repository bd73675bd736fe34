package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"babydiary/internal/database"
	"babydiary/internal/models"
)

// LikeRepository handles database operations for likes
type LikeRepository struct {
	db database.DBTX
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db database.DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

// IsUniqueViolation reports whether err came from the (post, user) constraint
func (r *LikeRepository) IsUniqueViolation(err error) bool {
	return database.IsUniqueViolation(r.db.GetDialect(), err)
}

// GetLike returns the user's like on a post, or nil
func (r *LikeRepository) GetLike(ctx context.Context, postID, userID int64) (*models.Like, error) {
	query := "SELECT id, post_id, user_id, created_at FROM likes WHERE post_id = ? AND user_id = ?"
	like := &models.Like{}
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&like.ID, &like.PostID, &like.UserID, &like.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return like, nil
}

// CreateLike records a like. The returned error wraps the driver error so a
// duplicate (post, user) pair can be detected with IsUniqueViolation; a
// deleted post yields ErrParentNotFound.
func (r *LikeRepository) CreateLike(ctx context.Context, postID, userID int64) error {
	query := "INSERT INTO likes (post_id, user_id, created_at) VALUES (?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, postID, userID, time.Now().UTC())
	if database.IsForeignKeyViolation(r.db.GetDialect(), err) {
		return fmt.Errorf("failed to create like: %w", ErrParentNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// DeleteLike removes a like by ID
func (r *LikeRepository) DeleteLike(ctx context.Context, likeID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM likes WHERE id = ?", likeID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

// CountLikes returns the number of like rows for a (post, user) pair or, with userID 0, for the post
func (r *LikeRepository) CountLikes(ctx context.Context, postID, userID int64) (int, error) {
	query := "SELECT COUNT(*) FROM likes WHERE post_id = ?"
	args := []any{postID}
	if userID != 0 {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// ListLikes returns the likes of a post with the liking users
func (r *LikeRepository) ListLikes(ctx context.Context, postID int64) ([]models.Like, error) {
	query := `
		SELECT l.id, l.post_id, l.user_id, l.created_at, u.name
		FROM likes l
		INNER JOIN users u ON u.id = l.user_id
		WHERE l.post_id = ?
		ORDER BY l.created_at ASC, l.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	likes := []models.Like{}
	for rows.Next() {
		like := models.Like{User: &models.UserSummary{}}
		if err := rows.Scan(&like.ID, &like.PostID, &like.UserID, &like.CreatedAt, &like.User.Name); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		like.User.ID = like.UserID
		likes = append(likes, like)
	}
	return likes, rows.Err()
}
