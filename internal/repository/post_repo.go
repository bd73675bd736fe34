package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"babydiary/internal/database"
	"babydiary/internal/models"
)

// PostRepository handles database operations for posts and their tags
type PostRepository struct {
	db database.DBTX
}

// NewPostRepository creates a new post repository
func NewPostRepository(db database.DBTX) *PostRepository {
	return &PostRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *PostRepository) WithTx(tx *database.Tx) *PostRepository {
	return &PostRepository{db: tx}
}

const postSelect = `
	SELECT p.id, p.content, p.media_urls, p.media_type, p.author_id, p.family_id, p.created_at, p.updated_at,
		u.name, u.email, u.profile_image, f.name,
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
	FROM posts p
	INNER JOIN users u ON u.id = p.author_id
	INNER JOIN families f ON f.id = p.family_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

// CreatePost inserts a post and its tags
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	mediaURLs, err := json.Marshal(nonNil(post.MediaURLs))
	if err != nil {
		return fmt.Errorf("failed to encode media urls: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO posts (content, media_urls, media_type, author_id, family_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		post.Content, string(mediaURLs), nullString(post.MediaType), post.AuthorID, post.FamilyID, now, now)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	post.ID = id
	post.CreatedAt = now
	post.UpdatedAt = now

	return r.SetTags(ctx, id, post.Tags)
}

// UpdatePost writes the content, media and tags of an existing post
func (r *PostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	mediaURLs, err := json.Marshal(nonNil(post.MediaURLs))
	if err != nil {
		return fmt.Errorf("failed to encode media urls: %w", err)
	}

	post.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE posts
		SET content = ?, media_urls = ?, media_type = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = r.db.ExecContext(ctx, query,
		post.Content, string(mediaURLs), nullString(post.MediaType), post.UpdatedAt, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return r.SetTags(ctx, post.ID, post.Tags)
}

// SetTags replaces the tags of a post, keeping their order
func (r *PostRepository) SetTags(ctx context.Context, postID int64, tags []string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM post_tags WHERE post_id = ?", postID); err != nil {
		return fmt.Errorf("failed to clear post tags: %w", err)
	}

	for i, tag := range tags {
		query := "INSERT INTO post_tags (post_id, tag, position) VALUES (?, ?, ?)"
		if _, err := r.db.ExecContext(ctx, query, postID, tag, i); err != nil {
			return fmt.Errorf("failed to add post tag: %w", err)
		}
	}
	return nil
}

// DeletePost removes a post; comments, likes and tags cascade
func (r *PostRepository) DeletePost(ctx context.Context, postID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// GetPostByID retrieves a post with author, family, tags and counters
func (r *PostRepository) GetPostByID(ctx context.Context, postID int64) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, postSelect+" WHERE p.id = ?", postID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	tags, err := r.loadTags(ctx, []int64{post.ID})
	if err != nil {
		return nil, err
	}
	post.Tags = nonNil(tags[post.ID])

	return post, nil
}

// ListPosts returns one page of a family's posts, newest first, and the
// total number of posts matching the filter
func (r *PostRepository) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	where, args := postConditions(filter)

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM posts p
		INNER JOIN users u ON u.id = p.author_id
		WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := postSelect + " WHERE " + where + " ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	var ids []int64
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
		ids = append(ids, post.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate posts: %w", err)
	}

	tags, err := r.loadTags(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range posts {
		posts[i].Tags = nonNil(tags[posts[i].ID])
	}

	return posts, total, nil
}

// postConditions builds the WHERE clause shared by the list and count queries
func postConditions(filter models.PostFilter) (string, []any) {
	conditions := []string{"p.family_id = ?"}
	args := []any{filter.FamilyID}

	if filter.Search != "" {
		conditions = append(conditions, `(LOWER(p.content) LIKE ? ESCAPE '!'
			OR EXISTS (SELECT 1 FROM post_tags st WHERE st.post_id = p.id AND LOWER(st.tag) = ?))`)
		args = append(args, containsPattern(filter.Search), strings.ToLower(filter.Search))
	}

	if filter.Author != "" {
		conditions = append(conditions, "LOWER(u.name) LIKE ? ESCAPE '!'")
		args = append(args, containsPattern(filter.Author))
	}

	if len(filter.Tags) > 0 {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM post_tags ft WHERE ft.post_id = p.id AND ft.tag IN ("+placeholders(len(filter.Tags))+"))")
		for _, tag := range filter.Tags {
			args = append(args, tag)
		}
	}

	return strings.Join(conditions, " AND "), args
}

func (r *PostRepository) loadTags(ctx context.Context, postIDs []int64) (map[int64][]string, error) {
	tags := make(map[int64][]string, len(postIDs))
	if len(postIDs) == 0 {
		return tags, nil
	}

	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
	}

	query := "SELECT post_id, tag FROM post_tags WHERE post_id IN (" + placeholders(len(postIDs)) + ") ORDER BY post_id, position"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var tag string
		if err := rows.Scan(&postID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan post tag: %w", err)
		}
		tags[postID] = append(tags[postID], tag)
	}

	return tags, rows.Err()
}

func scanPost(row rowScanner) (*models.Post, error) {
	post := &models.Post{
		Author: &models.UserSummary{},
		Family: &models.FamilySummary{},
		Count:  &models.PostCount{},
	}
	var mediaURLs string
	var mediaType, profileImage sql.NullString

	err := row.Scan(
		&post.ID,
		&post.Content,
		&mediaURLs,
		&mediaType,
		&post.AuthorID,
		&post.FamilyID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.Author.Name,
		&post.Author.Email,
		&profileImage,
		&post.Family.Name,
		&post.Count.Likes,
		&post.Count.Comments,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(mediaURLs), &post.MediaURLs); err != nil {
		return nil, fmt.Errorf("failed to decode media urls: %w", err)
	}
	post.MediaURLs = nonNil(post.MediaURLs)
	post.MediaType = stringPtr(mediaType)
	post.Author.ID = post.AuthorID
	post.Author.ProfileImage = stringPtr(profileImage)
	post.Family.ID = post.FamilyID

	return post, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
