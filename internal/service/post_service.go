package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"babydiary/internal/database"
	"babydiary/internal/models"
	"babydiary/internal/repository"
)

// Default page size of post listings
const DefaultPostPageSize = 10

// PostService handles posts, their access rules and likes
type PostService struct {
	db          *database.DB
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	likeRepo    *repository.LikeRepository
	uploadRepo  *repository.UploadRepository
	families    *FamilyService
}

// NewPostService creates a new post service
func NewPostService(
	db *database.DB,
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	likeRepo *repository.LikeRepository,
	uploadRepo *repository.UploadRepository,
	families *FamilyService,
) *PostService {
	return &PostService{
		db:          db,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		uploadRepo:  uploadRepo,
		families:    families,
	}
}

// PostInput carries the fields of a create or update request. Nil fields are
// left unchanged on update.
type PostInput struct {
	Content   *string
	MediaURLs *[]string
	Tags      *[]string
}

// AuthorizePost loads a post and applies the ownership rules: the author may
// do anything, other members of the post's family may only read, everyone
// else is forbidden.
func (s *PostService) AuthorizePost(ctx context.Context, postID, userID int64, mutate bool) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if post.AuthorID == userID {
		return post, nil
	}

	// The requester's own family is not assumed to be the post's family
	if err := s.families.VerifyFamilyAccess(ctx, userID, post.FamilyID); err != nil {
		return nil, err
	}
	if mutate {
		return nil, ErrForbidden
	}
	return post, nil
}

// CreatePost creates a post in the author's family
func (s *PostService) CreatePost(ctx context.Context, authorID, familyID int64, in PostInput) (*models.PostDetail, error) {
	post := &models.Post{
		AuthorID:  authorID,
		FamilyID:  familyID,
		MediaURLs: []string{},
		Tags:      []string{},
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.MediaURLs != nil {
		post.MediaURLs = *in.MediaURLs
	}
	if in.Tags != nil {
		post.Tags = normalizeTags(*in.Tags)
	}

	mediaType, err := s.resolveMediaType(ctx, post.MediaURLs)
	if err != nil {
		return nil, err
	}
	post.MediaType = mediaType

	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		return s.postRepo.WithTx(tx).CreatePost(ctx, post)
	})
	if err != nil {
		return nil, err
	}

	return s.GetPost(ctx, post.ID)
}

// UpdatePost applies the supplied fields. The media type is only recomputed
// when the media list is supplied.
func (s *PostService) UpdatePost(ctx context.Context, post *models.Post, in PostInput) (*models.PostDetail, error) {
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Tags != nil {
		post.Tags = normalizeTags(*in.Tags)
	}
	if in.MediaURLs != nil {
		post.MediaURLs = *in.MediaURLs
		mediaType, err := s.resolveMediaType(ctx, post.MediaURLs)
		if err != nil {
			return nil, err
		}
		post.MediaType = mediaType
	}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		return s.postRepo.WithTx(tx).UpdatePost(ctx, post)
	})
	if err != nil {
		return nil, err
	}

	return s.GetPost(ctx, post.ID)
}

// DeletePost removes a post with its comments and likes
func (s *PostService) DeletePost(ctx context.Context, postID int64) error {
	return s.postRepo.DeletePost(ctx, postID)
}

// GetPost returns a post with comments (oldest first) and likes
func (s *PostService) GetPost(ctx context.Context, postID int64) (*models.PostDetail, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comments, err := s.commentRepo.ListAllComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	likes, err := s.likeRepo.ListLikes(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &models.PostDetail{Post: *post, Comments: comments, Likes: likes}, nil
}

// ListPostsInput is a listing request for one family
type ListPostsInput struct {
	FamilyID int64
	Page     int
	Limit    int
	Search   string
	Author   string
	Tags     []string
}

// PostPage is one page of posts
type PostPage struct {
	Posts      []models.Post     `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

// ListPosts returns a page of the family's posts, newest first
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	page, limit := normalizePage(in.Page, in.Limit, DefaultPostPageSize)

	posts, total, err := s.postRepo.ListPosts(ctx, models.PostFilter{
		FamilyID: in.FamilyID,
		Search:   strings.TrimSpace(in.Search),
		Author:   strings.TrimSpace(in.Author),
		Tags:     normalizeTags(in.Tags),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Posts:      posts,
		Pagination: models.NewPagination(page, limit, len(posts), total),
	}, nil
}

// ToggleLike removes the user's like if present and adds it otherwise. The
// result reports whether the post is liked afterwards.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	existing, err := s.likeRepo.GetLike(ctx, postID, userID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.likeRepo.DeleteLike(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.likeRepo.CreateLike(ctx, postID, userID); err != nil {
		// A concurrent toggle inserted the pair first
		if s.likeRepo.IsUniqueViolation(err) {
			return true, nil
		}
		if errors.Is(err, repository.ErrParentNotFound) {
			return false, ErrPostNotFound
		}
		return false, err
	}
	return true, nil
}

// resolveMediaType takes the type of the first media URL from its upload
// record and falls back to inspecting the URL for external media
func (s *PostService) resolveMediaType(ctx context.Context, mediaURLs []string) (*string, error) {
	if len(mediaURLs) == 0 {
		return nil, nil
	}

	first := mediaURLs[0]
	upload, err := s.uploadRepo.GetUploadByURL(ctx, first)
	if err != nil {
		return nil, fmt.Errorf("failed to look up upload: %w", err)
	}
	if upload != nil {
		mediaType := upload.MediaType()
		return &mediaType, nil
	}

	return guessMediaType(first), nil
}

// guessMediaType infers the media type from substrings of the URL
func guessMediaType(url string) *string {
	lower := strings.ToLower(url)
	var mediaType string
	switch {
	case strings.Contains(lower, "image"), strings.Contains(lower, "jpg"), strings.Contains(lower, "png"):
		mediaType = models.MediaTypeImage
	case strings.Contains(lower, "video"), strings.Contains(lower, "mp4"):
		mediaType = models.MediaTypeVideo
	default:
		return nil
	}
	return &mediaType
}

// normalizeTags trims tags and drops blanks and duplicates, keeping order
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
