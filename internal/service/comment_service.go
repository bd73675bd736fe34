package service

import (
	"context"
	"errors"
	"strings"

	"babydiary/internal/models"
	"babydiary/internal/repository"
)

// Default page size of comment listings
const DefaultCommentPageSize = 20

// CommentService handles comments on posts
type CommentService struct {
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
	families    *FamilyService
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo *repository.CommentRepository, postRepo *repository.PostRepository, families *FamilyService) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		families:    families,
	}
}

// CommentPage is one page of a post's comments
type CommentPage struct {
	Comments   []models.Comment  `json:"comments"`
	Pagination models.Pagination `json:"pagination"`
}

// authorizePostFamily checks the user belongs to the family of the post,
// independent of the family attached to the request
func (s *CommentService) authorizePostFamily(ctx context.Context, postID, userID int64) error {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	return s.families.VerifyFamilyAccess(ctx, userID, post.FamilyID)
}

// ListComments returns a page of the post's comments, oldest first
func (s *CommentService) ListComments(ctx context.Context, postID, userID int64, page, limit int) (*CommentPage, error) {
	if err := s.authorizePostFamily(ctx, postID, userID); err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit, DefaultCommentPageSize)

	total, err := s.commentRepo.CountComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListComments(ctx, postID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &CommentPage{
		Comments:   comments,
		Pagination: models.NewPagination(page, limit, len(comments), total),
	}, nil
}

// CreateComment adds a comment as a member of the post's family
func (s *CommentService) CreateComment(ctx context.Context, postID, userID int64, content string) (*models.Comment, error) {
	if err := s.authorizePostFamily(ctx, postID, userID); err != nil {
		return nil, err
	}

	id, err := s.commentRepo.CreateComment(ctx, postID, userID, strings.TrimSpace(content))
	if errors.Is(err, repository.ErrParentNotFound) {
		// Deleted between the access check and the insert
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.commentRepo.GetCommentByID(ctx, id)
}

// authorizeComment returns the comment if userID wrote it
func (s *CommentService) authorizeComment(ctx context.Context, commentID, userID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.AuthorID != userID {
		return nil, ErrForbidden
	}
	return comment, nil
}

// UpdateComment replaces the content of the user's own comment
func (s *CommentService) UpdateComment(ctx context.Context, commentID, userID int64, content string) (*models.Comment, error) {
	if _, err := s.authorizeComment(ctx, commentID, userID); err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateComment(ctx, commentID, strings.TrimSpace(content)); err != nil {
		return nil, err
	}
	return s.commentRepo.GetCommentByID(ctx, commentID)
}

// DeleteComment removes the user's own comment
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID int64) error {
	if _, err := s.authorizeComment(ctx, commentID, userID); err != nil {
		return err
	}
	return s.commentRepo.DeleteComment(ctx, commentID)
}
