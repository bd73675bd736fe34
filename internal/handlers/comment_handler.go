package handlers

import (
	"net/http"
	"strings"

	"babydiary/internal/service"
	"babydiary/internal/validation"
)

// CommentHandler handles comment requests
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

func (req *commentRequest) validate() validation.Errors {
	var errs validation.Errors
	req.Content = strings.TrimSpace(req.Content)
	errs.Add(validation.ValidateLength("content", req.Content, 1, validation.MaxCommentLength))
	return errs
}

// ListComments returns a page of a post's comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	postID, err := pathID(r, "postId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	var errs validation.Errors
	page := queryInt(r.URL.Query().Get("page"), "page", &errs)
	limit := queryInt(r.URL.Query().Get("limit"), "limit", &errs)
	if len(errs) > 0 {
		respondWithValidation(w, errs)
		return
	}

	result, err := h.commentService.ListComments(r.Context(), postID, user.ID, page, limit)
	if err != nil {
		respondWithServiceError(w, err, "List comments error")
		return
	}

	respondWithData(w, http.StatusOK, result, "")
}

// CreateComment adds a comment to a post of the requester's family
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	postID, err := pathID(r, "postId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		respondWithValidation(w, errs)
		return
	}

	comment, err := h.commentService.CreateComment(r.Context(), postID, user.ID, req.Content)
	if err != nil {
		respondWithServiceError(w, err, "Create comment error")
		return
	}

	respondWithData(w, http.StatusCreated, comment, "Comment created")
}

// UpdateComment edits the requester's own comment
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	commentID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		respondWithValidation(w, errs)
		return
	}

	comment, err := h.commentService.UpdateComment(r.Context(), commentID, user.ID, req.Content)
	if err != nil {
		respondWithServiceError(w, err, "Update comment error")
		return
	}

	respondWithData(w, http.StatusOK, comment, "Comment updated")
}

// DeleteComment removes the requester's own comment
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	commentID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return
	}

	if err := h.commentService.DeleteComment(r.Context(), commentID, user.ID); err != nil {
		respondWithServiceError(w, err, "Delete comment error")
		return
	}

	respondWithMessage(w, "Comment deleted")
}
