package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"babydiary/internal/service"
	"babydiary/internal/validation"
)

// PostHandler handles post and like requests
type PostHandler struct {
	postService *service.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

type postRequest struct {
	Content   *string   `json:"content"`
	MediaURLs *[]string `json:"mediaUrls"`
	Tags      *[]string `json:"tags"`
}

// validate checks the supplied fields; content is only required on create
func (req *postRequest) validate(create bool) validation.Errors {
	var errs validation.Errors

	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		req.Content = &content
		errs.Add(validation.ValidateLength("content", content, 1, validation.MaxPostLength))
	} else if create {
		errs.Add(validation.ValidateRequired("content", ""))
	}

	if req.MediaURLs != nil {
		for _, u := range *req.MediaURLs {
			if err := validation.ValidateMediaURL(u); err != nil {
				errs.Add(err)
				break
			}
		}
	}

	if req.Tags != nil {
		errs.Add(validation.ValidateTags(*req.Tags))
	}

	return errs
}

func (req *postRequest) input() service.PostInput {
	return service.PostInput{
		Content:   req.Content,
		MediaURLs: req.MediaURLs,
		Tags:      req.Tags,
	}
}

// ListPosts returns a page of the family's posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	membership := GetMembershipFromContext(r.Context())
	query := r.URL.Query()

	var errs validation.Errors
	page := queryInt(query.Get("page"), "page", &errs)
	limit := queryInt(query.Get("limit"), "limit", &errs)
	if len(errs) > 0 {
		respondWithValidation(w, errs)
		return
	}

	var tags []string
	if raw := query.Get("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	result, err := h.postService.ListPosts(r.Context(), service.ListPostsInput{
		FamilyID: membership.ID,
		Page:     page,
		Limit:    limit,
		Search:   query.Get("search"),
		Author:   query.Get("author"),
		Tags:     tags,
	})
	if err != nil {
		respondWithServiceError(w, err, "List posts error")
		return
	}

	respondWithData(w, http.StatusOK, result, "")
}

// CreatePost creates a post in the requester's family
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	membership := GetMembershipFromContext(r.Context())

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if errs := req.validate(true); len(errs) > 0 {
		respondWithValidation(w, errs)
		return
	}

	post, err := h.postService.CreatePost(r.Context(), user.ID, membership.ID, req.input())
	if err != nil {
		respondWithServiceError(w, err, "Create post error")
		return
	}

	respondWithData(w, http.StatusCreated, post, "Post created")
}

// GetPost returns a post with its comments and likes
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post := GetPostFromContext(r.Context())

	detail, err := h.postService.GetPost(r.Context(), post.ID)
	if err != nil {
		respondWithServiceError(w, err, "Get post error")
		return
	}

	respondWithData(w, http.StatusOK, detail, "")
}

// UpdatePost applies the supplied fields to the requester's own post
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post := GetPostFromContext(r.Context())

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if errs := req.validate(false); len(errs) > 0 {
		respondWithValidation(w, errs)
		return
	}

	detail, err := h.postService.UpdatePost(r.Context(), post, req.input())
	if err != nil {
		respondWithServiceError(w, err, "Update post error")
		return
	}

	respondWithData(w, http.StatusOK, detail, "Post updated")
}

// DeletePost removes the requester's own post
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	post := GetPostFromContext(r.Context())

	if err := h.postService.DeletePost(r.Context(), post.ID); err != nil {
		respondWithServiceError(w, err, "Delete post error")
		return
	}

	respondWithMessage(w, "Post deleted")
}

// ToggleLike likes the post, or removes the like if it already exists
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	post := GetPostFromContext(r.Context())

	liked, err := h.postService.ToggleLike(r.Context(), post.ID, user.ID)
	if err != nil {
		respondWithServiceError(w, err, "Toggle like error")
		return
	}

	message := "Like removed"
	if liked {
		message = "Post liked"
	}
	respondWithData(w, http.StatusOK, map[string]bool{"liked": liked}, message)
}

// queryInt parses an optional positive integer query parameter; zero means absent
func queryInt(raw, field string, errs *validation.Errors) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		errs.Add(validation.ValidationError{Field: field, Message: field + " must be a positive integer"})
		return 0
	}
	return n
}
