package handlers

import (
	"net/http"

	"babydiary/internal/service"
	"babydiary/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	FamilyName string `json:"familyName"`
	InviteCode string `json:"inviteCode"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user and joins or creates their family
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	var errs validation.Errors
	errs.Add(validation.ValidateEmail(req.Email))
	errs.Add(validation.ValidatePassword(req.Password))
	errs.Add(validation.ValidateName(req.Name))
	errs.Add(validation.ValidateFamilyName(req.FamilyName))
	if len(errs) > 0 {
		respondWithValidation(w, errs)
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		FamilyName: req.FamilyName,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		respondWithServiceError(w, err, "Register error")
		return
	}

	respondWithData(w, http.StatusCreated, result, "Registration successful")
}

// Login verifies credentials and returns a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	var errs validation.Errors
	errs.Add(validation.ValidateEmail(req.Email))
	errs.Add(validation.ValidateRequired("password", req.Password))
	if len(errs) > 0 {
		respondWithValidation(w, errs)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err, "Login error")
		return
	}

	respondWithData(w, http.StatusOK, result, "Login successful")
}

// Me returns the authenticated user and their family
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	user, membership, err := h.authService.Me(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, err, "Get current user error")
		return
	}

	respondWithData(w, http.StatusOK, map[string]any{
		"user":   user,
		"family": membership,
	}, "")
}

// Logout is a no-op server side; tokens stay valid until they expire
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondWithMessage(w, "Logged out")
}
