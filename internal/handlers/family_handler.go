package handlers

import (
	"net/http"

	"babydiary/internal/service"
	"babydiary/internal/validation"
)

// FamilyHandler handles family requests
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{
		familyService: familyService,
	}
}

// GetFamily returns the requester's family with its members
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	membership := GetMembershipFromContext(r.Context())

	overview, err := h.familyService.GetFamily(r.Context(), membership)
	if err != nil {
		respondWithServiceError(w, err, "Get family error")
		return
	}

	respondWithData(w, http.StatusOK, overview, "")
}

// Invite emails the family invite code to an address. Admin only.
func (h *FamilyHandler) Invite(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	membership := GetMembershipFromContext(r.Context())

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	var errs validation.Errors
	errs.Add(validation.ValidateEmail(req.Email))
	if len(errs) > 0 {
		respondWithValidation(w, errs)
		return
	}

	sent, err := h.familyService.Invite(r.Context(), user, membership, req.Email)
	if err != nil {
		respondWithServiceError(w, err, "Family invite error")
		return
	}

	message := "Invitation sent"
	if !sent {
		message = "Email is not configured; share the invite code directly"
	}
	respondWithData(w, http.StatusOK, map[string]any{
		"sent":       sent,
		"inviteCode": membership.InviteCode,
	}, message)
}
