package service

import (
	"context"
	"fmt"

	"babydiary/internal/models"
	"babydiary/internal/repository"
)

// InviteSender delivers family invite codes
type InviteSender interface {
	IsEnabled() bool
	SendFamilyInviteEmail(ctx context.Context, toEmail, inviterName, familyName, inviteCode string) error
}

// FamilyService handles family membership lookups and invitations
type FamilyService struct {
	familyRepo *repository.FamilyRepository
	mailer     InviteSender
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, mailer InviteSender) *FamilyService {
	return &FamilyService{
		familyRepo: familyRepo,
		mailer:     mailer,
	}
}

// ResolveMembership returns the user's family and role, or ErrNoFamily
func (s *FamilyService) ResolveMembership(ctx context.Context, userID int64) (*models.Membership, error) {
	membership, err := s.familyRepo.GetFirstMembership(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve family: %w", err)
	}
	if membership == nil {
		return nil, ErrNoFamily
	}
	return membership, nil
}

// VerifyFamilyAccess returns ErrForbidden unless the user belongs to the family
func (s *FamilyService) VerifyFamilyAccess(ctx context.Context, userID, familyID int64) error {
	role, err := s.familyRepo.GetMemberRole(ctx, userID, familyID)
	if err != nil {
		return fmt.Errorf("failed to verify family access: %w", err)
	}
	if role == "" {
		return ErrForbidden
	}
	return nil
}

// FamilyOverview is a family with the caller's role and its members
type FamilyOverview struct {
	Family  *models.Family        `json:"family"`
	Role    string                `json:"role"`
	Members []models.MemberDetail `json:"members"`
}

// GetFamily returns the member's family with its member list
func (s *FamilyService) GetFamily(ctx context.Context, membership *models.Membership) (*FamilyOverview, error) {
	family, err := s.familyRepo.GetFamilyByID(ctx, membership.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrNoFamily
	}

	members, err := s.familyRepo.GetFamilyMembers(ctx, family.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}

	return &FamilyOverview{Family: family, Role: membership.Role, Members: members}, nil
}

// Invite emails the family invite code. Only admins may invite. The returned
// bool reports whether an email was actually sent.
func (s *FamilyService) Invite(ctx context.Context, inviter *models.User, membership *models.Membership, email string) (bool, error) {
	if !membership.IsAdmin() {
		return false, ErrForbidden
	}
	if !s.mailer.IsEnabled() {
		return false, nil
	}

	if err := s.mailer.SendFamilyInviteEmail(ctx, normalizeEmail(email), inviter.Name, membership.Name, membership.InviteCode); err != nil {
		return false, err
	}
	return true, nil
}
