package models

import "time"

// Family roles
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Family is the sharing boundary: every post belongs to exactly one family
type Family struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"inviteCode"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FamilyMember represents the relationship between a user and a family
type FamilyMember struct {
	ID       int64     `json:"id"`
	FamilyID int64     `json:"familyId"`
	UserID   int64     `json:"userId"`
	Role     string    `json:"role"` // 'ADMIN' or 'MEMBER'
	JoinedAt time.Time `json:"joinedAt"`
}

// Membership is a family as seen by one of its members
type Membership struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"inviteCode"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewMembership combines a family with the member's role
func NewMembership(family *Family, role string) *Membership {
	return &Membership{
		ID:         family.ID,
		Name:       family.Name,
		InviteCode: family.InviteCode,
		Role:       role,
		CreatedAt:  family.CreatedAt,
	}
}

// IsAdmin reports whether the member administers the family
func (m *Membership) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// FamilySummary is the family view embedded in posts
type FamilySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MemberDetail is a family member with user details, used for member listings
type MemberDetail struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage *string   `json:"profileImage"`
	Role         string    `json:"role"`
	JoinedAt     time.Time `json:"joinedAt"`
}
