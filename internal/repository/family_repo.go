package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"babydiary/internal/database"
	"babydiary/internal/models"
)

// FamilyRepository handles database operations for families and memberships
type FamilyRepository struct {
	db database.DBTX
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db database.DBTX) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *FamilyRepository) WithTx(tx *database.Tx) *FamilyRepository {
	return &FamilyRepository{db: tx}
}

// CreateFamily inserts a family with the given invite code
func (r *FamilyRepository) CreateFamily(ctx context.Context, name, inviteCode string) (*models.Family, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO families (name, invite_code, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, name, inviteCode, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	return &models.Family{
		ID:         id,
		Name:       name,
		InviteCode: inviteCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(ctx context.Context, familyID int64) (*models.Family, error) {
	query := "SELECT id, name, invite_code, created_at, updated_at FROM families WHERE id = ?"
	return scanFamily(r.db.QueryRowContext(ctx, query, familyID))
}

// GetFamilyByInviteCode retrieves a family by its invite code
func (r *FamilyRepository) GetFamilyByInviteCode(ctx context.Context, inviteCode string) (*models.Family, error) {
	query := "SELECT id, name, invite_code, created_at, updated_at FROM families WHERE invite_code = ?"
	return scanFamily(r.db.QueryRowContext(ctx, query, inviteCode))
}

func scanFamily(row *sql.Row) (*models.Family, error) {
	family := &models.Family{}
	err := row.Scan(
		&family.ID,
		&family.Name,
		&family.InviteCode,
		&family.CreatedAt,
		&family.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	return family, nil
}

// AddFamilyMember adds a user to a family with the given role
func (r *FamilyRepository) AddFamilyMember(ctx context.Context, familyID, userID int64, role string) error {
	query := "INSERT INTO family_members (family_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, familyID, userID, role, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// GetFirstMembership returns the user's earliest family membership, or nil
// when the user belongs to no family
func (r *FamilyRepository) GetFirstMembership(ctx context.Context, userID int64) (*models.Membership, error) {
	query := `
		SELECT f.id, f.name, f.invite_code, f.created_at, fm.role
		FROM family_members fm
		INNER JOIN families f ON f.id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY fm.joined_at ASC, fm.id ASC
		LIMIT 1
	`
	m := &models.Membership{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&m.ID, &m.Name, &m.InviteCode, &m.CreatedAt, &m.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// GetMemberRole returns the user's role in the family, or "" if the user is not a member
func (r *FamilyRepository) GetMemberRole(ctx context.Context, userID, familyID int64) (string, error) {
	query := "SELECT role FROM family_members WHERE user_id = ? AND family_id = ?"
	var role string
	err := r.db.QueryRowContext(ctx, query, userID, familyID).Scan(&role)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to check family membership: %w", err)
	}
	return role, nil
}

// CountMembers returns the number of members in a family
func (r *FamilyRepository) CountMembers(ctx context.Context, familyID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM family_members WHERE family_id = ?", familyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count family members: %w", err)
	}
	return count, nil
}

// GetFamilyMembers lists the members of a family in join order
func (r *FamilyRepository) GetFamilyMembers(ctx context.Context, familyID int64) ([]models.MemberDetail, error) {
	query := `
		SELECT u.id, u.name, u.email, u.profile_image, fm.role, fm.joined_at
		FROM family_members fm
		INNER JOIN users u ON u.id = fm.user_id
		WHERE fm.family_id = ?
		ORDER BY fm.joined_at ASC, fm.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	members := []models.MemberDetail{}
	for rows.Next() {
		var m models.MemberDetail
		var profileImage sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &profileImage, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		m.ProfileImage = stringPtr(profileImage)
		members = append(members, m)
	}

	return members, rows.Err()
}
