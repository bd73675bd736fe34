package service

import (
	"context"
	"errors"
	"testing"

	"babydiary/internal/models"
)

func TestInvite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.register(t, "a@example.com", "Alice", "")
	member := env.register(t, "b@example.com", "Bob", admin.Family.InviteCode)

	if _, err := env.families.Invite(ctx, member.User, member.Family, "c@example.com"); !errors.Is(err, ErrForbidden) {
		t.Errorf("member Invite() error = %v, want ErrForbidden", err)
	}

	env.mailer.enabled = false
	sent, err := env.families.Invite(ctx, admin.User, admin.Family, "c@example.com")
	if err != nil || sent {
		t.Errorf("Invite() with mail disabled = %t, %v; want false, nil", sent, err)
	}

	env.mailer.enabled = true
	sent, err = env.families.Invite(ctx, admin.User, admin.Family, " C@Example.com ")
	if err != nil || !sent {
		t.Fatalf("Invite() = %t, %v; want true, nil", sent, err)
	}
	want := "c@example.com:" + admin.Family.InviteCode
	if len(env.mailer.sent) != 1 || env.mailer.sent[0] != want {
		t.Errorf("sent = %v, want [%s]", env.mailer.sent, want)
	}
}

func TestGetFamily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.register(t, "a@example.com", "Alice", "")
	member := env.register(t, "b@example.com", "Bob", admin.Family.InviteCode)

	overview, err := env.families.GetFamily(ctx, member.Family)
	if err != nil {
		t.Fatalf("GetFamily() error = %v", err)
	}
	if overview.Family.ID != admin.Family.ID || overview.Role != models.RoleMember {
		t.Errorf("GetFamily() = family %d role %q", overview.Family.ID, overview.Role)
	}
	if len(overview.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(overview.Members))
	}

	roles := map[string]string{}
	for _, m := range overview.Members {
		roles[m.Email] = m.Role
	}
	if roles["a@example.com"] != models.RoleAdmin || roles["b@example.com"] != models.RoleMember {
		t.Errorf("member roles = %v", roles)
	}
}

func TestResolveMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.register(t, "a@example.com", "Alice", "")

	membership, err := env.families.ResolveMembership(ctx, admin.User.ID)
	if err != nil {
		t.Fatalf("ResolveMembership() error = %v", err)
	}
	if membership.ID != admin.Family.ID || !membership.IsAdmin() {
		t.Errorf("ResolveMembership() = %+v", membership)
	}

	// A user row without any membership
	orphan, err := env.userRepo.CreateUser(ctx, "orphan@example.com", "hash", "Orphan")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := env.families.ResolveMembership(ctx, orphan.ID); !errors.Is(err, ErrNoFamily) {
		t.Errorf("ResolveMembership(orphan) error = %v, want ErrNoFamily", err)
	}
}
