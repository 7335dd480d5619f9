package services

import (
	"testing"

	"cashflow/internal/models"
	"cashflow/internal/testutil"
)

func TestCreateHousehold(t *testing.T) {
	t.Run("creates_household_and_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		user := testutil.CreateTestUser(t, db)

		household, err := svc.CreateHousehold(user.ID, "Pladsen", "NOK")
		testutil.AssertNoError(t, err)

		if household.ID == "" {
			t.Fatal("expected non-empty household ID")
		}
		if household.Currency != "NOK" {
			t.Errorf("expected currency NOK, got %s", household.Currency)
		}

		var member models.HouseholdMember
		if err := db.Where("household_id = ? AND user_id = ?", household.ID, user.ID).First(&member).Error; err != nil {
			t.Fatalf("expected owner membership row: %v", err)
		}
		if member.Role != models.MemberRoleOwner {
			t.Errorf("expected role owner, got %s", member.Role)
		}
		if member.Status != models.MemberStatusActive {
			t.Errorf("expected status active, got %s", member.Status)
		}
	})

	t.Run("empty_name_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateHousehold(user.ID, "", "USD")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestActiveHousehold(t *testing.T) {
	t.Run("resolves_name_currency_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		user := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, user.ID)

		ctx, err := svc.ActiveHousehold(user.ID)
		testutil.AssertNoError(t, err)
		if ctx.HouseholdID != household.ID {
			t.Errorf("expected household %s, got %s", household.ID, ctx.HouseholdID)
		}
		if ctx.Role != models.MemberRoleOwner {
			t.Errorf("expected role owner, got %s", ctx.Role)
		}
	})

	t.Run("no_household", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ActiveHousehold(user.ID)
		testutil.AssertAppError(t, err, "NO_HOUSEHOLD")
	})
}

func TestGetMembers(t *testing.T) {
	t.Run("member_can_list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		testutil.AddTestMember(t, db, household.ID, member.ID, models.MemberRoleMember, models.MemberStatusActive)

		members, err := svc.GetMembers(member.ID, household.ID)
		testutil.AssertNoError(t, err)
		if len(members) != 2 {
			t.Fatalf("expected 2 members, got %d", len(members))
		}
		if members[0].User == nil || members[0].User.Email == "" {
			t.Error("expected user profile preloaded")
		}
	})

	t.Run("outsider_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)

		_, err := svc.GetMembers(outsider.ID, household.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestUpdateMemberRole(t *testing.T) {
	t.Run("owner_promotes_member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		member := testutil.AddTestMember(t, db, household.ID, user.ID, models.MemberRoleMember, models.MemberStatusActive)

		updated, err := svc.UpdateMemberRole(owner.ID, household.ID, member.ID, models.MemberRoleOwner)
		testutil.AssertNoError(t, err)
		if updated.Role != models.MemberRoleOwner {
			t.Errorf("expected role owner, got %s", updated.Role)
		}
	})

	t.Run("member_cannot_change_roles", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		member := testutil.AddTestMember(t, db, household.ID, user.ID, models.MemberRoleMember, models.MemberStatusActive)

		_, err := svc.UpdateMemberRole(user.ID, household.ID, member.ID, models.MemberRoleOwner)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("demoting_last_owner_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)

		var member models.HouseholdMember
		if err := db.Where("household_id = ? AND user_id = ?", household.ID, owner.ID).First(&member).Error; err != nil {
			t.Fatalf("owner membership lookup: %v", err)
		}

		_, err := svc.UpdateMemberRole(owner.ID, household.ID, member.ID, models.MemberRoleMember)
		testutil.AssertAppError(t, err, "LAST_OWNER")
	})
}

func TestRemoveMember(t *testing.T) {
	t.Run("owner_removes_member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		member := testutil.AddTestMember(t, db, household.ID, user.ID, models.MemberRoleMember, models.MemberStatusActive)

		testutil.AssertNoError(t, svc.RemoveMember(owner.ID, household.ID, member.ID))

		var count int64
		db.Model(&models.HouseholdMember{}).Where("id = ?", member.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected member row removed, found %d", count)
		}
	})

	t.Run("removing_last_owner_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)

		var member models.HouseholdMember
		if err := db.Where("household_id = ? AND user_id = ?", household.ID, owner.ID).First(&member).Error; err != nil {
			t.Fatalf("owner membership lookup: %v", err)
		}

		testutil.AssertAppError(t, svc.RemoveMember(owner.ID, household.ID, member.ID), "LAST_OWNER")
	})

	t.Run("unknown_member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHouseholdService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		otherHousehold := testutil.CreateTestHousehold(t, db, other.ID)

		var foreign models.HouseholdMember
		if err := db.Where("household_id = ?", otherHousehold.ID).First(&foreign).Error; err != nil {
			t.Fatalf("foreign membership lookup: %v", err)
		}

		testutil.AssertAppError(t, svc.RemoveMember(owner.ID, household.ID, foreign.ID), "MEMBER_NOT_FOUND")
	})
}
