package services

import (
	"testing"

	"cashflow/internal/models"
	"cashflow/internal/testutil"
)

func TestRequireOwner(t *testing.T) {
	t.Run("active_owner_passes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gate := NewMembershipService(db)
		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)

		testutil.AssertNoError(t, gate.RequireOwner(household.ID, owner.ID))
	})

	t.Run("plain_member_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gate := NewMembershipService(db)
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		testutil.AddTestMember(t, db, household.ID, member.ID, models.MemberRoleMember, models.MemberStatusActive)

		testutil.AssertAppError(t, gate.RequireOwner(household.ID, member.ID), "FORBIDDEN")
	})

	t.Run("invited_owner_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gate := NewMembershipService(db)
		owner := testutil.CreateTestUser(t, db)
		pending := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		testutil.AddTestMember(t, db, household.ID, pending.ID, models.MemberRoleOwner, models.MemberStatusInvited)

		testutil.AssertAppError(t, gate.RequireOwner(household.ID, pending.ID), "FORBIDDEN")
	})

	t.Run("empty_user_unauthorized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gate := NewMembershipService(db)
		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)

		testutil.AssertAppError(t, gate.RequireOwner(household.ID, ""), "UNAUTHORIZED")
	})
}

func TestRequireMember(t *testing.T) {
	t.Run("member_passes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gate := NewMembershipService(db)
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		testutil.AddTestMember(t, db, household.ID, member.ID, models.MemberRoleMember, models.MemberStatusActive)

		testutil.AssertNoError(t, gate.RequireMember(household.ID, member.ID))
	})

	t.Run("outsider_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gate := NewMembershipService(db)
		owner := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)

		testutil.AssertAppError(t, gate.RequireMember(household.ID, outsider.ID), "FORBIDDEN")
	})
}

func TestActiveMembership(t *testing.T) {
	t.Run("returns_first_active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gate := NewMembershipService(db)
		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)

		member, err := gate.ActiveMembership(owner.ID)
		testutil.AssertNoError(t, err)
		if member.HouseholdID != household.ID {
			t.Errorf("expected household %s, got %s", household.ID, member.HouseholdID)
		}
		if member.Household.Name != household.Name {
			t.Errorf("expected household preloaded with name %q, got %q", household.Name, member.Household.Name)
		}
	})

	t.Run("no_household", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gate := NewMembershipService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := gate.ActiveMembership(user.ID)
		testutil.AssertAppError(t, err, "NO_HOUSEHOLD")
	})
}
