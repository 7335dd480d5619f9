package services

import (
	"testing"

	"cashflow/internal/models"
	"cashflow/internal/testutil"
)

func TestCreateTemplate(t *testing.T) {
	t.Run("owner_creates_template", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)

		template, err := svc.CreateTemplate(owner.ID, household.ID, "Standard Month")
		testutil.AssertNoError(t, err)
		if template.Name != "Standard Month" {
			t.Errorf("expected name Standard Month, got %s", template.Name)
		}
		if template.HouseholdID != household.ID {
			t.Error("expected template bound to household")
		}
	})

	t.Run("member_cannot_create", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		testutil.AddTestMember(t, db, household.ID, member.ID, models.MemberRoleMember, models.MemberStatusActive)

		_, err := svc.CreateTemplate(member.ID, household.ID, "Nope")
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestGetTemplateByID(t *testing.T) {
	t.Run("member_reads_with_items", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		testutil.AddTestMember(t, db, household.ID, member.ID, models.MemberRoleMember, models.MemberStatusActive)
		template := testutil.CreateTestTemplate(t, db, household.ID)
		testutil.CreateTestTemplateIncome(t, db, template.ID, "Salary", 42000)
		testutil.CreateTestTemplateExpense(t, db, template.ID, "Rent", 12000)
		testutil.CreateTestTemplateAllocation(t, db, template.ID, "Savings", 5000)

		got, err := svc.GetTemplateByID(member.ID, template.ID)
		testutil.AssertNoError(t, err)
		if len(got.Incomes) != 1 || len(got.Expenses) != 1 || len(got.Allocations) != 1 {
			t.Errorf("expected 1/1/1 items, got %d/%d/%d", len(got.Incomes), len(got.Expenses), len(got.Allocations))
		}
	})

	t.Run("outsider_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		template := testutil.CreateTestTemplate(t, db, household.ID)

		_, err := svc.GetTemplateByID(outsider.ID, template.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("unknown_template", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetTemplateByID(user.ID, "b9f6c1f0-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "TEMPLATE_NOT_FOUND")
	})
}

func TestTemplateItems(t *testing.T) {
	t.Run("create_income_defaults_frequency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		template := testutil.CreateTestTemplate(t, db, household.ID)

		income, err := svc.CreateIncome(owner.ID, template.ID, models.TemplateIncome{Name: "Salary", Amount: 42000})
		testutil.AssertNoError(t, err)
		if income.Frequency != "monthly" {
			t.Errorf("expected default frequency monthly, got %s", income.Frequency)
		}
	})

	t.Run("update_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		template := testutil.CreateTestTemplate(t, db, household.ID)
		expense := testutil.CreateTestTemplateExpense(t, db, template.ID, "Rent", 12000)

		updated, err := svc.UpdateExpense(owner.ID, template.ID, expense.ID, models.TemplateExpense{
			Name:      "Rent",
			Amount:    12500,
			Category:  "housing",
			Type:      models.ExpenseTypeSpendingTransfer,
			Frequency: "monthly",
		})
		testutil.AssertNoError(t, err)
		if updated.Amount != 12500 {
			t.Errorf("expected amount 12500, got %f", updated.Amount)
		}

		var stored models.TemplateExpense
		testutil.AssertNoError(t, db.First(&stored, "id = ?", expense.ID).Error)
		if stored.Type != models.ExpenseTypeSpendingTransfer {
			t.Errorf("expected type spending_transfer, got %s", stored.Type)
		}
	})

	t.Run("member_cannot_mutate_items", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		testutil.AddTestMember(t, db, household.ID, member.ID, models.MemberRoleMember, models.MemberStatusActive)
		template := testutil.CreateTestTemplate(t, db, household.ID)

		_, err := svc.CreateAllocation(member.ID, template.ID, models.TemplateAllocation{
			Name: "Savings", Amount: 5000, Type: models.AllocationTypeSavings,
		})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("item_scoped_to_template", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		template := testutil.CreateTestTemplate(t, db, household.ID)
		other := testutil.CreateTestTemplate(t, db, household.ID)
		income := testutil.CreateTestTemplateIncome(t, db, other.ID, "Salary", 42000)

		err := svc.DeleteIncome(owner.ID, template.ID, income.ID)
		testutil.AssertAppError(t, err, "TEMPLATE_ITEM_NOT_FOUND")
	})
}

func TestDeleteTemplate(t *testing.T) {
	t.Run("deletes_template_and_items", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		template := testutil.CreateTestTemplate(t, db, household.ID)
		testutil.CreateTestTemplateIncome(t, db, template.ID, "Salary", 42000)
		testutil.CreateTestTemplateExpense(t, db, template.ID, "Rent", 12000)

		testutil.AssertNoError(t, svc.DeleteTemplate(owner.ID, template.ID))

		_, err := svc.GetTemplateByID(owner.ID, template.ID)
		testutil.AssertAppError(t, err, "TEMPLATE_NOT_FOUND")

		var items int64
		db.Model(&models.TemplateIncome{}).Where("template_id = ?", template.ID).Count(&items)
		if items != 0 {
			t.Errorf("expected income items removed, got %d", items)
		}
	})

	t.Run("member_cannot_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db, NewMembershipService(db))
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner.ID)
		testutil.AddTestMember(t, db, household.ID, member.ID, models.MemberRoleMember, models.MemberStatusActive)
		template := testutil.CreateTestTemplate(t, db, household.ID)

		err := svc.DeleteTemplate(member.ID, template.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}
