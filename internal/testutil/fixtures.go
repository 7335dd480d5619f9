package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"cashflow/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		FullName: fmt.Sprintf("Test User %d", counter.Load()),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestHousehold creates a household with the given user as its active owner.
func CreateTestHousehold(t *testing.T, db *gorm.DB, ownerID string) *models.Household {
	t.Helper()

	household := &models.Household{
		Name:      fmt.Sprintf("Test Household %d", nextID()),
		Currency:  "USD",
		CreatedBy: ownerID,
	}
	if err := db.Create(household).Error; err != nil {
		t.Fatalf("failed to create test household: %v", err)
	}

	AddTestMember(t, db, household.ID, ownerID, models.MemberRoleOwner, models.MemberStatusActive)
	return household
}

// AddTestMember adds a membership row for a user.
func AddTestMember(t *testing.T, db *gorm.DB, householdID, userID string, role models.MemberRole, status models.MemberStatus) *models.HouseholdMember {
	t.Helper()

	member := &models.HouseholdMember{
		HouseholdID: householdID,
		UserID:      &userID,
		Role:        role,
		Status:      status,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateTestTemplate creates an empty budget template.
func CreateTestTemplate(t *testing.T, db *gorm.DB, householdID string) *models.BudgetTemplate {
	t.Helper()

	template := &models.BudgetTemplate{
		HouseholdID: householdID,
		Name:        fmt.Sprintf("Test Template %d", nextID()),
	}
	if err := db.Create(template).Error; err != nil {
		t.Fatalf("failed to create test template: %v", err)
	}
	return template
}

// CreateTestTemplateIncome adds an income line item to a template.
func CreateTestTemplateIncome(t *testing.T, db *gorm.DB, templateID, name string, amount float64) *models.TemplateIncome {
	t.Helper()

	item := &models.TemplateIncome{
		TemplateID: templateID,
		Name:       name,
		Amount:     amount,
		Frequency:  "monthly",
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test template income: %v", err)
	}
	return item
}

// CreateTestTemplateExpense adds an expense line item to a template.
func CreateTestTemplateExpense(t *testing.T, db *gorm.DB, templateID, name string, amount float64) *models.TemplateExpense {
	t.Helper()

	item := &models.TemplateExpense{
		TemplateID: templateID,
		Name:       name,
		Amount:     amount,
		Category:   "Housing",
		Type:       models.ExpenseTypeExpense,
		Frequency:  "monthly",
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test template expense: %v", err)
	}
	return item
}

// CreateTestTemplateAllocation adds an allocation line item to a template.
func CreateTestTemplateAllocation(t *testing.T, db *gorm.DB, templateID, name string, amount float64) *models.TemplateAllocation {
	t.Helper()

	item := &models.TemplateAllocation{
		TemplateID: templateID,
		Name:       name,
		Amount:     amount,
		Type:       models.AllocationTypeSavings,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test template allocation: %v", err)
	}
	return item
}

// CreateTestBudget creates a monthly budget for a unique month so the
// (household, year, month) index never collides between fixtures.
func CreateTestBudget(t *testing.T, db *gorm.DB, householdID string) *models.MonthlyBudget {
	t.Helper()

	n := nextID()
	budget := &models.MonthlyBudget{
		HouseholdID: householdID,
		Year:        2024 + int(n/12),
		Month:       int(n%12) + 1,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestMonthlyIncome adds an income line item to a budget.
func CreateTestMonthlyIncome(t *testing.T, db *gorm.DB, budgetID, name string, amount float64) *models.MonthlyIncome {
	t.Helper()

	item := &models.MonthlyIncome{
		MonthlyBudgetID: budgetID,
		Name:            name,
		Amount:          amount,
		Frequency:       "monthly",
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test monthly income: %v", err)
	}
	return item
}

// CreateTestInviteToken creates an unexpired invite token for an email.
func CreateTestInviteToken(t *testing.T, db *gorm.DB, householdID, email string) *models.InviteToken {
	t.Helper()

	token := &models.InviteToken{
		Token:       fmt.Sprintf("test-token-%d", nextID()),
		HouseholdID: householdID,
		Email:       email,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(token).Error; err != nil {
		t.Fatalf("failed to create test invite token: %v", err)
	}
	return token
}
