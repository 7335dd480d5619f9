package services

import (
	"cashflow/internal/models"
	"cashflow/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, fullName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	UpdateProfile(userID, fullName, avatarURL string) (*models.User, error)
	DisplayName(userID string) (string, error)
}

// MembershipServicer is the single authorization gate for household-scoped
// resources. Every mutating service entry point calls it before any write.
type MembershipServicer interface {
	RequireOwner(householdID, userID string) error
	RequireMember(householdID, userID string) error
	ActiveMembership(userID string) (*models.HouseholdMember, error)
}

// HouseholdContext describes the caller's active household, resolved from
// their first active membership.
type HouseholdContext struct {
	HouseholdID string            `json:"household_id"`
	Name        string            `json:"name"`
	Currency    string            `json:"currency"`
	Role        models.MemberRole `json:"role"`
}

// HouseholdServicer defines the contract for household-related business logic.
type HouseholdServicer interface {
	CreateHousehold(userID, name, currency string) (*models.Household, error)
	ActiveHousehold(userID string) (*HouseholdContext, error)
	GetHousehold(callerID, householdID string) (*models.Household, error)
	GetMembers(callerID, householdID string) ([]models.HouseholdMember, error)
	UpdateMemberRole(callerID, householdID, memberID string, role models.MemberRole) (*models.HouseholdMember, error)
	RemoveMember(callerID, householdID, memberID string) error
}

// InviteServicer defines the contract for the invite token lifecycle.
type InviteServicer interface {
	CreateInvite(callerID, householdID, inviteEmail string) (*models.InviteToken, error)
	AcceptToken(userID, userEmail, token string) (*models.HouseholdMember, error)
	AcceptPending(userID, userEmail string) (int, error)
}

// TemplateServicer defines the contract for budget template business logic.
type TemplateServicer interface {
	CreateTemplate(callerID, householdID, name string) (*models.BudgetTemplate, error)
	GetHouseholdTemplates(callerID, householdID string) ([]models.BudgetTemplate, error)
	GetTemplateByID(callerID, templateID string) (*models.BudgetTemplate, error)
	RenameTemplate(callerID, templateID, name string) (*models.BudgetTemplate, error)
	DeleteTemplate(callerID, templateID string) error

	CreateIncome(callerID, templateID string, item models.TemplateIncome) (*models.TemplateIncome, error)
	UpdateIncome(callerID, templateID, itemID string, item models.TemplateIncome) (*models.TemplateIncome, error)
	DeleteIncome(callerID, templateID, itemID string) error
	CreateExpense(callerID, templateID string, item models.TemplateExpense) (*models.TemplateExpense, error)
	UpdateExpense(callerID, templateID, itemID string, item models.TemplateExpense) (*models.TemplateExpense, error)
	DeleteExpense(callerID, templateID, itemID string) error
	CreateAllocation(callerID, templateID string, item models.TemplateAllocation) (*models.TemplateAllocation, error)
	UpdateAllocation(callerID, templateID, itemID string, item models.TemplateAllocation) (*models.TemplateAllocation, error)
	DeleteAllocation(callerID, templateID, itemID string) error
}

// VarianceTone labels a monthly amount relative to its template baseline.
type VarianceTone string

const (
	ToneOver  VarianceTone = "over"
	ToneUnder VarianceTone = "under"
)

// ItemVariance is the baseline comparison for a single monthly line item.
// Tone is empty when the diff is zero or no baseline exists, in which case
// the UI hides the badge.
type ItemVariance struct {
	ItemID   string       `json:"item_id"`
	Baseline float64      `json:"baseline"`
	Diff     float64      `json:"diff"`
	Tone     VarianceTone `json:"tone,omitempty"`
}

// BudgetDetail is a monthly budget with its line items, the baseline
// template (when still present), and per-item variances.
type BudgetDetail struct {
	Budget    *models.MonthlyBudget  `json:"budget"`
	Template  *models.BudgetTemplate `json:"template,omitempty"`
	Variances []ItemVariance         `json:"variances"`
}

// BudgetServicer defines the contract for monthly budget business logic.
type BudgetServicer interface {
	CreateBudget(callerID, householdID string, year, month int, templateID *string) (*models.MonthlyBudget, error)
	GetHouseholdBudgets(callerID, householdID string, page pagination.PageRequest) (*pagination.PageResponse[models.MonthlyBudget], error)
	GetBudgetByID(callerID, budgetID string) (*BudgetDetail, error)
	GetBudgetByMonth(callerID, householdID string, year, month int) (*BudgetDetail, error)
	DeleteBudget(callerID, budgetID string) error

	CreateIncome(callerID, budgetID string, item models.MonthlyIncome) (*models.MonthlyIncome, error)
	UpdateIncome(callerID, budgetID, itemID string, item models.MonthlyIncome) (*models.MonthlyIncome, error)
	DeleteIncome(callerID, budgetID, itemID string) error
	CreateExpense(callerID, budgetID string, item models.MonthlyExpense) (*models.MonthlyExpense, error)
	UpdateExpense(callerID, budgetID, itemID string, item models.MonthlyExpense) (*models.MonthlyExpense, error)
	DeleteExpense(callerID, budgetID, itemID string) error
	CreateAllocation(callerID, budgetID string, item models.MonthlyAllocation) (*models.MonthlyAllocation, error)
	UpdateAllocation(callerID, budgetID, itemID string, item models.MonthlyAllocation) (*models.MonthlyAllocation, error)
	DeleteAllocation(callerID, budgetID, itemID string) error
}

// CopyServicer materializes monthly budgets from templates or prior months.
type CopyServicer interface {
	CopyTemplate(callerID, householdID, templateID string, year, month int) (*models.MonthlyBudget, error)
	DuplicateBudget(callerID, sourceBudgetID string, year, month int) (*models.MonthlyBudget, error)
}

// ActivityEntry carries the optional deep-link fields of an activity record.
type ActivityEntry struct {
	Action          string
	TableName       string
	RecordID        string
	Description     string
	TemplateID      *string
	MonthlyBudgetID *string
	Year            *int
	Month           *int
}

// ActivityServicer defines the contract for the household activity feed.
type ActivityServicer interface {
	Log(householdID, actorID string, entry ActivityEntry)
	GetHouseholdActivity(callerID, householdID, tableFilter string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error)
}
