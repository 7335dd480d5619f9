package models

// ExpenseType distinguishes a plain expense from a transfer into a
// dedicated spending account.
type ExpenseType string

const (
	ExpenseTypeExpense          ExpenseType = "expense"
	ExpenseTypeSpendingTransfer ExpenseType = "spending_transfer"
)

// AllocationType represents where an allocation line item sends money.
type AllocationType string

const (
	AllocationTypeSavings       AllocationType = "savings"
	AllocationTypeMonthlyBudget AllocationType = "monthly_budget"
)

// BudgetTemplate is a reusable baseline set of income, expense, and
// allocation line items belonging to one household.
type BudgetTemplate struct {
	Base
	HouseholdID string `gorm:"type:uuid;not null;index" json:"household_id"`
	Name        string `gorm:"not null" json:"name"`

	Incomes     []TemplateIncome     `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"incomes,omitempty"`
	Expenses    []TemplateExpense    `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
	Allocations []TemplateAllocation `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"allocations,omitempty"`
}

// TemplateIncome is an income line item under a template.
type TemplateIncome struct {
	Base
	TemplateID     string  `gorm:"type:uuid;not null;index" json:"template_id"`
	Name           string  `gorm:"not null" json:"name"`
	Amount         float64 `gorm:"not null" json:"amount"`
	Frequency      string  `gorm:"not null;default:monthly" json:"frequency"`
	AssignedUserID *string `gorm:"type:uuid" json:"assigned_user_id,omitempty"`
}

// TemplateExpense is an expense line item under a template.
type TemplateExpense struct {
	Base
	TemplateID      string      `gorm:"type:uuid;not null;index" json:"template_id"`
	Name            string      `gorm:"not null" json:"name"`
	Amount          float64     `gorm:"not null" json:"amount"`
	Category        string      `gorm:"not null" json:"category"`
	Type            ExpenseType `gorm:"not null;default:expense" json:"type"`
	SpendingAccount *string     `json:"spending_account,omitempty"`
	Frequency       string      `gorm:"not null;default:monthly" json:"frequency"`
}

// TemplateAllocation is an allocation line item under a template.
type TemplateAllocation struct {
	Base
	TemplateID     string         `gorm:"type:uuid;not null;index" json:"template_id"`
	Name           string         `gorm:"not null" json:"name"`
	Amount         float64        `gorm:"not null" json:"amount"`
	Type           AllocationType `gorm:"not null" json:"type"`
	AssignedUserID *string        `gorm:"type:uuid" json:"assigned_user_id,omitempty"`
}
