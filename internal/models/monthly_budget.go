package models

// MonthlyBudget holds one calendar month's actual line items for a
// household. TemplateID records which template it was materialized from,
// if any; the copy is a snapshot, so deleting the template later does not
// cascade here. A household can have at most one budget per (year, month).
type MonthlyBudget struct {
	Base
	HouseholdID string  `gorm:"type:uuid;not null;uniqueIndex:idx_budget_month" json:"household_id"`
	Year        int     `gorm:"not null;uniqueIndex:idx_budget_month" json:"year"`
	Month       int     `gorm:"not null;uniqueIndex:idx_budget_month" json:"month"`
	TemplateID  *string `gorm:"type:uuid" json:"template_id,omitempty"`

	Incomes     []MonthlyIncome     `gorm:"foreignKey:MonthlyBudgetID;constraint:OnDelete:CASCADE" json:"incomes,omitempty"`
	Expenses    []MonthlyExpense    `gorm:"foreignKey:MonthlyBudgetID;constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
	Allocations []MonthlyAllocation `gorm:"foreignKey:MonthlyBudgetID;constraint:OnDelete:CASCADE" json:"allocations,omitempty"`
}

// MonthlyIncome is an income line item under a monthly budget.
// TemplateIncomeID points at the template line item it was copied from and
// exists only to compute baseline variance; it is never enforced for
// integrity.
type MonthlyIncome struct {
	Base
	MonthlyBudgetID  string  `gorm:"type:uuid;not null;index" json:"monthly_budget_id"`
	Name             string  `gorm:"not null" json:"name"`
	Amount           float64 `gorm:"not null" json:"amount"`
	Frequency        string  `gorm:"not null;default:monthly" json:"frequency"`
	AssignedUserID   *string `gorm:"type:uuid" json:"assigned_user_id,omitempty"`
	TemplateIncomeID *string `gorm:"type:uuid" json:"template_income_id,omitempty"`
	UpdatedBy        *string `gorm:"type:uuid" json:"updated_by,omitempty"`
}

// MonthlyExpense is an expense line item under a monthly budget.
type MonthlyExpense struct {
	Base
	MonthlyBudgetID   string      `gorm:"type:uuid;not null;index" json:"monthly_budget_id"`
	Name              string      `gorm:"not null" json:"name"`
	Amount            float64     `gorm:"not null" json:"amount"`
	Category          string      `gorm:"not null" json:"category"`
	Type              ExpenseType `gorm:"not null;default:expense" json:"type"`
	SpendingAccount   *string     `json:"spending_account,omitempty"`
	Frequency         string      `gorm:"not null;default:monthly" json:"frequency"`
	TemplateExpenseID *string     `gorm:"type:uuid" json:"template_expense_id,omitempty"`
	UpdatedBy         *string     `gorm:"type:uuid" json:"updated_by,omitempty"`
}

// MonthlyAllocation is an allocation line item under a monthly budget.
type MonthlyAllocation struct {
	Base
	MonthlyBudgetID      string         `gorm:"type:uuid;not null;index" json:"monthly_budget_id"`
	Name                 string         `gorm:"not null" json:"name"`
	Amount               float64        `gorm:"not null" json:"amount"`
	Type                 AllocationType `gorm:"not null" json:"type"`
	AssignedUserID       *string        `gorm:"type:uuid" json:"assigned_user_id,omitempty"`
	TemplateAllocationID *string        `gorm:"type:uuid" json:"template_allocation_id,omitempty"`
	UpdatedBy            *string        `gorm:"type:uuid" json:"updated_by,omitempty"`
}
