package models

// Household is the tenant boundary: it owns members, templates, and budgets.
type Household struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	Currency  string `gorm:"size:3;not null" json:"currency"`
	CreatedBy string `gorm:"type:uuid;not null" json:"created_by"`

	Members   []HouseholdMember `gorm:"foreignKey:HouseholdID" json:"members,omitempty"`
	Templates []BudgetTemplate  `gorm:"foreignKey:HouseholdID" json:"templates,omitempty"`
	Budgets   []MonthlyBudget   `gorm:"foreignKey:HouseholdID" json:"budgets,omitempty"`
}
