package models

// ActivityLog is an append-only record of create/update/delete actions in a
// household. TemplateID, MonthlyBudgetID, Year, and Month are optional links
// used by the UI for deep links back to the affected screen.
type ActivityLog struct {
	Base
	HouseholdID     string  `gorm:"type:uuid;not null;index" json:"household_id"`
	ActorID         string  `gorm:"type:uuid;not null" json:"actor_id"`
	Action          string  `gorm:"not null" json:"action"`
	TableName       string  `gorm:"not null" json:"table_name"`
	RecordID        string  `gorm:"type:uuid" json:"record_id"`
	Description     string  `json:"description"`
	TemplateID      *string `gorm:"type:uuid" json:"template_id,omitempty"`
	MonthlyBudgetID *string `gorm:"type:uuid" json:"monthly_budget_id,omitempty"`
	Year            *int    `json:"year,omitempty"`
	Month           *int    `json:"month,omitempty"`
}
