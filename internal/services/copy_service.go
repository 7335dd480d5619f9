package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/models"
)

// copyService materializes monthly budgets, either from a template or
// from a prior month. Both paths run as a single transaction so a failed
// item insert never leaves an orphan budget row behind.
type copyService struct {
	db         *gorm.DB
	membership MembershipServicer
}

// NewCopyService creates a new CopyServicer.
func NewCopyService(db *gorm.DB, membership MembershipServicer) CopyServicer {
	return &copyService{db: db, membership: membership}
}

// CopyTemplate creates a monthly budget for (year, month) and copies every
// template line item into it. Each copied item records the template item it
// came from, which is what baseline variance keys on later. Owner-only.
func (s *copyService) CopyTemplate(callerID, householdID, templateID string, year, month int) (*models.MonthlyBudget, error) {
	if err := s.membership.RequireOwner(householdID, callerID); err != nil {
		return nil, err
	}
	if err := validateBudgetMonth(year, month); err != nil {
		return nil, err
	}

	var template models.BudgetTemplate
	err := s.db.Preload("Incomes").Preload("Expenses").Preload("Allocations").
		Where("id = ? AND household_id = ?", templateID, householdID).
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTemplateNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget := &models.MonthlyBudget{
		HouseholdID: householdID,
		Year:        year,
		Month:       month,
		TemplateID:  &template.ID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkMonthFreeTx(tx, householdID, year, month); err != nil {
			return err
		}
		if err := tx.Create(budget).Error; err != nil {
			return err
		}

		for _, src := range template.Incomes {
			srcID := src.ID
			item := models.MonthlyIncome{
				MonthlyBudgetID:  budget.ID,
				Name:             src.Name,
				Amount:           src.Amount,
				Frequency:        src.Frequency,
				AssignedUserID:   src.AssignedUserID,
				TemplateIncomeID: &srcID,
				UpdatedBy:        &callerID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		for _, src := range template.Expenses {
			srcID := src.ID
			item := models.MonthlyExpense{
				MonthlyBudgetID:   budget.ID,
				Name:              src.Name,
				Amount:            src.Amount,
				Category:          src.Category,
				Type:              src.Type,
				SpendingAccount:   src.SpendingAccount,
				Frequency:         src.Frequency,
				TemplateExpenseID: &srcID,
				UpdatedBy:         &callerID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		for _, src := range template.Allocations {
			srcID := src.ID
			item := models.MonthlyAllocation{
				MonthlyBudgetID:      budget.ID,
				Name:                 src.Name,
				Amount:               src.Amount,
				Type:                 src.Type,
				AssignedUserID:       src.AssignedUserID,
				TemplateAllocationID: &srcID,
				UpdatedBy:            &callerID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DuplicateBudget copies a prior month's budget into (year, month). The new
// budget inherits the source's template link, and each copied line item
// carries the source item's own template back-reference, so variance always
// compares against the original template rather than chaining through
// intermediate months. Owner-only.
func (s *copyService) DuplicateBudget(callerID, sourceBudgetID string, year, month int) (*models.MonthlyBudget, error) {
	var source models.MonthlyBudget
	err := s.db.Preload("Incomes").Preload("Expenses").Preload("Allocations").
		Where("id = ?", sourceBudgetID).
		First(&source).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.membership.RequireOwner(source.HouseholdID, callerID); err != nil {
		return nil, err
	}
	if err := validateBudgetMonth(year, month); err != nil {
		return nil, err
	}

	budget := &models.MonthlyBudget{
		HouseholdID: source.HouseholdID,
		Year:        year,
		Month:       month,
		TemplateID:  source.TemplateID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkMonthFreeTx(tx, source.HouseholdID, year, month); err != nil {
			return err
		}
		if err := tx.Create(budget).Error; err != nil {
			return err
		}

		for _, src := range source.Incomes {
			item := models.MonthlyIncome{
				MonthlyBudgetID:  budget.ID,
				Name:             src.Name,
				Amount:           src.Amount,
				Frequency:        src.Frequency,
				AssignedUserID:   src.AssignedUserID,
				TemplateIncomeID: src.TemplateIncomeID,
				UpdatedBy:        &callerID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		for _, src := range source.Expenses {
			item := models.MonthlyExpense{
				MonthlyBudgetID:   budget.ID,
				Name:              src.Name,
				Amount:            src.Amount,
				Category:          src.Category,
				Type:              src.Type,
				SpendingAccount:   src.SpendingAccount,
				Frequency:         src.Frequency,
				TemplateExpenseID: src.TemplateExpenseID,
				UpdatedBy:         &callerID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		for _, src := range source.Allocations {
			item := models.MonthlyAllocation{
				MonthlyBudgetID:      budget.ID,
				Name:                 src.Name,
				Amount:               src.Amount,
				Type:                 src.Type,
				AssignedUserID:       src.AssignedUserID,
				TemplateAllocationID: src.TemplateAllocationID,
				UpdatedBy:            &callerID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

func checkMonthFreeTx(tx *gorm.DB, householdID string, year, month int) error {
	var count int64
	err := tx.Model(&models.MonthlyBudget{}).
		Where("household_id = ? AND year = ? AND month = ?", householdID, year, month).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrBudgetExists
	}
	return nil
}
