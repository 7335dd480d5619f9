package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/models"
	"cashflow/internal/pagination"
)

// budgetService handles monthly budget business logic.
type budgetService struct {
	db         *gorm.DB
	membership MembershipServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, membership MembershipServicer) BudgetServicer {
	return &budgetService{db: db, membership: membership}
}

// CreateBudget creates an empty monthly budget. Owner-only. A household
// can hold at most one budget per (year, month).
func (s *budgetService) CreateBudget(callerID, householdID string, year, month int, templateID *string) (*models.MonthlyBudget, error) {
	if err := s.membership.RequireOwner(householdID, callerID); err != nil {
		return nil, err
	}
	if err := validateBudgetMonth(year, month); err != nil {
		return nil, err
	}
	if err := s.checkMonthFree(householdID, year, month); err != nil {
		return nil, err
	}

	budget := &models.MonthlyBudget{
		HouseholdID: householdID,
		Year:        year,
		Month:       month,
		TemplateID:  templateID,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetHouseholdBudgets lists a household's budgets, most recent month first.
func (s *budgetService) GetHouseholdBudgets(callerID, householdID string, page pagination.PageRequest) (*pagination.PageResponse[models.MonthlyBudget], error) {
	if err := s.membership.RequireMember(householdID, callerID); err != nil {
		return nil, err
	}

	page.Defaults()

	var total int64
	query := s.db.Model(&models.MonthlyBudget{}).Where("household_id = ?", householdID)
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.MonthlyBudget
	err := query.Order("year DESC, month DESC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, total)
	return &result, nil
}

// GetBudgetByID returns a budget with its line items, baseline template
// (when the link still resolves), and per-item variances.
func (s *budgetService) GetBudgetByID(callerID, budgetID string) (*BudgetDetail, error) {
	budget, err := s.fetch(budgetID)
	if err != nil {
		return nil, err
	}
	if err := s.membership.RequireMember(budget.HouseholdID, callerID); err != nil {
		return nil, err
	}
	return s.buildDetail(budget)
}

// GetBudgetByMonth resolves a household's budget for one calendar month.
func (s *budgetService) GetBudgetByMonth(callerID, householdID string, year, month int) (*BudgetDetail, error) {
	if err := s.membership.RequireMember(householdID, callerID); err != nil {
		return nil, err
	}

	var budget models.MonthlyBudget
	err := s.db.Where("household_id = ? AND year = ? AND month = ?", householdID, year, month).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.buildDetail(&budget)
}

// DeleteBudget deletes a budget and its line items. Owner-only.
func (s *budgetService) DeleteBudget(callerID, budgetID string) error {
	budget, err := s.fetchOwned(callerID, budgetID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("monthly_budget_id = ?", budgetID).Delete(&models.MonthlyIncome{}).Error; err != nil {
			return err
		}
		if err := tx.Where("monthly_budget_id = ?", budgetID).Delete(&models.MonthlyExpense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("monthly_budget_id = ?", budgetID).Delete(&models.MonthlyAllocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(budget).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateIncome adds an income line item to a budget. Owner-only.
func (s *budgetService) CreateIncome(callerID, budgetID string, item models.MonthlyIncome) (*models.MonthlyIncome, error) {
	if _, err := s.fetchOwned(callerID, budgetID); err != nil {
		return nil, err
	}
	item.MonthlyBudgetID = budgetID
	item.UpdatedBy = &callerID
	applyFrequencyDefault(&item.Frequency)
	if err := s.db.Create(&item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// UpdateIncome updates an income line item, stamping the editor. Owner-only.
// The template back-reference is never editable after creation.
func (s *budgetService) UpdateIncome(callerID, budgetID, itemID string, item models.MonthlyIncome) (*models.MonthlyIncome, error) {
	if _, err := s.fetchOwned(callerID, budgetID); err != nil {
		return nil, err
	}

	var existing models.MonthlyIncome
	if err := s.findItem(&existing, itemID, budgetID); err != nil {
		return nil, err
	}

	applyFrequencyDefault(&item.Frequency)
	err := s.db.Model(&existing).Updates(map[string]interface{}{
		"name":             item.Name,
		"amount":           item.Amount,
		"frequency":        item.Frequency,
		"assigned_user_id": item.AssignedUserID,
		"updated_by":       callerID,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &existing, nil
}

// DeleteIncome removes an income line item. Owner-only.
func (s *budgetService) DeleteIncome(callerID, budgetID, itemID string) error {
	if _, err := s.fetchOwned(callerID, budgetID); err != nil {
		return err
	}
	return s.deleteItem(&models.MonthlyIncome{}, itemID, budgetID)
}

// CreateExpense adds an expense line item to a budget. Owner-only.
func (s *budgetService) CreateExpense(callerID, budgetID string, item models.MonthlyExpense) (*models.MonthlyExpense, error) {
	if _, err := s.fetchOwned(callerID, budgetID); err != nil {
		return nil, err
	}
	item.MonthlyBudgetID = budgetID
	item.UpdatedBy = &callerID
	applyFrequencyDefault(&item.Frequency)
	if item.Type == "" {
		item.Type = models.ExpenseTypeExpense
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// UpdateExpense updates an expense line item, stamping the editor. Owner-only.
func (s *budgetService) UpdateExpense(callerID, budgetID, itemID string, item models.MonthlyExpense) (*models.MonthlyExpense, error) {
	if _, err := s.fetchOwned(callerID, budgetID); err != nil {
		return nil, err
	}

	var existing models.MonthlyExpense
	if err := s.findItem(&existing, itemID, budgetID); err != nil {
		return nil, err
	}

	applyFrequencyDefault(&item.Frequency)
	if item.Type == "" {
		item.Type = models.ExpenseTypeExpense
	}
	err := s.db.Model(&existing).Updates(map[string]interface{}{
		"name":             item.Name,
		"amount":           item.Amount,
		"category":         item.Category,
		"type":             item.Type,
		"spending_account": item.SpendingAccount,
		"frequency":        item.Frequency,
		"updated_by":       callerID,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &existing, nil
}

// DeleteExpense removes an expense line item. Owner-only.
func (s *budgetService) DeleteExpense(callerID, budgetID, itemID string) error {
	if _, err := s.fetchOwned(callerID, budgetID); err != nil {
		return err
	}
	return s.deleteItem(&models.MonthlyExpense{}, itemID, budgetID)
}

// CreateAllocation adds an allocation line item to a budget. Owner-only.
func (s *budgetService) CreateAllocation(callerID, budgetID string, item models.MonthlyAllocation) (*models.MonthlyAllocation, error) {
	if _, err := s.fetchOwned(callerID, budgetID); err != nil {
		return nil, err
	}
	item.MonthlyBudgetID = budgetID
	item.UpdatedBy = &callerID
	if err := s.db.Create(&item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// UpdateAllocation updates an allocation line item, stamping the editor.
// Owner-only.
func (s *budgetService) UpdateAllocation(callerID, budgetID, itemID string, item models.MonthlyAllocation) (*models.MonthlyAllocation, error) {
	if _, err := s.fetchOwned(callerID, budgetID); err != nil {
		return nil, err
	}

	var existing models.MonthlyAllocation
	if err := s.findItem(&existing, itemID, budgetID); err != nil {
		return nil, err
	}

	err := s.db.Model(&existing).Updates(map[string]interface{}{
		"name":             item.Name,
		"amount":           item.Amount,
		"type":             item.Type,
		"assigned_user_id": item.AssignedUserID,
		"updated_by":       callerID,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &existing, nil
}

// DeleteAllocation removes an allocation line item. Owner-only.
func (s *budgetService) DeleteAllocation(callerID, budgetID, itemID string) error {
	if _, err := s.fetchOwned(callerID, budgetID); err != nil {
		return err
	}
	return s.deleteItem(&models.MonthlyAllocation{}, itemID, budgetID)
}

// fetch loads a budget row without line items.
func (s *budgetService) fetch(budgetID string) (*models.MonthlyBudget, error) {
	var budget models.MonthlyBudget
	if err := s.db.Where("id = ?", budgetID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// fetchOwned loads a budget and asserts the caller is an active owner of
// its household. All budget mutations go through this.
func (s *budgetService) fetchOwned(callerID, budgetID string) (*models.MonthlyBudget, error) {
	budget, err := s.fetch(budgetID)
	if err != nil {
		return nil, err
	}
	if err := s.membership.RequireOwner(budget.HouseholdID, callerID); err != nil {
		return nil, err
	}
	return budget, nil
}

// buildDetail loads line items, resolves the baseline template if the link
// still points at a live row, and computes per-item variances.
func (s *budgetService) buildDetail(budget *models.MonthlyBudget) (*BudgetDetail, error) {
	err := s.db.Preload("Incomes").Preload("Expenses").Preload("Allocations").
		Where("id = ?", budget.ID).
		First(budget).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	detail := &BudgetDetail{Budget: budget, Variances: []ItemVariance{}}

	if budget.TemplateID != nil {
		var template models.BudgetTemplate
		err := s.db.Preload("Incomes").Preload("Expenses").Preload("Allocations").
			Where("id = ?", *budget.TemplateID).
			First(&template).Error
		switch {
		case err == nil:
			detail.Template = &template
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Template deleted after materialization; budget stands alone.
		default:
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if detail.Template != nil {
		detail.Variances = computeVariances(budget, detail.Template)
	}
	return detail, nil
}

// computeVariances compares each monthly line item against the template
// item it was copied from. Items added after materialization have no
// back-reference and get no variance.
func computeVariances(budget *models.MonthlyBudget, template *models.BudgetTemplate) []ItemVariance {
	incomeBaselines := make(map[string]float64, len(template.Incomes))
	for _, item := range template.Incomes {
		incomeBaselines[item.ID] = item.Amount
	}
	expenseBaselines := make(map[string]float64, len(template.Expenses))
	for _, item := range template.Expenses {
		expenseBaselines[item.ID] = item.Amount
	}
	allocationBaselines := make(map[string]float64, len(template.Allocations))
	for _, item := range template.Allocations {
		allocationBaselines[item.ID] = item.Amount
	}

	variances := []ItemVariance{}
	appendVariance := func(itemID string, amount float64, refID *string, baselines map[string]float64) {
		if refID == nil {
			return
		}
		baseline, ok := baselines[*refID]
		if !ok {
			return
		}
		diff := amount - baseline
		if diff == 0 {
			return
		}
		v := ItemVariance{ItemID: itemID, Baseline: baseline, Diff: diff}
		if diff > 0 {
			v.Tone = ToneOver
		} else {
			v.Tone = ToneUnder
		}
		variances = append(variances, v)
	}

	for _, item := range budget.Incomes {
		appendVariance(item.ID, item.Amount, item.TemplateIncomeID, incomeBaselines)
	}
	for _, item := range budget.Expenses {
		appendVariance(item.ID, item.Amount, item.TemplateExpenseID, expenseBaselines)
	}
	for _, item := range budget.Allocations {
		appendVariance(item.ID, item.Amount, item.TemplateAllocationID, allocationBaselines)
	}
	return variances
}

func (s *budgetService) checkMonthFree(householdID string, year, month int) error {
	var count int64
	err := s.db.Model(&models.MonthlyBudget{}).
		Where("household_id = ? AND year = ? AND month = ?", householdID, year, month).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrBudgetExists
	}
	return nil
}

func (s *budgetService) findItem(dest interface{}, itemID, budgetID string) error {
	err := s.db.Where("id = ? AND monthly_budget_id = ?", itemID, budgetID).First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetItemNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *budgetService) deleteItem(model interface{}, itemID, budgetID string) error {
	res := s.db.Where("id = ? AND monthly_budget_id = ?", itemID, budgetID).Delete(model)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBudgetItemNotFound
	}
	return nil
}

func validateBudgetMonth(year, month int) error {
	if month < 1 || month > 12 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 2000 || year > 2200 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range")
	}
	return nil
}
