package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/models"
)

// templateService handles budget template business logic.
type templateService struct {
	db         *gorm.DB
	membership MembershipServicer
}

// NewTemplateService creates a new TemplateServicer.
func NewTemplateService(db *gorm.DB, membership MembershipServicer) TemplateServicer {
	return &templateService{db: db, membership: membership}
}

// CreateTemplate creates an empty template in a household. Owner-only.
func (s *templateService) CreateTemplate(callerID, householdID, name string) (*models.BudgetTemplate, error) {
	if err := s.membership.RequireOwner(householdID, callerID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "template name is required")
	}

	template := &models.BudgetTemplate{HouseholdID: householdID, Name: name}
	if err := s.db.Create(template).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return template, nil
}

// GetHouseholdTemplates lists a household's templates, newest first.
func (s *templateService) GetHouseholdTemplates(callerID, householdID string) ([]models.BudgetTemplate, error) {
	if err := s.membership.RequireMember(householdID, callerID); err != nil {
		return nil, err
	}

	var templates []models.BudgetTemplate
	err := s.db.Where("household_id = ?", householdID).
		Order("created_at DESC").
		Find(&templates).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return templates, nil
}

// GetTemplateByID returns a template with all three line-item collections.
// Any active member of the owning household may read it.
func (s *templateService) GetTemplateByID(callerID, templateID string) (*models.BudgetTemplate, error) {
	template, err := s.fetch(templateID)
	if err != nil {
		return nil, err
	}
	if err := s.membership.RequireMember(template.HouseholdID, callerID); err != nil {
		return nil, err
	}

	err = s.db.Preload("Incomes").Preload("Expenses").Preload("Allocations").
		Where("id = ?", templateID).
		First(template).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return template, nil
}

// RenameTemplate changes a template's name. Owner-only.
func (s *templateService) RenameTemplate(callerID, templateID, name string) (*models.BudgetTemplate, error) {
	template, err := s.fetchOwned(callerID, templateID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "template name is required")
	}

	if err := s.db.Model(template).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return template, nil
}

// DeleteTemplate deletes a template and its line items. Owner-only.
// Monthly budgets already materialized from the template are snapshots and
// are left untouched; their template back-references simply stop resolving.
func (s *templateService) DeleteTemplate(callerID, templateID string) error {
	template, err := s.fetchOwned(callerID, templateID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", templateID).Delete(&models.TemplateIncome{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", templateID).Delete(&models.TemplateExpense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", templateID).Delete(&models.TemplateAllocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(template).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateIncome adds an income line item to a template. Owner-only.
func (s *templateService) CreateIncome(callerID, templateID string, item models.TemplateIncome) (*models.TemplateIncome, error) {
	if _, err := s.fetchOwned(callerID, templateID); err != nil {
		return nil, err
	}
	item.TemplateID = templateID
	applyFrequencyDefault(&item.Frequency)
	if err := s.db.Create(&item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// UpdateIncome updates an income line item. Owner-only.
func (s *templateService) UpdateIncome(callerID, templateID, itemID string, item models.TemplateIncome) (*models.TemplateIncome, error) {
	if _, err := s.fetchOwned(callerID, templateID); err != nil {
		return nil, err
	}

	var existing models.TemplateIncome
	if err := s.findItem(&existing, itemID, templateID); err != nil {
		return nil, err
	}

	applyFrequencyDefault(&item.Frequency)
	err := s.db.Model(&existing).Updates(map[string]interface{}{
		"name":             item.Name,
		"amount":           item.Amount,
		"frequency":        item.Frequency,
		"assigned_user_id": item.AssignedUserID,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &existing, nil
}

// DeleteIncome removes an income line item. Owner-only.
func (s *templateService) DeleteIncome(callerID, templateID, itemID string) error {
	if _, err := s.fetchOwned(callerID, templateID); err != nil {
		return err
	}
	return s.deleteItem(&models.TemplateIncome{}, itemID, templateID)
}

// CreateExpense adds an expense line item to a template. Owner-only.
func (s *templateService) CreateExpense(callerID, templateID string, item models.TemplateExpense) (*models.TemplateExpense, error) {
	if _, err := s.fetchOwned(callerID, templateID); err != nil {
		return nil, err
	}
	item.TemplateID = templateID
	applyFrequencyDefault(&item.Frequency)
	if item.Type == "" {
		item.Type = models.ExpenseTypeExpense
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// UpdateExpense updates an expense line item. Owner-only.
func (s *templateService) UpdateExpense(callerID, templateID, itemID string, item models.TemplateExpense) (*models.TemplateExpense, error) {
	if _, err := s.fetchOwned(callerID, templateID); err != nil {
		return nil, err
	}

	var existing models.TemplateExpense
	if err := s.findItem(&existing, itemID, templateID); err != nil {
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
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &existing, nil
}

// DeleteExpense removes an expense line item. Owner-only.
func (s *templateService) DeleteExpense(callerID, templateID, itemID string) error {
	if _, err := s.fetchOwned(callerID, templateID); err != nil {
		return err
	}
	return s.deleteItem(&models.TemplateExpense{}, itemID, templateID)
}

// CreateAllocation adds an allocation line item to a template. Owner-only.
func (s *templateService) CreateAllocation(callerID, templateID string, item models.TemplateAllocation) (*models.TemplateAllocation, error) {
	if _, err := s.fetchOwned(callerID, templateID); err != nil {
		return nil, err
	}
	item.TemplateID = templateID
	if err := s.db.Create(&item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// UpdateAllocation updates an allocation line item. Owner-only.
func (s *templateService) UpdateAllocation(callerID, templateID, itemID string, item models.TemplateAllocation) (*models.TemplateAllocation, error) {
	if _, err := s.fetchOwned(callerID, templateID); err != nil {
		return nil, err
	}

	var existing models.TemplateAllocation
	if err := s.findItem(&existing, itemID, templateID); err != nil {
		return nil, err
	}

	err := s.db.Model(&existing).Updates(map[string]interface{}{
		"name":             item.Name,
		"amount":           item.Amount,
		"type":             item.Type,
		"assigned_user_id": item.AssignedUserID,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &existing, nil
}

// DeleteAllocation removes an allocation line item. Owner-only.
func (s *templateService) DeleteAllocation(callerID, templateID, itemID string) error {
	if _, err := s.fetchOwned(callerID, templateID); err != nil {
		return err
	}
	return s.deleteItem(&models.TemplateAllocation{}, itemID, templateID)
}

// fetch loads a template row without line items.
func (s *templateService) fetch(templateID string) (*models.BudgetTemplate, error) {
	var template models.BudgetTemplate
	if err := s.db.Where("id = ?", templateID).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTemplateNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &template, nil
}

// fetchOwned loads a template and asserts the caller is an active owner of
// its household. All template mutations go through this.
func (s *templateService) fetchOwned(callerID, templateID string) (*models.BudgetTemplate, error) {
	template, err := s.fetch(templateID)
	if err != nil {
		return nil, err
	}
	if err := s.membership.RequireOwner(template.HouseholdID, callerID); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *templateService) findItem(dest interface{}, itemID, templateID string) error {
	err := s.db.Where("id = ? AND template_id = ?", itemID, templateID).First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTemplateItemNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *templateService) deleteItem(model interface{}, itemID, templateID string) error {
	res := s.db.Where("id = ? AND template_id = ?", itemID, templateID).Delete(model)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTemplateItemNotFound
	}
	return nil
}

func applyFrequencyDefault(frequency *string) {
	if *frequency == "" {
		*frequency = "monthly"
	}
}
