package services

import (
	"gorm.io/gorm"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/logger"
	"cashflow/internal/models"
	"cashflow/internal/pagination"
)

// activityService records and serves the household activity feed.
type activityService struct {
	db         *gorm.DB
	membership MembershipServicer
}

// NewActivityService creates a new ActivityServicer.
func NewActivityService(db *gorm.DB, membership MembershipServicer) ActivityServicer {
	return &activityService{db: db, membership: membership}
}

// Log records an activity entry. Failures are logged and swallowed: the
// feed is best-effort and must never fail the mutation it trails.
func (s *activityService) Log(householdID, actorID string, entry ActivityEntry) {
	record := models.ActivityLog{
		HouseholdID:     householdID,
		ActorID:         actorID,
		Action:          entry.Action,
		TableName:       entry.TableName,
		RecordID:        entry.RecordID,
		Description:     entry.Description,
		TemplateID:      entry.TemplateID,
		MonthlyBudgetID: entry.MonthlyBudgetID,
		Year:            entry.Year,
		Month:           entry.Month,
	}
	if err := s.db.Create(&record).Error; err != nil {
		logger.Get().Errorw("failed to record activity",
			"household_id", householdID,
			"action", entry.Action,
			"table", entry.TableName,
			"error", err,
		)
	}
}

// GetHouseholdActivity returns a household's activity, newest first,
// optionally filtered to one table.
func (s *activityService) GetHouseholdActivity(callerID, householdID, tableFilter string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error) {
	if err := s.membership.RequireMember(householdID, callerID); err != nil {
		return nil, err
	}

	page.Defaults()

	query := s.db.Model(&models.ActivityLog{}).Where("household_id = ?", householdID)
	if tableFilter != "" {
		query = query.Where("table_name = ?", tableFilter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.ActivityLog
	err := query.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, total)
	return &result, nil
}
