package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/models"
)

// membershipService is the central authorization gate. The owner check used
// to be repeated inline at every mutating entry point; it lives here once
// so every service asks the same question the same way.
type membershipService struct {
	db *gorm.DB
}

// NewMembershipService creates a new MembershipServicer.
func NewMembershipService(db *gorm.DB) MembershipServicer {
	return &membershipService{db: db}
}

// RequireOwner fails with ErrForbidden unless the user is an active owner
// of the household. It must be called before any household-scoped write.
func (s *membershipService) RequireOwner(householdID, userID string) error {
	return s.require(householdID, userID, true)
}

// RequireMember fails with ErrForbidden unless the user is an active member
// (any role) of the household.
func (s *membershipService) RequireMember(householdID, userID string) error {
	return s.require(householdID, userID, false)
}

func (s *membershipService) require(householdID, userID string, ownerOnly bool) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}

	q := s.db.Model(&models.HouseholdMember{}).
		Where("household_id = ? AND user_id = ? AND status = ?", householdID, userID, models.MemberStatusActive)
	if ownerOnly {
		q = q.Where("role = ?", models.MemberRoleOwner)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrForbidden
	}
	return nil
}

// ActiveMembership returns the user's first active membership, or
// ErrNoActiveHousehold when the user belongs to no household.
func (s *membershipService) ActiveMembership(userID string) (*models.HouseholdMember, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var member models.HouseholdMember
	err := s.db.Preload("Household").
		Where("user_id = ? AND status = ?", userID, models.MemberStatusActive).
		Order("created_at ASC").
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoActiveHousehold
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}
