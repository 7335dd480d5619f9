package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/models"
)

// householdService handles household and membership business logic.
type householdService struct {
	db         *gorm.DB
	membership MembershipServicer
}

// NewHouseholdService creates a new HouseholdServicer.
func NewHouseholdService(db *gorm.DB, membership MembershipServicer) HouseholdServicer {
	return &householdService{db: db, membership: membership}
}

// CreateHousehold creates a household and its first active owner membership
// in a single transaction, so a failed member insert never leaves an
// ownerless household behind.
func (s *householdService) CreateHousehold(userID, name, currency string) (*models.Household, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "household name is required")
	}

	household := &models.Household{
		Name:      name,
		Currency:  currency,
		CreatedBy: userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(household).Error; err != nil {
			return err
		}
		member := &models.HouseholdMember{
			HouseholdID: household.ID,
			UserID:      &userID,
			Role:        models.MemberRoleOwner,
			Status:      models.MemberStatusActive,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return household, nil
}

// ActiveHousehold resolves the caller's active household and role.
func (s *householdService) ActiveHousehold(userID string) (*HouseholdContext, error) {
	member, err := s.membership.ActiveMembership(userID)
	if err != nil {
		return nil, err
	}
	return &HouseholdContext{
		HouseholdID: member.HouseholdID,
		Name:        member.Household.Name,
		Currency:    member.Household.Currency,
		Role:        member.Role,
	}, nil
}

// GetHousehold returns a household by ID. Any active member may read it.
func (s *householdService) GetHousehold(callerID, householdID string) (*models.Household, error) {
	if err := s.membership.RequireMember(householdID, callerID); err != nil {
		return nil, err
	}

	var household models.Household
	if err := s.db.Where("id = ?", householdID).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &household, nil
}

// GetMembers lists a household's members, oldest first, with user profiles.
// Any active member may read the list.
func (s *householdService) GetMembers(callerID, householdID string) ([]models.HouseholdMember, error) {
	if err := s.membership.RequireMember(householdID, callerID); err != nil {
		return nil, err
	}

	var members []models.HouseholdMember
	err := s.db.Preload("User").
		Where("household_id = ?", householdID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return members, nil
}

// UpdateMemberRole changes a member's role. Owner-only. Demoting the last
// active owner is rejected so the household never loses all owners.
func (s *householdService) UpdateMemberRole(callerID, householdID, memberID string, role models.MemberRole) (*models.HouseholdMember, error) {
	if err := s.membership.RequireOwner(householdID, callerID); err != nil {
		return nil, err
	}

	member, err := s.getMember(householdID, memberID)
	if err != nil {
		return nil, err
	}

	if member.Role == models.MemberRoleOwner && role != models.MemberRoleOwner {
		owners, err := s.countActiveOwners(householdID)
		if err != nil {
			return nil, err
		}
		if owners <= 1 {
			return nil, apperrors.ErrLastOwner
		}
	}

	if err := s.db.Model(member).Update("role", role).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return member, nil
}

// RemoveMember deletes a member row. Owner-only. Covers both removing an
// active member and revoking a pending invite.
func (s *householdService) RemoveMember(callerID, householdID, memberID string) error {
	if err := s.membership.RequireOwner(householdID, callerID); err != nil {
		return err
	}

	member, err := s.getMember(householdID, memberID)
	if err != nil {
		return err
	}

	if member.Role == models.MemberRoleOwner && member.Status == models.MemberStatusActive {
		owners, err := s.countActiveOwners(householdID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return apperrors.ErrLastOwner
		}
	}

	if err := s.db.Delete(member).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *householdService) getMember(householdID, memberID string) (*models.HouseholdMember, error) {
	var member models.HouseholdMember
	err := s.db.Where("id = ? AND household_id = ?", memberID, householdID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

func (s *householdService) countActiveOwners(householdID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.HouseholdMember{}).
		Where("household_id = ? AND role = ? AND status = ?",
			householdID, models.MemberRoleOwner, models.MemberStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}
