package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/models"
)

// inviteService handles the invite token lifecycle.
type inviteService struct {
	db         *gorm.DB
	membership MembershipServicer
	ttl        time.Duration
}

// NewInviteService creates a new InviteServicer with the given token TTL.
func NewInviteService(db *gorm.DB, membership MembershipServicer, ttl time.Duration) InviteServicer {
	return &inviteService{db: db, membership: membership, ttl: ttl}
}

// CreateInvite issues a single-use token for an email and ensures a pending
// member row exists. Owner-only. Re-inviting the same email reuses the
// member row and issues a fresh token, which covers the resend flow.
func (s *inviteService) CreateInvite(callerID, householdID, inviteEmail string) (*models.InviteToken, error) {
	if err := s.membership.RequireOwner(householdID, callerID); err != nil {
		return nil, err
	}

	inviteEmail = strings.ToLower(strings.TrimSpace(inviteEmail))
	if inviteEmail == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email is required")
	}

	token := &models.InviteToken{
		Token:       newToken(),
		HouseholdID: householdID,
		Email:       inviteEmail,
		ExpiresAt:   time.Now().Add(s.ttl),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var member models.HouseholdMember
		err := tx.Where("household_id = ? AND invited_email = ?", householdID, inviteEmail).
			First(&member).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			member = models.HouseholdMember{
				HouseholdID:  householdID,
				InvitedEmail: &inviteEmail,
				Role:         models.MemberRoleMember,
				Status:       models.MemberStatusInvited,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}
		return tx.Create(token).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return token, nil
}

// AcceptToken consumes an invite token for the logged-in user. The token
// must match the user's email, be unconsumed, and be unexpired. The pending
// member row is activated and bound to the user.
func (s *inviteService) AcceptToken(userID, userEmail, token string) (*models.HouseholdMember, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	userEmail = strings.ToLower(userEmail)

	var invite models.InviteToken
	if err := s.db.Where("token = ?", token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInviteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if invite.Consumed() {
		return nil, apperrors.ErrInviteConsumed
	}
	if invite.Expired(time.Now()) {
		return nil, apperrors.ErrInviteExpired
	}
	if invite.Email != userEmail {
		return nil, apperrors.ErrInviteMismatch
	}

	var member models.HouseholdMember
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("household_id = ? AND invited_email = ? AND status = ?",
			invite.HouseholdID, invite.Email, models.MemberStatusInvited).
			First(&member).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Invite row was revoked after the token was issued; recreate it.
			member = models.HouseholdMember{
				HouseholdID: invite.HouseholdID,
				Role:        models.MemberRoleMember,
			}
			member.UserID = &userID
			member.Status = models.MemberStatusActive
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&member).Updates(map[string]interface{}{
				"user_id": userID,
				"status":  models.MemberStatusActive,
			}).Error; err != nil {
				return err
			}
			member.UserID = &userID
			member.Status = models.MemberStatusActive
		}

		now := time.Now()
		return tx.Model(&invite).Update("consumed_at", now).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &member, nil
}

// AcceptPending activates every pending invite matching the user's email
// and returns how many were accepted. Expired tokens are skipped.
func (s *inviteService) AcceptPending(userID, userEmail string) (int, error) {
	if userID == "" {
		return 0, apperrors.ErrUnauthorized
	}
	userEmail = strings.ToLower(userEmail)

	var invites []models.InviteToken
	err := s.db.Where("email = ? AND consumed_at IS NULL AND expires_at > ?", userEmail, time.Now()).
		Find(&invites).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	accepted := 0
	for i := range invites {
		if _, err := s.AcceptToken(userID, userEmail, invites[i].Token); err == nil {
			accepted++
		}
	}
	return accepted, nil
}

// newToken returns a 32-byte random hex token.
func newToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure is unrecoverable for token issuance
		panic(err)
	}
	return hex.EncodeToString(buf)
}
