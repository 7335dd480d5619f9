package models

import "time"

// InviteToken is a short-lived, single-use token associating an email with
// a household. It is consumed by the invite acceptance flow to activate the
// matching HouseholdMember row.
type InviteToken struct {
	Base
	Token       string     `gorm:"uniqueIndex;not null" json:"-"`
	HouseholdID string     `gorm:"type:uuid;not null;index" json:"household_id"`
	Email       string     `gorm:"not null;index" json:"email"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	ConsumedAt  *time.Time `json:"consumed_at,omitempty"`
}

// Expired reports whether the token is past its expiry time.
func (t *InviteToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Consumed reports whether the token has already been used.
func (t *InviteToken) Consumed() bool {
	return t.ConsumedAt != nil
}
