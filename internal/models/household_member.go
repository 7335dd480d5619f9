package models

// MemberRole represents a member's role within a household
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// MemberStatus represents the lifecycle state of a membership
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusInvited MemberStatus = "invited"
)

// HouseholdMember links a user (or a pending invited email) to a household.
// UserID is null until an invited member accepts; InvitedEmail is null for
// members created directly. Only active owners may mutate household-scoped
// resources.
type HouseholdMember struct {
	Base
	HouseholdID  string       `gorm:"type:uuid;not null;index" json:"household_id"`
	UserID       *string      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	InvitedEmail *string      `json:"invited_email,omitempty"`
	Role         MemberRole   `gorm:"not null;default:member" json:"role"`
	Status       MemberStatus `gorm:"not null;default:invited" json:"status"`

	Household Household `gorm:"foreignKey:HouseholdID" json:"-"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
