package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cashflow/internal/config"
	"cashflow/internal/email"
	apperrors "cashflow/internal/errors"
	"cashflow/internal/logger"
	"cashflow/internal/services"
)

// InviteHandler handles household invite requests.
type InviteHandler struct {
	inviteService    services.InviteServicer
	householdService services.HouseholdServicer
	activityService  services.ActivityServicer
	mailer           *email.Client
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(inviteService services.InviteServicer, householdService services.HouseholdServicer, activityService services.ActivityServicer, mailer *email.Client) *InviteHandler {
	return &InviteHandler{
		inviteService:    inviteService,
		householdService: householdService,
		activityService:  activityService,
		mailer:           mailer,
	}
}

// CreateInviteRequest represents the request payload for inviting a member.
type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// AcceptInviteRequest represents the request payload for accepting an invite.
type AcceptInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

// InviteResponse reports the invite outcome, including whether the
// invitation email went out.
type InviteResponse struct {
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
	EmailSent bool   `json:"email_sent"`
}

// CreateInvite invites an email address to a household. Owner-only. The
// invite succeeds even when the email fails to send; the response reports
// whether it went out so the UI can offer a resend.
// @Summary     Invite a member
// @Description Create an invite token and email it to the invitee (owner-only)
// @Tags        invites
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Household ID"
// @Param       request body CreateInviteRequest true "Invitee email"
// @Success     201 {object} InviteResponse "Invite created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/invites [post]
func (h *InviteHandler) CreateInvite(c *gin.Context) {
	h.issueInvite(c, http.StatusCreated, "create", "Invited a new member")
}

// ResendInvite re-issues and re-sends an invite for a pending member.
// Owner-only.
// @Summary     Resend an invite
// @Description Re-issue the invite token and re-send the email (owner-only)
// @Tags        invites
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Household ID"
// @Param       request body CreateInviteRequest true "Invitee email"
// @Success     200 {object} InviteResponse "Invite re-sent"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/invites/resend [post]
func (h *InviteHandler) ResendInvite(c *gin.Context) {
	h.issueInvite(c, http.StatusOK, "update", "Resent a member invite")
}

func (h *InviteHandler) issueInvite(c *gin.Context, status int, action, description string) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	householdID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invite, err := h.inviteService.CreateInvite(userID, householdID, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	emailSent := false
	if h.mailer.Configured() {
		household, err := h.householdService.GetHousehold(userID, householdID)
		if err == nil {
			inviteURL := config.Get().AppBaseURL + "/invites/accept?token=" + invite.Token
			if err := h.mailer.SendInvite(invite.Email, household.Name, inviteURL); err != nil {
				logger.Get().Warnw("failed to send invite email",
					"household_id", householdID, "error", err)
			} else {
				emailSent = true
			}
		}
	}

	h.activityService.Log(householdID, userID, services.ActivityEntry{
		Action:      action,
		TableName:   "household_members",
		RecordID:    invite.ID,
		Description: description,
	})

	c.JSON(status, InviteResponse{
		Email:     invite.Email,
		ExpiresAt: invite.ExpiresAt.Format(time.RFC3339),
		EmailSent: emailSent,
	})
}

// AcceptInvite consumes an invite token for the authenticated caller.
// @Summary     Accept an invite
// @Description Consume an invite token and activate the caller's membership
// @Tags        invites
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AcceptInviteRequest true "Invite token"
// @Success     200 {object} models.HouseholdMember "Activated membership"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Token issued for a different email"
// @Failure     404 {object} ErrorResponse "Invite not found"
// @Failure     409 {object} ErrorResponse "Invite already used"
// @Failure     410 {object} ErrorResponse "Invite expired"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invites/accept [post]
func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	userEmail, err := getUserEmail(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.inviteService.AcceptToken(userID, userEmail, req.Token)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Log(member.HouseholdID, userID, services.ActivityEntry{
		Action:      "update",
		TableName:   "household_members",
		RecordID:    member.ID,
		Description: "Joined the household",
	})

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// AcceptPendingInvites accepts every unexpired invite matching the
// caller's email and reports how many were activated.
// @Summary     Accept pending invites
// @Description Accept all pending invites addressed to the caller's email
// @Tags        invites
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int "Accepted invite count"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invites/accept-pending [post]
func (h *InviteHandler) AcceptPendingInvites(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	userEmail, err := getUserEmail(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accepted, err := h.inviteService.AcceptPending(userID, userEmail)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": accepted})
}
