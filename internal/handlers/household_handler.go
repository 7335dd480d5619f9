package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/models"
	"cashflow/internal/pagination"
	"cashflow/internal/services"
)

// HouseholdHandler handles household and membership requests.
type HouseholdHandler struct {
	householdService services.HouseholdServicer
	activityService  services.ActivityServicer
}

// NewHouseholdHandler creates a new HouseholdHandler.
func NewHouseholdHandler(householdService services.HouseholdServicer, activityService services.ActivityServicer) *HouseholdHandler {
	return &HouseholdHandler{householdService: householdService, activityService: activityService}
}

// CreateHouseholdRequest represents the request payload for creating a household.
type CreateHouseholdRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Currency string `json:"currency" binding:"required,iso4217"`
}

// UpdateMemberRoleRequest represents the request payload for changing a member's role.
type UpdateMemberRoleRequest struct {
	Role models.MemberRole `json:"role" binding:"required,member_role"`
}

// CreateHousehold creates a household with the caller as its first owner.
// @Summary     Create a household
// @Description Create a new household with the caller as active owner
// @Tags        households
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateHouseholdRequest true "Household details"
// @Success     201 {object} models.Household "Household created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households [post]
func (h *HouseholdHandler) CreateHousehold(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	household, err := h.householdService.CreateHousehold(userID, req.Name, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Log(household.ID, userID, services.ActivityEntry{
		Action:      "create",
		TableName:   "households",
		RecordID:    household.ID,
		Description: "Created household " + household.Name,
	})

	c.JSON(http.StatusCreated, gin.H{"household": household})
}

// GetActiveHousehold resolves the caller's active household.
// @Summary     Get active household
// @Description Resolve the caller's first active household membership
// @Tags        households
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.HouseholdContext "Active household"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No active household"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/active [get]
func (h *HouseholdHandler) GetActiveHousehold(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx, err := h.householdService.ActiveHousehold(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"household": ctx})
}

// GetMembers lists a household's members, including pending invites.
// @Summary     List household members
// @Description List a household's members with joined user profiles
// @Tags        households
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Household ID"
// @Success     200 {object} map[string][]models.HouseholdMember "Members"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/members [get]
func (h *HouseholdHandler) GetMembers(c *gin.Context) {
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

	members, err := h.householdService.GetMembers(userID, householdID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// UpdateMemberRole changes a member's role. Owner-only.
// @Summary     Update member role
// @Description Change a household member's role (owner-only)
// @Tags        households
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string                  true "Household ID"
// @Param       memberID path string                  true "Member ID"
// @Param       request  body UpdateMemberRoleRequest true "New role"
// @Success     200 {object} models.HouseholdMember "Updated member"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     409 {object} ErrorResponse "Would leave no owner"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/members/{memberID} [put]
func (h *HouseholdHandler) UpdateMemberRole(c *gin.Context) {
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
	memberID, err := parsePathID(c, "memberID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.householdService.UpdateMemberRole(userID, householdID, memberID, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Log(householdID, userID, services.ActivityEntry{
		Action:      "update",
		TableName:   "household_members",
		RecordID:    memberID,
		Description: "Changed a member role to " + string(req.Role),
	})

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// RemoveMember removes a member or revokes a pending invite. Owner-only.
// @Summary     Remove household member
// @Description Remove a member or revoke a pending invite (owner-only)
// @Tags        households
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string true "Household ID"
// @Param       memberID path string true "Member ID"
// @Success     200 {object} MessageResponse "Member removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an owner"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     409 {object} ErrorResponse "Would leave no owner"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/members/{memberID} [delete]
func (h *HouseholdHandler) RemoveMember(c *gin.Context) {
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
	memberID, err := parsePathID(c, "memberID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.householdService.RemoveMember(userID, householdID, memberID); err != nil {
		respondWithError(c, err)
		return
	}

	h.activityService.Log(householdID, userID, services.ActivityEntry{
		Action:      "delete",
		TableName:   "household_members",
		RecordID:    memberID,
		Description: "Removed a household member",
	})

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

// GetActivity returns the household activity feed, newest first.
// @Summary     Get household activity
// @Description Paginated activity feed, optionally filtered by table
// @Tags        households
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Household ID"
// @Param       table     query string false "Filter by table name"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.ActivityLog] "Paginated activity"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /households/{id}/activity [get]
func (h *HouseholdHandler) GetActivity(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.activityService.GetHouseholdActivity(userID, householdID, c.Query("table"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
